package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Vehicle mirrors the dashboard's vehicle wire shape.
type Vehicle struct {
	Make             string `json:"make"`
	Model            string `json:"model"`
	LicenseNo        string `json:"licenseNo"`
	VIN              string `json:"vin"`
	ClassName        string `json:"className"`
	AssignedLocation string `json:"assignedLocation"`
}

// VehicleEvent mirrors the reservation system's event wire shape.
type VehicleEvent struct {
	ID              string `json:"id,omitempty"`
	Status          string `json:"status"`
	AssignedVehicle string `json:"assignedVehicle"`
	RenterName      string `json:"renterName,omitempty"`
	Description     string `json:"description,omitempty"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	PickUpLocation  string `json:"pickUpLocation,omitempty"`
	ReturnLocation  string `json:"returnLocation,omitempty"`
}

// ReservationStatus mirrors the status lookup wire shape.
type ReservationStatus struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

var (
	makes      = []string{"Ford", "Chevrolet", "Toyota", "Honda", "Jeep"}
	carModels  = []string{"Mustang", "Camaro", "Corolla", "Civic", "Wrangler"}
	classes    = []string{"Economy", "Compact", "SUV", "Convertible"}
	renters    = []string{"Jane Smith", "Alan Brooks", "Maria Chen", "Devon Carter", "Leilani Wong"}
	oosReasons = []string{"Flat tire", "Windshield crack", "Detailing", "Brake inspection"}
	timeSlots  = []string{"9:00 am", "10:30 am", "1:00 pm", "3:00pm", "5:45 PM", "18:15"}

	locations = []string{"5czwtumKOwNiRLtfVNDw", "dDuHdE9wXNVDtoKcNxhQ"}

	statuses = []ReservationStatus{
		{ID: "stConfirmed", Name: "Confirmed", Background: "#dcfce7", Text: "#166534"},
		{ID: "stPending", Name: "Pending", Background: "#fef9c3", Text: "#854d0e"},
		{ID: "W6TBsaDUeLB9R6POm9Hf", Name: "Closed", Background: "#e5e7eb", Text: "#374151"},
	}
)

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func postJSON(apiURL, path string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	resp, err := authorizedPost(apiURL+path, bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s failed with status: %d", path, resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	id, _ := result["id"].(string)
	return id, nil
}

func createVehicle(apiURL string, n int) (string, error) {
	vehicle := Vehicle{
		Make:             makes[rand.Intn(len(makes))],
		Model:            carModels[rand.Intn(len(carModels))],
		LicenseNo:        fmt.Sprintf("HI %04d", 1000+n),
		VIN:              fmt.Sprintf("1FTSW%011d", rand.Int63n(99999999999)),
		ClassName:        classes[rand.Intn(len(classes))],
		AssignedLocation: locations[rand.Intn(len(locations))],
	}

	id, err := postJSON(apiURL, "/vehicles", vehicle)
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"vehicle_id": id,
		"make":       vehicle.Make,
		"model":      vehicle.Model,
	}).Info("Created vehicle")
	return id, nil
}

// randomEvent builds an event overlapping today, occasionally out of
// service.
func randomEvent(vehicleID string) VehicleEvent {
	today := time.Now()
	start := today.AddDate(0, 0, -rand.Intn(3))
	end := today.AddDate(0, 0, rand.Intn(4))

	if rand.Intn(5) == 0 {
		return VehicleEvent{
			Status:          "oos",
			AssignedVehicle: vehicleID,
			Description:     oosReasons[rand.Intn(len(oosReasons))],
			StartDate:       start.Format("2006-01-02"),
			EndDate:         end.Format("2006-01-02"),
		}
	}
	status := statuses[rand.Intn(len(statuses))].ID
	return VehicleEvent{
		Status:          status,
		AssignedVehicle: vehicleID,
		RenterName:      renters[rand.Intn(len(renters))],
		StartDate:       start.Format("2006-01-02"),
		EndDate:         end.Format("2006-01-02"),
		StartTime:       timeSlots[rand.Intn(len(timeSlots))],
		EndTime:         timeSlots[rand.Intn(len(timeSlots))],
		PickUpLocation:  locations[rand.Intn(len(locations))],
		ReturnLocation:  locations[rand.Intn(len(locations))],
	}
}

// publishChurn periodically pushes updated events over the reservation
// feed so the dashboard's change streams have something to chew on.
func publishChurn(client mqtt.Client, topic string, vehicleIDs []string, eventIDs []string, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		ev := randomEvent(vehicleIDs[rand.Intn(len(vehicleIDs))])
		ev.ID = eventIDs[rand.Intn(len(eventIDs))]
		data, err := json.Marshal(ev)
		if err != nil {
			log.WithError(err).Error("Failed to marshal feed event")
			continue
		}
		token := client.Publish(topic, 1, false, data)
		token.Wait()
		if err := token.Error(); err != nil {
			log.WithError(err).Error("Failed to publish feed event")
			continue
		}
		log.WithFields(log.Fields{"event_id": ev.ID, "status": ev.Status}).Info("Published feed event")
	}
}

func main() {
	_ = godotenv.Load()
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 5 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet seed")

	for _, st := range statuses {
		if _, err := postJSON(apiURL, "/statuses", st); err != nil {
			log.WithError(err).WithField("status", st.Name).Warn("Failed to create status (may already exist)")
		}
	}

	vehicleIDs := make([]string, 0, fleetSize)
	eventIDs := make([]string, 0, fleetSize*2)
	for i := 0; i < fleetSize; i++ {
		vehicleID, err := createVehicle(apiURL, i+1)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		vehicleIDs = append(vehicleIDs, vehicleID)

		for j := 0; j < 1+rand.Intn(2); j++ {
			eventID, err := postJSON(apiURL, "/events", randomEvent(vehicleID))
			if err != nil {
				log.WithError(err).Error("Failed to create event")
				continue
			}
			eventIDs = append(eventIDs, eventID)
		}
	}

	log.WithFields(log.Fields{
		"vehicles": len(vehicleIDs),
		"events":   len(eventIDs),
	}).Info("Fleet seed completed")
	if len(vehicleIDs) == 0 {
		log.Error("No vehicles created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		time.Sleep(2 * time.Second)
		return
	}

	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" || len(eventIDs) == 0 {
		log.Info("MQTT_BROKER_URL not set, skipping reservation churn")
		return
	}

	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID("fleet-status-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	defer client.Disconnect(250)

	topic := os.Getenv("MQTT_EVENTS_TOPIC")
	if topic == "" {
		topic = "fleet/events"
	}

	log.Info("Reservation churn started")
	publishChurn(client, topic, vehicleIDs, eventIDs, interval)
}
