package models

// VehicleEvent is a reservation or out-of-service record. Events are owned
// by the reservation system and are read-only to this service.
type VehicleEvent struct {
	ID              string `bson:"_id" json:"id"`
	Status          string `bson:"status" json:"status"` // reservation status id or "oos"
	AssignedVehicle string `bson:"assignedVehicle,omitempty" json:"assignedVehicle,omitempty"`
	RenterName      string `bson:"renterName,omitempty" json:"renterName,omitempty"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	StartDate       string `bson:"startDate" json:"startDate"` // "YYYY-MM-DD"
	EndDate         string `bson:"endDate" json:"endDate"`     // "YYYY-MM-DD"
	StartTime       string `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime         string `bson:"endTime,omitempty" json:"endTime,omitempty"`
	PickUpLocation  string `bson:"pickUpLocation,omitempty" json:"pickUpLocation,omitempty"`
	ReturnLocation  string `bson:"returnLocation,omitempty" json:"returnLocation,omitempty"`
}
