package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-status/internal/auth"
	"github.com/ukydev/fleet-status/internal/checkout"
	"github.com/ukydev/fleet-status/internal/config"
	"github.com/ukydev/fleet-status/internal/db"
	"github.com/ukydev/fleet-status/internal/feed"
	"github.com/ukydev/fleet-status/internal/handlers"
	"github.com/ukydev/fleet-status/internal/live"
	"github.com/ukydev/fleet-status/internal/middleware"
	"github.com/ukydev/fleet-status/internal/timeutil"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	cfg := config.Load()
	clock := timeutil.SystemClock{}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	database := client.Database(cfg.MongoDB)
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	events := &db.MongoEventCollection{Collection: database.Collection("vehicleEvents")}
	statuses := &db.MongoStatusCollection{Collection: database.Collection("reservationStatus")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	log.Info("Connected to MongoDB")

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authHandler := handlers.NewAuthHandler(authService, users)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	engine := live.NewEngine(vehicles, events, statuses, clock)
	checkoutService := checkout.NewService(vehicles, clock, time.Local)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Fatal("Live engine stopped")
		}
	}()

	if cfg.MQTTBrokerURL != "" {
		bridge, err := feed.NewBridge(cfg.MQTTBrokerURL, cfg.MQTTClientID, cfg.MQTTEventsTopic, events)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect reservation feed")
		}
		defer bridge.Close()
		if err := bridge.Start(ctx); err != nil {
			log.WithError(err).Fatal("Failed to start reservation feed")
		}
	}

	dashboard := handlers.NewDashboardHandler(engine, cfg, clock)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, engine)
	stream := handlers.NewStreamHandler(engine)
	fleet := handlers.NewFleetHandler(vehicles, events, statuses)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			authHandler.UpdateProfile(w, r)
			return
		}
		authHandler.GetProfile(w, r)
	})
	mux.Handle("/api/dashboard", dashboard)
	mux.Handle("/api/stream", stream)
	mux.Handle("POST /api/vehicles/{id}/checkout", checkoutHandler)
	mux.HandleFunc("/api/vehicles", fleet.CreateVehicle)
	mux.HandleFunc("/api/events", fleet.UpsertEvent)
	mux.HandleFunc("/api/statuses", fleet.CreateStatus)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("HTTP shutdown error")
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("Fleet status dashboard listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("HTTP server failed")
	}
}
