package core

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	handler "github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/handler/http"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/handler/subscriber"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database/postgres"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/notifier"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/notifier/fcm"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/publisher"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/publisher/rabbitmq"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/ws"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/service"
)

// Options carries the tunables the core requires from its environment.
// Empty FirebaseCredentialsFile disables push delivery; alerts are still
// stored and broadcast on the real-time channel.
type Options struct {
	DefaultSpeedLimitKmh    float64
	FleetAverageSpeedKmh    float64
	FirebaseCredentialsFile string
	NotificationTopic       string
}

type Module struct {
	TrackingSvc *service.TrackingService
	GeofenceSvc *service.GeofenceService
	SpeedSvc    *service.SpeedService
	ETASvc      *service.ETAService
	FleetSvc    *service.FleetService

	hub            *ws.Hub
	vehicleHandler *handler.VehicleHandler
	fleetHandler   *handler.FleetHandler
	subscriber     *subscriber.LocationSubscriber
}

// Build wires repositories, collaborators and services.
func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options) (*Module, error) {
	var notif notifier.Notifier
	if opts.FirebaseCredentialsFile != "" {
		fcmNotifier, err := fcm.NewNotifier(context.Background(), opts.FirebaseCredentialsFile, opts.NotificationTopic)
		if err != nil {
			log.Printf("fcm init failed, push notifications disabled: %v", err)
		} else {
			notif = fcmNotifier
		}
	} else {
		log.Printf("no firebase credentials configured, push notifications disabled")
	}

	locationRepo := postgres.NewLocationRepo(db)
	geofenceRepo := postgres.NewGeofenceRepo(db)
	routeRepo := postgres.NewRouteRepo(db)
	violationRepo := postgres.NewViolationRepo(db)
	alertRepo := postgres.NewAlertRepo(db)

	eventPub, err := rabbitmq.NewEventPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}

	hub := ws.NewHub()
	pub := publisher.Multi{eventPub, ws.NewPublisher(hub)}

	geofenceSvc := service.NewGeofenceService(geofenceRepo, alertRepo, notif, pub)
	speedSvc := service.NewSpeedService(violationRepo, alertRepo, notif, pub, opts.DefaultSpeedLimitKmh)
	trackingSvc := service.NewTrackingService(locationRepo, geofenceSvc, speedSvc, pub)
	etaSvc := service.NewETAService(locationRepo, routeRepo, opts.FleetAverageSpeedKmh)
	fleetSvc := service.NewFleetService(locationRepo, violationRepo, etaSvc, pub)

	return &Module{
		TrackingSvc:    trackingSvc,
		GeofenceSvc:    geofenceSvc,
		SpeedSvc:       speedSvc,
		ETASvc:         etaSvc,
		FleetSvc:       fleetSvc,
		hub:            hub,
		vehicleHandler: handler.NewVehicleHandler(trackingSvc, etaSvc),
		fleetHandler:   handler.NewFleetHandler(fleetSvc),
		subscriber:     subscriber.NewLocationSubscriber(mqttClient, trackingSvc),
	}, nil
}

// BuildMaintenance wires only the store-backed services used by ops tooling
// (retention sweeps, violation stats). No brokers, no notification
// collaborator.
func BuildMaintenance(db *sql.DB, opts Options) *Module {
	locationRepo := postgres.NewLocationRepo(db)
	routeRepo := postgres.NewRouteRepo(db)
	violationRepo := postgres.NewViolationRepo(db)
	alertRepo := postgres.NewAlertRepo(db)

	speedSvc := service.NewSpeedService(violationRepo, alertRepo, nil, nil, opts.DefaultSpeedLimitKmh)
	trackingSvc := service.NewTrackingService(locationRepo, nil, nil, nil)
	etaSvc := service.NewETAService(locationRepo, routeRepo, opts.FleetAverageSpeedKmh)
	fleetSvc := service.NewFleetService(locationRepo, violationRepo, etaSvc, nil)

	return &Module{
		TrackingSvc: trackingSvc,
		SpeedSvc:    speedSvc,
		ETASvc:      etaSvc,
		FleetSvc:    fleetSvc,
	}
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.vehicleHandler.Register(r)
	m.fleetHandler.Register(r)
	r.GET("/ws", ws.Handler(m.hub))
}

func (m *Module) StartSubscribers() error {
	go m.hub.Run()
	return m.subscriber.Start()
}
