package subscriber

import (
	"context"
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
)

const topicPattern = "/fleet/vehicle/+/location"

type trackingService interface {
	RecordLocation(ctx context.Context, vl *domain.VehicleLocation) (*domain.VehicleLocation, error)
}

type locationMessage struct {
	VehicleID  string   `json:"vehicle_id"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	SpeedKmh   *float64 `json:"speed_kmh"`
	HeadingDeg *float64 `json:"heading_deg"`
	AccuracyM  *float64 `json:"accuracy_m"`
	AltitudeM  *float64 `json:"altitude_m"`
	TripID     string   `json:"trip_id"`
	Timestamp  int64    `json:"timestamp"`
}

// LocationSubscriber is the MQTT ingestion path: bus devices publish one
// sample per message; validation and the downstream safety checks happen in
// the tracking service.
type LocationSubscriber struct {
	client      mqtt.Client
	trackingSvc trackingService
}

func NewLocationSubscriber(client mqtt.Client, trackingSvc trackingService) *LocationSubscriber {
	return &LocationSubscriber{
		client:      client,
		trackingSvc: trackingSvc,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	vl := &domain.VehicleLocation{
		VehicleID:  raw.VehicleID,
		Location:   domain.Location{Lat: raw.Latitude, Lon: raw.Longitude},
		SpeedKmh:   raw.SpeedKmh,
		HeadingDeg: raw.HeadingDeg,
		AccuracyM:  raw.AccuracyM,
		AltitudeM:  raw.AltitudeM,
		TripID:     raw.TripID,
	}
	if raw.Timestamp > 0 {
		vl.Location.Timestamp = time.Unix(raw.Timestamp, 0)
	}

	if _, err := s.trackingSvc.RecordLocation(context.Background(), vl); err != nil {
		log.Printf("record location for %s: %v", raw.VehicleID, err)
	}
}
