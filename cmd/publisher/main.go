package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	SpeedKmh  float64 `json:"speed_kmh"`
	Timestamp int64   `json:"timestamp"`
}

// School coordinates the simulated buses orbit. Matches the seed data used
// in local development.
const (
	schoolLat = -6.2088
	schoolLon = 106.8456
	orbitDeg  = 0.02 // ~2.2 km radius
)

type bus struct {
	id    string
	angle float64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	buses := make([]*bus, 5)
	for i := range buses {
		buses[i] = &bus{
			id:    fmt.Sprintf("BUS-%03d", i+1),
			angle: rand.Float64() * 2 * math.Pi,
		}
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		b := buses[rand.Intn(len(buses))]
		b.angle += 0.05 + rand.Float64()*0.05

		speed := 25 + rand.Float64()*30
		// ~10% of samples speed to exercise the violation path.
		if rand.Float64() < 0.1 {
			speed = 85 + rand.Float64()*25
		}

		msg := locationMessage{
			VehicleID: b.id,
			Latitude:  schoolLat + orbitDeg*math.Sin(b.angle),
			Longitude: schoolLon + orbitDeg*math.Cos(b.angle),
			SpeedKmh:  speed,
			Timestamp: time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/fleet/vehicle/%s/location", b.id)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
