package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"

	"github.com/sultan1coder/BUS-ROUTE-sub001/config"
)

type eventEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel: %v", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume("fleet_alerts", "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	log.Println("listening for fleet events, press ctrl+c to exit")

	for m := range msgs {
		var env eventEnvelope
		if err := json.Unmarshal(m.Body, &env); err != nil {
			log.Printf("skipping malformed event: %v", err)
			continue
		}
		log.Printf("[%s] %s", env.Event, env.Payload)
	}
}
