package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sultan1coder/BUS-ROUTE-sub001/config"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found, using system environment")
	}
	cfg := config.Load()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	coreModule, err := core.Build(db, amqpConn, mqttClient, core.Options{
		DefaultSpeedLimitKmh:    cfg.DefaultSpeedLimitKmh,
		FleetAverageSpeedKmh:    cfg.FleetAverageSpeedKmh,
		FirebaseCredentialsFile: cfg.FirebaseCredentialsFile,
		NotificationTopic:       cfg.NotificationTopic,
	})
	if err != nil {
		log.Fatalf("core module: %v", err)
	}

	if err := coreModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	log.Printf("listening on :%s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
