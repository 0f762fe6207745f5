package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/notifier"
)

var _ notifier.Notifier = (*Notifier)(nil)

// Notifier delivers safety alerts as Firebase Cloud Messaging pushes to a
// topic that operator and parent apps subscribe to.
type Notifier struct {
	client *messaging.Client
	topic  string
}

func NewNotifier(ctx context.Context, credentialsFile, topic string) (*Notifier, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client: %w", err)
	}

	return &Notifier{client: client, topic: topic}, nil
}

func (n *Notifier) Notify(ctx context.Context, alert *domain.Alert) error {
	msg := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: notificationTitle(alert),
			Body:  alert.Description,
		},
		Data: map[string]string{
			"alert_id":   alert.ID,
			"type":       string(alert.Type),
			"severity":   string(alert.Severity),
			"vehicle_id": alert.VehicleID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	if _, err := n.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("send fcm message: %w", err)
	}
	return nil
}

func notificationTitle(alert *domain.Alert) string {
	switch alert.Type {
	case domain.AlertGeofenceViolation:
		return "Geofence violation"
	case domain.AlertSpeedViolation:
		return "Speed violation"
	default:
		return "Fleet alert"
	}
}
