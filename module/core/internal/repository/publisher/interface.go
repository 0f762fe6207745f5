package publisher

import "context"

// Event names carried on the real-time channel.
const (
	EventLocationUpdate    = "location_update"
	EventGeofenceViolation = "geofence_violation"
	EventSpeedViolation    = "speed_violation"
	EventDelayAlert        = "delay_alert"
)

// EventPublisher is the real-time broadcast collaborator. Publishing is
// fire-and-forget from the core's perspective: callers log failures and
// never propagate them to the ingesting caller.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}
