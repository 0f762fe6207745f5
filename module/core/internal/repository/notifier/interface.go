package notifier

import (
	"context"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
)

// Notifier is the notification collaborator. Delivery is fire-and-forget:
// a failure here is logged by the caller and never surfaced as an ingestion
// failure.
type Notifier interface {
	Notify(ctx context.Context, alert *domain.Alert) error
}
