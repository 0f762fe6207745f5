package publisher

import (
	"context"
	"errors"
)

var _ EventPublisher = (Multi)(nil)

// Multi fans one event out to several publishers (e.g. RabbitMQ for
// downstream consumers plus the websocket hub for dashboards). Every
// publisher is attempted; errors are joined.
type Multi []EventPublisher

func (m Multi) Publish(ctx context.Context, event string, payload any) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
