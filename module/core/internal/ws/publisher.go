package ws

import (
	"context"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/publisher"
)

var _ publisher.EventPublisher = (*Publisher)(nil)

// Publisher adapts the hub to the real-time channel contract so tracking
// and safety events reach connected dashboards.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (p *Publisher) Publish(_ context.Context, event string, payload any) error {
	return p.hub.Broadcast(envelope{Event: event, Payload: payload})
}
