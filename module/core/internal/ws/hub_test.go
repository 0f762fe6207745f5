package ws

import (
	"context"
	"encoding/json"
	"testing"
)

func TestBroadcast_MarshalsPayload(t *testing.T) {
	h := NewHub()

	if err := h.Broadcast(map[string]string{"event": "location_update"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case body := <-h.broadcast:
		var decoded map[string]string
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded["event"] != "location_update" {
			t.Errorf("unexpected payload: %v", decoded)
		}
	default:
		t.Fatal("expected a queued message")
	}
}

func TestBroadcast_UnmarshalablePayload(t *testing.T) {
	h := NewHub()

	if err := h.Broadcast(make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestClientCount_Empty(t *testing.T) {
	h := NewHub()
	if n := h.ClientCount(); n != 0 {
		t.Errorf("expected 0 clients, got %d", n)
	}
}

func TestPublisher_WrapsEventEnvelope(t *testing.T) {
	h := NewHub()
	p := NewPublisher(h)

	if err := p.Publish(context.Background(), "speed_violation", map[string]string{"vehicle_id": "BUS-001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case body := <-h.broadcast:
		var env struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if env.Event != "speed_violation" {
			t.Errorf("expected speed_violation, got %s", env.Event)
		}
	default:
		t.Fatal("expected a queued message")
	}
}
