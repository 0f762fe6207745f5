package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
)

func TestSeverityForExcess(t *testing.T) {
	tests := []struct {
		diff float64
		want domain.Severity
	}{
		{0.1, domain.SeverityLow},
		{9.9, domain.SeverityLow},
		{10, domain.SeverityMedium},
		{14.9, domain.SeverityMedium},
		{15, domain.SeverityHigh},
		{19.9, domain.SeverityHigh},
		{20, domain.SeverityCritical},
		{45, domain.SeverityCritical},
	}

	for _, tt := range tests {
		if got := SeverityForExcess(tt.diff); got != tt.want {
			t.Errorf("SeverityForExcess(%.1f): expected %s, got %s", tt.diff, tt.want, got)
		}
	}
}

func TestSpeedCheck_AtLimitNoViolation(t *testing.T) {
	violations := &mockViolationRepo{}
	alerts := &mockAlertRepo{}

	svc := NewSpeedService(violations, alerts, nil, nil, 80)

	v, err := svc.Check(context.Background(), "BUS-001", "", 80, 80, domain.Location{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Fatalf("expected no violation, got %+v", v)
	}
	if len(violations.inserted) != 0 {
		t.Errorf("expected nothing stored, got %d inserts", len(violations.inserted))
	}
}

func TestSpeedCheck_OverLimit(t *testing.T) {
	violations := &mockViolationRepo{}
	alerts := &mockAlertRepo{}
	notifier := &mockNotifier{}
	pub := &mockEventPublisher{}

	svc := NewSpeedService(violations, alerts, notifier, pub, 80)

	ts := time.Unix(1715003456, 0)
	loc := domain.Location{Lat: -6.2, Lon: 106.8, Timestamp: ts}
	v, err := svc.Check(context.Background(), "BUS-001", "driver-9", 96, 80, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil {
		t.Fatal("expected a violation")
	}
	if v.Severity != domain.SeverityHigh {
		t.Errorf("expected HIGH for +16 km/h, got %s", v.Severity)
	}
	if v.DriverID != "driver-9" {
		t.Errorf("expected driver-9, got %s", v.DriverID)
	}
	if !v.Timestamp.Equal(ts) {
		t.Errorf("expected sample timestamp %v, got %v", ts, v.Timestamp)
	}
	if len(violations.inserted) != 1 {
		t.Errorf("expected violation stored, got %d inserts", len(violations.inserted))
	}
	if len(alerts.inserted) != 1 {
		t.Errorf("expected alert stored, got %d inserts", len(alerts.inserted))
	}
	if len(notifier.calls) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifier.calls))
	}
	if len(pub.events) != 1 {
		t.Errorf("expected 1 event, got %d", len(pub.events))
	}
}

func TestSpeedCheck_SeverityBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  domain.Severity
	}{
		{"just over", 80.5, domain.SeverityLow},
		{"plus ten", 90, domain.SeverityMedium},
		{"plus fifteen", 95, domain.SeverityHigh},
		{"plus twenty", 100, domain.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSpeedService(&mockViolationRepo{}, &mockAlertRepo{}, nil, nil, 80)

			v, err := svc.Check(context.Background(), "BUS-001", "", tt.speed, 80, domain.Location{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v == nil {
				t.Fatal("expected a violation")
			}
			if v.Severity != tt.want {
				t.Errorf("expected %s at %.1f km/h, got %s", tt.want, tt.speed, v.Severity)
			}
		})
	}
}

func TestSpeedCheck_DefaultLimitFallback(t *testing.T) {
	violations := &mockViolationRepo{}

	svc := NewSpeedService(violations, &mockAlertRepo{}, nil, nil, 80)

	// no limit supplied, 85 against the 80 default
	v, err := svc.Check(context.Background(), "BUS-001", "", 85, 0, domain.Location{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil {
		t.Fatal("expected a violation against the default limit")
	}
	if v.LimitKmh != 80 {
		t.Errorf("expected limit 80, got %.1f", v.LimitKmh)
	}
	if v.Severity != domain.SeverityLow {
		t.Errorf("expected LOW, got %s", v.Severity)
	}
}

func TestSpeedCheck_CollaboratorFailuresSwallowed(t *testing.T) {
	violations := &mockViolationRepo{}
	alerts := &mockAlertRepo{}
	notifier := &mockNotifier{
		notifyFn: func(_ context.Context, _ *domain.Alert) error {
			return errors.New("fcm unreachable")
		},
	}
	pub := &mockEventPublisher{
		publishFn: func(_ context.Context, _ string, _ any) error {
			return errors.New("broker unreachable")
		},
	}

	svc := NewSpeedService(violations, alerts, notifier, pub, 80)

	v, err := svc.Check(context.Background(), "BUS-001", "", 100, 80, domain.Location{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil {
		t.Fatal("expected a violation despite collaborator failures")
	}
}

func TestSpeedCheck_StoreError(t *testing.T) {
	violations := &mockViolationRepo{
		insertFn: func(_ context.Context, _ *domain.SpeedViolation) error {
			return errors.New("insert failed")
		},
	}

	svc := NewSpeedService(violations, &mockAlertRepo{}, nil, nil, 80)

	_, err := svc.Check(context.Background(), "BUS-001", "", 100, 80, domain.Location{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSpeedPurgeOlderThan(t *testing.T) {
	var gotCutoff time.Time
	violations := &mockViolationRepo{
		purgeFn: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 7, nil
		},
	}

	svc := NewSpeedService(violations, &mockAlertRepo{}, nil, nil, 80)

	cutoff := time.Unix(1715000000, 0)
	n, err := svc.PurgeOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 purged, got %d", n)
	}
	if !gotCutoff.Equal(cutoff) {
		t.Errorf("expected cutoff %v, got %v", cutoff, gotCutoff)
	}
}
