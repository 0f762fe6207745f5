package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/notifier"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/publisher"
)

// SpeedService classifies reported speeds against a limit and records
// violations. The limit is supplied by the caller (per-road or per-zone);
// a non-positive limit falls back to the fleet-wide default.
type SpeedService struct {
	violations   database.ViolationRepository
	alerts       database.AlertRepository
	notifier     notifier.Notifier
	publisher    publisher.EventPublisher
	defaultLimit float64
	now          func() time.Time
}

func NewSpeedService(violations database.ViolationRepository, alerts database.AlertRepository, n notifier.Notifier, pub publisher.EventPublisher, defaultLimitKmh float64) *SpeedService {
	return &SpeedService{
		violations:   violations,
		alerts:       alerts,
		notifier:     n,
		publisher:    pub,
		defaultLimit: defaultLimitKmh,
		now:          time.Now,
	}
}

// SeverityForExcess maps km/h above the limit to a severity tier.
func SeverityForExcess(diff float64) domain.Severity {
	switch {
	case diff >= 20:
		return domain.SeverityCritical
	case diff >= 15:
		return domain.SeverityHigh
	case diff >= 10:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// Check records a violation when speed exceeds the limit and returns it.
// Speed at or below the limit returns nil.
func (s *SpeedService) Check(ctx context.Context, vehicleID, driverID string, speedKmh, limitKmh float64, loc domain.Location) (*domain.SpeedViolation, error) {
	if limitKmh <= 0 {
		limitKmh = s.defaultLimit
	}
	if speedKmh <= limitKmh {
		return nil, nil
	}

	ts := loc.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	v := domain.SpeedViolation{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		DriverID:  driverID,
		SpeedKmh:  speedKmh,
		LimitKmh:  limitKmh,
		Lat:       loc.Lat,
		Lon:       loc.Lon,
		Timestamp: ts,
		Severity:  SeverityForExcess(speedKmh - limitKmh),
	}

	if err := s.violations.Insert(ctx, &v); err != nil {
		return nil, fmt.Errorf("store violation: %w", err)
	}

	alert := domain.Alert{
		ID:          uuid.NewString(),
		Type:        domain.AlertSpeedViolation,
		Severity:    v.Severity,
		Description: fmt.Sprintf("vehicle %s: %.1f km/h in a %.0f km/h zone", vehicleID, speedKmh, limitKmh),
		VehicleID:   vehicleID,
		Lat:         loc.Lat,
		Lon:         loc.Lon,
		CreatedAt:   s.now(),
	}
	if err := s.alerts.Insert(ctx, &alert); err != nil {
		return &v, fmt.Errorf("store alert: %w", err)
	}

	s.dispatch(ctx, &alert, &v)
	return &v, nil
}

// PurgeOlderThan removes violations older than the cutoff. Invoked by the
// external retention scheduler, not self-scheduled.
func (s *SpeedService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.violations.PurgeOlderThan(ctx, cutoff)
}

func (s *SpeedService) dispatch(ctx context.Context, alert *domain.Alert, v *domain.SpeedViolation) {
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, alert); err != nil {
			log.Printf("notify alert %s: %v", alert.ID, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, publisher.EventSpeedViolation, v); err != nil {
			log.Printf("publish violation %s: %v", v.ID, err)
		}
	}
}
