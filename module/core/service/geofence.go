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

// GeofenceService evaluates a vehicle's position against its active fences.
//
// Evaluation is level-triggered: no previous inside/outside state is kept, so
// every sample that satisfies a fence's configured alert condition re-fires.
type GeofenceService struct {
	fences    database.GeofenceRepository
	alerts    database.AlertRepository
	notifier  notifier.Notifier
	publisher publisher.EventPublisher
	now       func() time.Time
}

func NewGeofenceService(fences database.GeofenceRepository, alerts database.AlertRepository, n notifier.Notifier, pub publisher.EventPublisher) *GeofenceService {
	return &GeofenceService{
		fences:    fences,
		alerts:    alerts,
		notifier:  n,
		publisher: pub,
		now:       time.Now,
	}
}

// Check evaluates every active geofence owned by the vehicle independently,
// so one sample can raise multiple simultaneous violations. Each violation
// is persisted as a HIGH alert, handed to the notification collaborator and
// emitted on the real-time channel.
func (s *GeofenceService) Check(ctx context.Context, vehicleID string, lat, lon float64) ([]domain.Alert, error) {
	fences, err := s.fences.GetActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load geofences: %w", err)
	}

	var raised []domain.Alert
	for _, f := range fences {
		inside := DistanceMeters(lat, lon, f.Lat, f.Lon) <= f.RadiusM

		var action domain.GeofenceAction
		switch {
		case inside && f.AlertOnEnter:
			action = domain.GeofenceEnter
		case !inside && f.AlertOnExit:
			action = domain.GeofenceExit
		default:
			continue
		}

		alert := domain.Alert{
			ID:          uuid.NewString(),
			Type:        domain.AlertGeofenceViolation,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("vehicle %s: %s geofence %q", vehicleID, action, f.Name),
			VehicleID:   vehicleID,
			Lat:         lat,
			Lon:         lon,
			CreatedAt:   s.now(),
		}

		if err := s.alerts.Insert(ctx, &alert); err != nil {
			return raised, fmt.Errorf("store alert: %w", err)
		}

		s.dispatch(ctx, &alert)
		raised = append(raised, alert)
	}
	return raised, nil
}

// dispatch hands an alert to the notification and real-time collaborators.
// Both are fire-and-forget: failures are logged, never propagated.
func (s *GeofenceService) dispatch(ctx context.Context, alert *domain.Alert) {
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, alert); err != nil {
			log.Printf("notify alert %s: %v", alert.ID, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, publisher.EventGeofenceViolation, alert); err != nil {
			log.Printf("publish alert %s: %v", alert.ID, err)
		}
	}
}
