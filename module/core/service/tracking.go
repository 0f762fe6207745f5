package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/publisher"
)

const defaultBatchConcurrency = 8

type geofenceChecker interface {
	Check(ctx context.Context, vehicleID string, lat, lon float64) ([]domain.Alert, error)
}

type speedChecker interface {
	Check(ctx context.Context, vehicleID, driverID string, speedKmh, limitKmh float64, loc domain.Location) (*domain.SpeedViolation, error)
}

// TrackingService validates and records position samples and triggers the
// downstream safety checks synchronously per sample.
type TrackingService struct {
	repo        database.LocationRepository
	geofenceSvc geofenceChecker
	speedSvc    speedChecker
	publisher   publisher.EventPublisher
	concurrency int
	now         func() time.Time
}

func NewTrackingService(repo database.LocationRepository, geofenceSvc geofenceChecker, speedSvc speedChecker, pub publisher.EventPublisher) *TrackingService {
	return &TrackingService{
		repo:        repo,
		geofenceSvc: geofenceSvc,
		speedSvc:    speedSvc,
		publisher:   pub,
		concurrency: defaultBatchConcurrency,
		now:         time.Now,
	}
}

// RecordLocation validates and persists one sample, then runs the geofence
// and speed checks. Violations raised by the checks are side effects (alert
// rows, notifications, events); ingestion succeeds even when a violation is
// also recorded, and failures in the check or broadcast paths are logged,
// never returned. Unregistered vehicle ids are accepted as-is.
func (s *TrackingService) RecordLocation(ctx context.Context, vl *domain.VehicleLocation) (*domain.VehicleLocation, error) {
	if err := validateSample(vl); err != nil {
		return nil, err
	}
	if vl.Location.Timestamp.IsZero() {
		vl.Location.Timestamp = s.now()
	}

	if err := s.repo.Insert(ctx, vl); err != nil {
		return nil, fmt.Errorf("store location: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, publisher.EventLocationUpdate, vl); err != nil {
			log.Printf("publish location update for %s: %v", vl.VehicleID, err)
		}
	}

	if s.geofenceSvc != nil {
		if _, err := s.geofenceSvc.Check(ctx, vl.VehicleID, vl.Location.Lat, vl.Location.Lon); err != nil {
			log.Printf("geofence check for %s: %v", vl.VehicleID, err)
		}
	}
	if s.speedSvc != nil && vl.SpeedKmh != nil {
		if _, err := s.speedSvc.Check(ctx, vl.VehicleID, "", *vl.SpeedKmh, 0, vl.Location); err != nil {
			log.Printf("speed check for %s: %v", vl.VehicleID, err)
		}
	}

	return vl, nil
}

// BatchResult tags the outcome of one sample in a bulk ingest.
type BatchResult struct {
	Index     int    `json:"index"`
	VehicleID string `json:"vehicle_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// RecordBatch ingests samples with bounded concurrency. One sample's failure
// never aborts the batch; each item gets a tagged success/failure result in
// input order.
func (s *TrackingService) RecordBatch(ctx context.Context, samples []domain.VehicleLocation) []BatchResult {
	results := make([]BatchResult, len(samples))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range samples {
		g.Go(func() error {
			vl := samples[i]
			res := BatchResult{Index: i, VehicleID: vl.VehicleID, Success: true}
			if _, err := s.RecordLocation(ctx, &vl); err != nil {
				res.Success = false
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *TrackingService) GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error) {
	return s.repo.GetLatest(ctx, vehicleID)
}

func (s *TrackingService) GetHistory(ctx context.Context, query *domain.HistoryQuery) (*domain.HistoryPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = 50
	}
	return s.repo.GetHistory(ctx, query)
}

func (s *TrackingService) GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.repo.GetAllVehicles(ctx)
}

// PurgeOlderThan removes location history older than the cutoff. Invoked by
// the external retention scheduler.
func (s *TrackingService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.PurgeOlderThan(ctx, cutoff)
}

func validateSample(vl *domain.VehicleLocation) error {
	if vl.VehicleID == "" {
		return &domain.ValidationError{Field: "vehicle_id", Reason: "required"}
	}
	if vl.Location.Lat < -90 || vl.Location.Lat > 90 {
		return &domain.ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if vl.Location.Lon < -180 || vl.Location.Lon > 180 {
		return &domain.ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}
	if vl.SpeedKmh != nil && *vl.SpeedKmh < 0 {
		return &domain.ValidationError{Field: "speed_kmh", Reason: "must not be negative"}
	}
	if vl.AccuracyM != nil && *vl.AccuracyM < 0 {
		return &domain.ValidationError{Field: "accuracy_m", Reason: "must not be negative"}
	}
	if vl.HeadingDeg != nil && (*vl.HeadingDeg < 0 || *vl.HeadingDeg >= 360) {
		return &domain.ValidationError{Field: "heading_deg", Reason: "must be between 0 and 360"}
	}
	return nil
}
