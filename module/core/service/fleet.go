package service

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/publisher"
)

const (
	defaultFanOutLimit   = 8
	topViolatorCount     = 5
	recentViolationLimit = 20
)

type etaAnalyzer interface {
	AnalyzeETA(ctx context.Context, vehicleID string) (*DelayAnalysis, error)
}

// FleetService fans out over vehicles to produce fleet-wide views. One
// vehicle's failure never aborts a batch: failures are logged, counted and
// excluded from the result set.
type FleetService struct {
	locations  database.LocationRepository
	violations database.ViolationRepository
	eta        etaAnalyzer
	publisher  publisher.EventPublisher
	fanOut     int
}

func NewFleetService(locations database.LocationRepository, violations database.ViolationRepository, eta etaAnalyzer, pub publisher.EventPublisher) *FleetService {
	return &FleetService{
		locations:  locations,
		violations: violations,
		eta:        eta,
		publisher:  pub,
		fanOut:     defaultFanOutLimit,
	}
}

// CurrentLocations returns the latest sample per vehicle. Vehicles with no
// samples are absent from the result; callers treat absence as "no location
// available", never as an error.
func (s *FleetService) CurrentLocations(ctx context.Context, vehicleIDs []string) ([]domain.VehicleLocation, error) {
	return s.locations.GetLatestBatch(ctx, vehicleIDs)
}

// DelayReport summarizes the fleet-wide delay scan.
type DelayReport struct {
	Alerts     []DelayAnalysis         `json:"alerts"`
	BySeverity map[domain.Severity]int `json:"by_severity"`
	Scanned    int                     `json:"scanned"`
	Skipped    int                     `json:"skipped"`
}

// DelayAlerts analyzes every vehicle's ETA concurrently and collects those
// running late, sorted by delay descending. An empty id list scans every
// vehicle with recorded history.
func (s *FleetService) DelayAlerts(ctx context.Context, vehicleIDs []string) (*DelayReport, error) {
	if len(vehicleIDs) == 0 {
		vehicles, err := s.locations.GetAllVehicles(ctx)
		if err != nil {
			return nil, err
		}
		for _, v := range vehicles {
			vehicleIDs = append(vehicleIDs, v.VehicleID)
		}
	}

	var (
		mu      sync.Mutex
		delayed []DelayAnalysis
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)
	for _, id := range vehicleIDs {
		g.Go(func() error {
			analysis, err := s.eta.AnalyzeETA(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				skipped++
				log.Printf("delay scan: skipping vehicle %s: %v", id, err)
				return nil
			}
			if analysis.IsDelayed && analysis.DelayMinutes > delayedThresholdMin {
				delayed = append(delayed, *analysis)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(delayed, func(i, j int) bool {
		return delayed[i].DelayMinutes > delayed[j].DelayMinutes
	})

	report := &DelayReport{
		Alerts:     delayed,
		BySeverity: map[domain.Severity]int{},
		Scanned:    len(vehicleIDs),
		Skipped:    skipped,
	}
	for _, a := range delayed {
		report.BySeverity[a.Severity]++
	}

	if s.publisher != nil && len(delayed) > 0 {
		if err := s.publisher.Publish(ctx, publisher.EventDelayAlert, report); err != nil {
			log.Printf("publish delay report: %v", err)
		}
	}
	return report, nil
}

// SpeedStatsReport aggregates speed violations over an optional filter.
type SpeedStatsReport struct {
	Total       int                            `json:"total"`
	BySeverity  map[domain.Severity]int        `json:"by_severity"`
	TopVehicles []domain.VehicleViolationCount `json:"top_vehicles"`
	Recent      []domain.SpeedViolation        `json:"recent"`
}

func (s *FleetService) SpeedStats(ctx context.Context, filter *domain.ViolationFilter) (*SpeedStatsReport, error) {
	if filter == nil {
		filter = &domain.ViolationFilter{}
	}

	bySeverity, err := s.violations.CountBySeverity(ctx, filter)
	if err != nil {
		return nil, err
	}
	top, err := s.violations.TopVehicles(ctx, filter, topViolatorCount)
	if err != nil {
		return nil, err
	}
	recent, err := s.violations.GetRecent(ctx, filter, recentViolationLimit)
	if err != nil {
		return nil, err
	}

	report := &SpeedStatsReport{
		BySeverity:  bySeverity,
		TopVehicles: top,
		Recent:      recent,
	}
	for _, n := range bySeverity {
		report.Total += n
	}
	return report, nil
}
