package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
)

const (
	// A stop closer than this is treated as already reached and skipped
	// when picking the next stop.
	passedStopRadiusMeters = 100

	// Recent-history window for the rolling average speed.
	speedLookback    = 15 * time.Minute
	speedSampleLimit = 10

	// Historical trips considered by PredictETA, and the confidence curve.
	maxHistoricalTrips  = 20
	confidenceFloor     = 0.3
	confidencePerTrip   = 0.05
	confidenceCeiling   = 0.95
	delayedThresholdMin = 5.0
	severeDelayMin      = 15.0
)

// defaultTrafficFactors is a static hour-of-day multiplier applied to the
// raw travel time. School-run rush hours are the slow ones.
var defaultTrafficFactors = map[int]float64{
	7: 1.5, 8: 1.5, 9: 1.3,
	14: 1.3, 15: 1.5, 16: 1.5, 17: 1.4,
}

type ETAResult struct {
	VehicleID         string        `json:"vehicle_id"`
	NextStop          domain.Stop   `json:"next_stop"`
	DistanceMeters    float64       `json:"distance_meters"`
	AverageSpeedKmh   float64       `json:"average_speed_kmh"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	EstimatedArrival  time.Time     `json:"estimated_arrival"`
}

type ETAPrediction struct {
	StopID           int64         `json:"stop_id"`
	PredictedArrival time.Time     `json:"predicted_arrival"`
	Confidence       float64       `json:"confidence"`
	BasedOnTrips     int           `json:"based_on_trips"`
	AverageDelay     time.Duration `json:"average_delay"`
}

type DelayAnalysis struct {
	VehicleID        string      `json:"vehicle_id"`
	NextStop         domain.Stop `json:"next_stop"`
	ScheduledArrival time.Time   `json:"scheduled_arrival"`
	EstimatedArrival time.Time   `json:"estimated_arrival"`
	DelayMinutes     float64     `json:"delay_minutes"`
	IsDelayed        bool        `json:"is_delayed"`
	Severity         domain.Severity `json:"severity"`
	Recommendations  []string    `json:"recommendations,omitempty"`
}

// ETAService computes point-to-point arrival estimates from the vehicle's
// latest position and its active route. No map-matching: distance is
// great-circle, adjusted by the static traffic factor table.
type ETAService struct {
	locations       database.LocationRepository
	routes          database.RouteRepository
	defaultSpeedKmh float64
	trafficFactors  map[int]float64
	now             func() time.Time
}

func NewETAService(locations database.LocationRepository, routes database.RouteRepository, fleetDefaultSpeedKmh float64) *ETAService {
	return &ETAService{
		locations:       locations,
		routes:          routes,
		defaultSpeedKmh: fleetDefaultSpeedKmh,
		trafficFactors:  defaultTrafficFactors,
		now:             time.Now,
	}
}

// CalculateETA estimates arrival at the next stop of the vehicle's active
// route. A vehicle with no recorded location or no active route is a typed
// absence, not a failure.
func (s *ETAService) CalculateETA(ctx context.Context, vehicleID string) (*ETAResult, error) {
	current, err := s.locations.GetLatest(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	route, err := s.routes.GetActiveRoute(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	stops, err := s.routes.GetStops(ctx, route.ID)
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, &domain.NotFoundError{Resource: "stops for route", ID: fmt.Sprintf("%d", route.ID)}
	}

	next, dist, ok := nextStop(current.Location, stops)
	if !ok {
		return nil, &domain.NotFoundError{Resource: "next stop for vehicle", ID: vehicleID}
	}

	avgSpeed := s.averageSpeedKmh(ctx, vehicleID)
	factor := s.trafficFactor(s.now())
	duration := time.Duration(dist / (avgSpeed / 3.6) * factor * float64(time.Second))

	return &ETAResult{
		VehicleID:         vehicleID,
		NextStop:          next,
		DistanceMeters:    dist,
		AverageSpeedKmh:   avgSpeed,
		EstimatedDuration: duration,
		EstimatedArrival:  s.now().Add(duration),
	}, nil
}

// PredictETA projects arrival at a stop from historical completed trips:
// scheduled time plus the average historical delay. Confidence grows with
// the number of trips; with none, the prediction is the schedule itself at
// the floor confidence.
func (s *ETAService) PredictETA(ctx context.Context, vehicleID string, stopID int64) (*ETAPrediction, error) {
	stop, err := s.routes.GetStop(ctx, stopID)
	if err != nil {
		return nil, err
	}

	scheduled, err := scheduledToday(stop.ScheduledTime, s.now())
	if err != nil {
		return nil, err
	}

	arrivals, err := s.routes.GetStopArrivals(ctx, stopID, maxHistoricalTrips)
	if err != nil {
		return nil, err
	}

	if len(arrivals) == 0 {
		return &ETAPrediction{
			StopID:           stopID,
			PredictedArrival: scheduled,
			Confidence:       confidenceFloor,
			BasedOnTrips:     0,
		}, nil
	}

	var total time.Duration
	for _, a := range arrivals {
		total += a.ArrivedAt.Sub(a.ScheduledAt)
	}
	avgDelay := total / time.Duration(len(arrivals))

	confidence := confidenceFloor + confidencePerTrip*float64(len(arrivals))
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}

	return &ETAPrediction{
		StopID:           stopID,
		PredictedArrival: scheduled.Add(avgDelay),
		Confidence:       confidence,
		BasedOnTrips:     len(arrivals),
		AverageDelay:     avgDelay,
	}, nil
}

// AnalyzeETA compares the estimated arrival against the next stop's schedule.
func (s *ETAService) AnalyzeETA(ctx context.Context, vehicleID string) (*DelayAnalysis, error) {
	eta, err := s.CalculateETA(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	scheduled, err := scheduledToday(eta.NextStop.ScheduledTime, s.now())
	if err != nil {
		return nil, err
	}

	delayMin := eta.EstimatedArrival.Sub(scheduled).Minutes()
	analysis := &DelayAnalysis{
		VehicleID:        vehicleID,
		NextStop:         eta.NextStop,
		ScheduledArrival: scheduled,
		EstimatedArrival: eta.EstimatedArrival,
		DelayMinutes:     delayMin,
		IsDelayed:        delayMin > delayedThresholdMin,
		Severity:         domain.SeverityMedium,
	}
	if delayMin > severeDelayMin {
		analysis.Severity = domain.SeverityHigh
	}
	if analysis.IsDelayed {
		analysis.Recommendations = []string{
			fmt.Sprintf("notify parents of stop %q about a ~%.0f minute delay", eta.NextStop.Name, delayMin),
			"review remaining stops for knock-on delays",
		}
	}
	return analysis, nil
}

// nextStop picks the first stop in sequence order farther away than the
// passed-stop radius, excluding stops the vehicle is effectively at.
func nextStop(current domain.Location, stops []domain.Stop) (domain.Stop, float64, bool) {
	for _, stop := range stops {
		d := DistanceMeters(current.Lat, current.Lon, stop.Lat, stop.Lon)
		if d > passedStopRadiusMeters {
			return stop, d, true
		}
	}
	return domain.Stop{}, 0, false
}

// averageSpeedKmh is a rolling average over recent reported speeds, falling
// back to the fleet default rather than dividing by zero when history is
// missing or the vehicle is effectively stationary.
func (s *ETAService) averageSpeedKmh(ctx context.Context, vehicleID string) float64 {
	recent, err := s.locations.GetRecent(ctx, vehicleID, s.now().Add(-speedLookback), speedSampleLimit)
	if err != nil {
		return s.defaultSpeedKmh
	}

	var sum float64
	var n int
	for _, vl := range recent {
		if vl.SpeedKmh != nil {
			sum += *vl.SpeedKmh
			n++
		}
	}
	if n == 0 {
		return s.defaultSpeedKmh
	}
	avg := sum / float64(n)
	if avg < 1 {
		return s.defaultSpeedKmh
	}
	return avg
}

func (s *ETAService) trafficFactor(t time.Time) float64 {
	if f, ok := s.trafficFactors[t.Hour()]; ok {
		return f
	}
	return 1.0
}

// scheduledToday resolves a "15:04" wall-clock schedule onto today's date.
func scheduledToday(hhmm string, now time.Time) (time.Time, error) {
	parsed, err := time.ParseInLocation("15:04", hhmm, now.Location())
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "scheduled_time", Reason: "must be in HH:MM format"}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
}
