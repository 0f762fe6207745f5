package database

import (
	"context"
	"time"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
)

// LocationRepository is the append-only store of position samples. The
// current position of a vehicle is a projection over the latest sample, not
// separately persisted state.
type LocationRepository interface {
	Insert(ctx context.Context, loc *domain.VehicleLocation) error
	GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error)
	// GetLatestBatch returns the latest sample per vehicle. Vehicles with no
	// samples are absent from the result, not an error.
	GetLatestBatch(ctx context.Context, vehicleIDs []string) ([]domain.VehicleLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) (*domain.HistoryPage, error)
	// GetRecent returns up to limit samples for a vehicle since the given
	// time, newest first.
	GetRecent(ctx context.Context, vehicleID string, since time.Time, limit int) ([]domain.VehicleLocation, error)
	GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type GeofenceRepository interface {
	GetActiveByVehicle(ctx context.Context, vehicleID string) ([]domain.Geofence, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type AlertRepository interface {
	Insert(ctx context.Context, alert *domain.Alert) error
	Resolve(ctx context.Context, id string) error
	GetRecent(ctx context.Context, limit int) ([]domain.Alert, error)
}

type ViolationRepository interface {
	Insert(ctx context.Context, v *domain.SpeedViolation) error
	CountBySeverity(ctx context.Context, filter *domain.ViolationFilter) (map[domain.Severity]int, error)
	TopVehicles(ctx context.Context, filter *domain.ViolationFilter, n int) ([]domain.VehicleViolationCount, error)
	GetRecent(ctx context.Context, filter *domain.ViolationFilter, limit int) ([]domain.SpeedViolation, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type RouteRepository interface {
	GetActiveRoute(ctx context.Context, vehicleID string) (*domain.Route, error)
	GetStops(ctx context.Context, routeID int64) ([]domain.Stop, error)
	GetStop(ctx context.Context, stopID int64) (*domain.Stop, error)
	// GetStopArrivals returns historical actual arrivals at a stop from
	// completed trips, newest first.
	GetStopArrivals(ctx context.Context, stopID int64, limit int) ([]domain.StopArrival, error)
}
