package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
)

var _ database.RouteRepository = (*RouteRepo)(nil)

type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo {
	return &RouteRepo{db: db}
}

func (r *RouteRepo) GetActiveRoute(ctx context.Context, vehicleID string) (*domain.Route, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, vehicle_id, name, active FROM routes WHERE vehicle_id = $1 AND active LIMIT 1`,
		vehicleID,
	)

	var route domain.Route
	err := row.Scan(&route.ID, &route.VehicleID, &route.Name, &route.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "active route for vehicle", ID: vehicleID}
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepo) GetStops(ctx context.Context, routeID int64) ([]domain.Stop, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, route_id, name, latitude, longitude, sequence, scheduled_time
		 FROM stops WHERE route_id = $1 ORDER BY sequence`,
		routeID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Stop
	for rows.Next() {
		var s domain.Stop
		if err := rows.Scan(&s.ID, &s.RouteID, &s.Name, &s.Lat, &s.Lon, &s.Sequence, &s.ScheduledTime); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func (r *RouteRepo) GetStop(ctx context.Context, stopID int64) (*domain.Stop, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, route_id, name, latitude, longitude, sequence, scheduled_time FROM stops WHERE id = $1`,
		stopID,
	)

	var s domain.Stop
	err := row.Scan(&s.ID, &s.RouteID, &s.Name, &s.Lat, &s.Lon, &s.Sequence, &s.ScheduledTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "stop", ID: formatID(stopID)}
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RouteRepo) GetStopArrivals(ctx context.Context, stopID int64, limit int) ([]domain.StopArrival, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stop_id, trip_id, scheduled_at, arrived_at
		 FROM stop_arrivals WHERE stop_id = $1 ORDER BY arrived_at DESC LIMIT $2`,
		stopID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.StopArrival
	for rows.Next() {
		var a domain.StopArrival
		if err := rows.Scan(&a.StopID, &a.TripID, &a.ScheduledAt, &a.ArrivedAt); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
