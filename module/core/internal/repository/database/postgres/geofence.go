package postgres

import (
	"context"
	"database/sql"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
)

var _ database.GeofenceRepository = (*GeofenceRepo)(nil)

type GeofenceRepo struct {
	db *sql.DB
}

func NewGeofenceRepo(db *sql.DB) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

func (r *GeofenceRepo) GetActiveByVehicle(ctx context.Context, vehicleID string) ([]domain.Geofence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, name, latitude, longitude, radius_m, alert_on_enter, alert_on_exit, active
		 FROM geofences WHERE vehicle_id = $1 AND active ORDER BY id`,
		vehicleID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Geofence
	for rows.Next() {
		var f domain.Geofence
		if err := rows.Scan(&f.ID, &f.VehicleID, &f.Name, &f.Lat, &f.Lon, &f.RadiusM,
			&f.AlertOnEnter, &f.AlertOnExit, &f.Active); err != nil {
			return nil, err
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

func (r *GeofenceRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE geofences SET active = $2 WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: "geofence", ID: formatID(id)}
	}
	return nil
}
