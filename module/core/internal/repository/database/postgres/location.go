package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `vehicle_id, latitude, longitude, speed_kmh, heading_deg, accuracy_m, altitude_m, trip_id, timestamp`

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, loc *domain.VehicleLocation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_locations (`+locationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		loc.VehicleID, loc.Location.Lat, loc.Location.Lon,
		loc.SpeedKmh, loc.HeadingDeg, loc.AccuracyM, loc.AltitudeM,
		nullString(loc.TripID), loc.Location.Timestamp,
	)
	return err
}

func (r *LocationRepo) GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM vehicle_locations WHERE vehicle_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		vehicleID,
	)

	vl, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "location for vehicle", ID: vehicleID}
	}
	return vl, err
}

func (r *LocationRepo) GetLatestBatch(ctx context.Context, vehicleIDs []string) ([]domain.VehicleLocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT ON (vehicle_id) `+locationColumns+` FROM vehicle_locations WHERE vehicle_id = ANY($1) ORDER BY vehicle_id, timestamp DESC`,
		pq.Array(vehicleIDs),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectLocations(rows)
}

func (r *LocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) (*domain.HistoryPage, error) {
	where, args := historyFilter(query)

	var total int
	countSQL := `SELECT COUNT(*) FROM vehicle_locations` + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	pageSQL := fmt.Sprintf(
		`SELECT `+locationColumns+` FROM vehicle_locations%s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, query.PageSize, (query.Page-1)*query.PageSize)

	rows, err := r.db.QueryContext(ctx, pageSQL, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	locations, err := collectLocations(rows)
	if err != nil {
		return nil, err
	}

	return &domain.HistoryPage{
		Locations: locations,
		Total:     total,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}, nil
}

func (r *LocationRepo) GetRecent(ctx context.Context, vehicleID string, since time.Time, limit int) ([]domain.VehicleLocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM vehicle_locations WHERE vehicle_id = $1 AND timestamp >= $2 ORDER BY timestamp DESC LIMIT $3`,
		vehicleID, since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectLocations(rows)
}

func (r *LocationRepo) GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT vehicle_id FROM vehicle_locations ORDER BY vehicle_id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.VehicleID); err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

func (r *LocationRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicle_locations WHERE timestamp < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func historyFilter(query *domain.HistoryQuery) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if query.VehicleID != "" {
		add("vehicle_id = $%d", query.VehicleID)
	}
	if query.TripID != "" {
		add("trip_id = $%d", query.TripID)
	}
	if !query.Start.IsZero() {
		add("timestamp >= $%d", query.Start)
	}
	if !query.End.IsZero() {
		add("timestamp <= $%d", query.End)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*domain.VehicleLocation, error) {
	var vl domain.VehicleLocation
	var speed, heading, accuracy, altitude sql.NullFloat64
	var tripID sql.NullString

	err := row.Scan(&vl.VehicleID, &vl.Location.Lat, &vl.Location.Lon,
		&speed, &heading, &accuracy, &altitude, &tripID, &vl.Location.Timestamp)
	if err != nil {
		return nil, err
	}

	if speed.Valid {
		vl.SpeedKmh = &speed.Float64
	}
	if heading.Valid {
		vl.HeadingDeg = &heading.Float64
	}
	if accuracy.Valid {
		vl.AccuracyM = &accuracy.Float64
	}
	if altitude.Valid {
		vl.AltitudeM = &altitude.Float64
	}
	vl.TripID = tripID.String
	return &vl, nil
}

func collectLocations(rows *sql.Rows) ([]domain.VehicleLocation, error) {
	var results []domain.VehicleLocation
	for rows.Next() {
		vl, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *vl)
	}
	return results, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
