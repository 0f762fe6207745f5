package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
)

var _ database.ViolationRepository = (*ViolationRepo)(nil)

type ViolationRepo struct {
	db *sql.DB
}

func NewViolationRepo(db *sql.DB) *ViolationRepo {
	return &ViolationRepo{db: db}
}

func (r *ViolationRepo) Insert(ctx context.Context, v *domain.SpeedViolation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO speed_violations (id, vehicle_id, driver_id, speed_kmh, limit_kmh, latitude, longitude, timestamp, severity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.VehicleID, nullString(v.DriverID), v.SpeedKmh, v.LimitKmh, v.Lat, v.Lon, v.Timestamp, string(v.Severity),
	)
	return err
}

func (r *ViolationRepo) CountBySeverity(ctx context.Context, filter *domain.ViolationFilter) (map[domain.Severity]int, error) {
	where, args := violationFilter(filter)
	rows, err := r.db.QueryContext(ctx,
		`SELECT severity, COUNT(*) FROM speed_violations`+where+` GROUP BY severity`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := map[domain.Severity]int{}
	for rows.Next() {
		var severity string
		var n int
		if err := rows.Scan(&severity, &n); err != nil {
			return nil, err
		}
		counts[domain.Severity(severity)] = n
	}
	return counts, rows.Err()
}

func (r *ViolationRepo) TopVehicles(ctx context.Context, filter *domain.ViolationFilter, n int) ([]domain.VehicleViolationCount, error) {
	where, args := violationFilter(filter)
	query := fmt.Sprintf(
		`SELECT vehicle_id, COUNT(*) AS violations FROM speed_violations%s GROUP BY vehicle_id ORDER BY violations DESC LIMIT $%d`,
		where, len(args)+1,
	)
	args = append(args, n)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.VehicleViolationCount
	for rows.Next() {
		var c domain.VehicleViolationCount
		if err := rows.Scan(&c.VehicleID, &c.Count); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *ViolationRepo) GetRecent(ctx context.Context, filter *domain.ViolationFilter, limit int) ([]domain.SpeedViolation, error) {
	where, args := violationFilter(filter)
	query := fmt.Sprintf(
		`SELECT id, vehicle_id, driver_id, speed_kmh, limit_kmh, latitude, longitude, timestamp, severity
		 FROM speed_violations%s ORDER BY timestamp DESC LIMIT $%d`,
		where, len(args)+1,
	)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.SpeedViolation
	for rows.Next() {
		var v domain.SpeedViolation
		var driverID sql.NullString
		var severity string
		if err := rows.Scan(&v.ID, &v.VehicleID, &driverID, &v.SpeedKmh, &v.LimitKmh,
			&v.Lat, &v.Lon, &v.Timestamp, &severity); err != nil {
			return nil, err
		}
		v.DriverID = driverID.String
		v.Severity = domain.Severity(severity)
		results = append(results, v)
	}
	return results, rows.Err()
}

func (r *ViolationRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM speed_violations WHERE timestamp < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func violationFilter(filter *domain.ViolationFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter != nil {
		if len(filter.VehicleIDs) > 0 {
			add("vehicle_id = ANY($%d)", pq.Array(filter.VehicleIDs))
		}
		if !filter.Start.IsZero() {
			add("timestamp >= $%d", filter.Start)
		}
		if !filter.End.IsZero() {
			add("timestamp <= $%d", filter.End)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
