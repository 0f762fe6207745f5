package postgres

import (
	"context"
	"database/sql"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/internal/repository/database"
)

var _ database.AlertRepository = (*AlertRepo)(nil)

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Insert(ctx context.Context, alert *domain.Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, type, severity, description, vehicle_id, latitude, longitude, created_at, resolved)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		alert.ID, string(alert.Type), string(alert.Severity), alert.Description,
		alert.VehicleID, alert.Lat, alert.Lon, alert.CreatedAt, alert.Resolved,
	)
	return err
}

// Resolve marks an alert handled. Called from the operator surface, never by
// the tracking core on its own behalf.
func (r *AlertRepo) Resolve(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET resolved = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: "alert", ID: id}
	}
	return nil
}

func (r *AlertRepo) GetRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, severity, description, vehicle_id, latitude, longitude, created_at, resolved
		 FROM alerts ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var typ, severity string
		if err := rows.Scan(&a.ID, &typ, &severity, &a.Description, &a.VehicleID,
			&a.Lat, &a.Lon, &a.CreatedAt, &a.Resolved); err != nil {
			return nil, err
		}
		a.Type = domain.AlertType(typ)
		a.Severity = domain.Severity(severity)
		results = append(results, a)
	}
	return results, rows.Err()
}
