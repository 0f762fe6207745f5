package domain

import "time"

// SpeedViolation is recorded when an observed speed exceeds the configured
// limit. Create-only; old rows are removed by the retention sweep.
type SpeedViolation struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	DriverID  string    `json:"driver_id,omitempty"`
	SpeedKmh  float64   `json:"speed_kmh"`
	LimitKmh  float64   `json:"limit_kmh"`
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
}

// ViolationFilter scopes speed-violation aggregations. All fields are
// optional and combined with AND semantics.
type ViolationFilter struct {
	VehicleIDs []string
	Start      time.Time
	End        time.Time
}

type VehicleViolationCount struct {
	VehicleID string `json:"vehicle_id"`
	Count     int    `json:"count"`
}
