package domain

import "time"

type Location struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// VehicleLocation is one GPS fix for a vehicle. Samples are append-only; the
// sequence of samples ordered by timestamp is the vehicle's location history.
type VehicleLocation struct {
	VehicleID  string   `json:"vehicle_id"`
	Location   Location `json:"location"`
	SpeedKmh   *float64 `json:"speed_kmh,omitempty"`
	HeadingDeg *float64 `json:"heading_deg,omitempty"`
	AccuracyM  *float64 `json:"accuracy_m,omitempty"`
	AltitudeM  *float64 `json:"altitude_m,omitempty"`
	TripID     string   `json:"trip_id,omitempty"`
}

type Vehicle struct {
	VehicleID string `json:"vehicle_id"`
}

// HistoryQuery filters location history. VehicleID and TripID are optional;
// zero Start/End mean an unbounded range.
type HistoryQuery struct {
	VehicleID string
	TripID    string
	Start     time.Time
	End       time.Time
	Page      int
	PageSize  int
}

// HistoryPage is one page of location history, newest first. Total carries
// the unpaged match count so callers can compute page counts.
type HistoryPage struct {
	Locations []VehicleLocation `json:"locations"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}
