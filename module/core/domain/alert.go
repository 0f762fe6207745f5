package domain

import "time"

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

type AlertType string

const (
	AlertGeofenceViolation AlertType = "GEOFENCE_VIOLATION"
	AlertSpeedViolation    AlertType = "SPEED_VIOLATION"
)

// Alert is the record handed to the notification collaborator when a
// geofence or speed violation is detected. Resolution happens out-of-band
// by an operator action; the core only creates alerts with Resolved=false.
type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	VehicleID   string    `json:"vehicle_id"`
	Lat         float64   `json:"latitude"`
	Lon         float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
	Resolved    bool      `json:"resolved"`
}
