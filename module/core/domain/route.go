package domain

import "time"

// Route and Stop are externally owned configuration; the core reads them for
// ETA computation and never mutates them.
type Route struct {
	ID        int64  `json:"id"`
	VehicleID string `json:"vehicle_id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}

// Stop is one scheduled stop on a route. ScheduledTime is a wall-clock
// time-of-day in "15:04" format.
type Stop struct {
	ID            int64   `json:"id"`
	RouteID       int64   `json:"route_id"`
	Name          string  `json:"name"`
	Lat           float64 `json:"latitude"`
	Lon           float64 `json:"longitude"`
	Sequence      int     `json:"sequence"`
	ScheduledTime string  `json:"scheduled_time"`
}

// StopArrival is a historical actual arrival at a stop on a completed trip.
type StopArrival struct {
	StopID      int64     `json:"stop_id"`
	TripID      string    `json:"trip_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	ArrivedAt   time.Time `json:"arrived_at"`
}
