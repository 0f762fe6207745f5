package domain

// Geofence is a named circular zone owned by one vehicle. The enter/exit
// flags are independent; each active fence is evaluated on every sample.
type Geofence struct {
	ID           int64   `json:"id"`
	VehicleID    string  `json:"vehicle_id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"latitude"`
	Lon          float64 `json:"longitude"`
	RadiusM      float64 `json:"radius_m"`
	AlertOnEnter bool    `json:"alert_on_enter"`
	AlertOnExit  bool    `json:"alert_on_exit"`
	Active       bool    `json:"active"`
}

type GeofenceAction string

const (
	GeofenceEnter GeofenceAction = "ENTER"
	GeofenceExit  GeofenceAction = "EXIT"
)
