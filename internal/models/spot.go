package models

// Spot is the read-only descriptor of a parking spot, supplied by the spots
// service. The booking engine never mutates spot records directly.
type Spot struct {
	ID         string  `json:"id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	HourlyRate Amount  `json:"hourly_rate"`
	AccessPIN  string  `json:"access_pin,omitempty"`
}
