package models

import (
	"encoding/json"
	"time"
)

// PassengerRequest asks the coordination service for a nearby passenger
type PassengerRequest struct {
	DriverID    DriverID  `json:"driverId"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lng"`
	RequestedAt time.Time `json:"requestedAt"`
}

// PassengerRequestResult is the coordinate pair returned by a match.
// Raw holds the response body exactly as received.
type PassengerRequestResult struct {
	Latitude  float64                `json:"lat"`
	Longitude float64                `json:"lng"`
	Metadata  map[string]interface{} `json:"-"`
	Raw       json.RawMessage        `json:"-"`
}

// Position returns the passenger coordinates as a GeoPosition
func (r *PassengerRequestResult) Position() GeoPosition {
	return GeoPosition{Latitude: r.Latitude, Longitude: r.Longitude, Timestamp: Now()}
}
