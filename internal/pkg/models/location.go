package models

import (
	"errors"
	"time"
)

// ErrInvalidCoordinates is returned for latitude/longitude outside their ranges
var ErrInvalidCoordinates = errors.New("invalid location coordinates")

// GeoPosition is a single location sample captured by the driver
type GeoPosition struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// NewGeoPosition captures a sample stamped with the current UTC time
func NewGeoPosition(lat, lng float64) GeoPosition {
	return GeoPosition{Latitude: lat, Longitude: lng, Timestamp: Now()}
}

// Validate checks the coordinate ranges
func (p GeoPosition) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// LocationUpdate is the wire body of a location update
type LocationUpdate struct {
	DriverID  DriverID  `json:"driverId"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLocationUpdate builds the wire body for one sample
func NewLocationUpdate(driverID DriverID, pos GeoPosition) LocationUpdate {
	return LocationUpdate{
		DriverID:  driverID,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Timestamp: pos.Timestamp,
	}
}
