package utils

import (
	"math"
	"math/rand"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

const (
	earthRadiusKm   = 6371.0
	metersPerDegree = 111320.0
)

// EncodePosition converts a position to a geohash string
func EncodePosition(pos models.GeoPosition, precision uint) string {
	return geohash.EncodeWithPrecision(pos.Latitude, pos.Longitude, precision)
}

// DecodeGeohash returns the centre of a geohash cell
func DecodeGeohash(hash string) models.GeoPosition {
	lat, lng := geohash.DecodeCenter(hash)
	return models.GeoPosition{Latitude: lat, Longitude: lng, Timestamp: models.Now()}
}

// GetNeighbors returns the eight cells around a geohash
func GetNeighbors(hash string) []string {
	return geohash.Neighbors(hash)
}

// NearbyPosition picks a random point inside a random cell adjacent to
// pos at the given precision
func NearbyPosition(pos models.GeoPosition, precision uint, rng *rand.Rand) (models.GeoPosition, string) {
	neighbors := GetNeighbors(EncodePosition(pos, precision))
	cell := neighbors[rng.Intn(len(neighbors))]

	box := geohash.BoundingBox(cell)
	return models.GeoPosition{
		Latitude:  box.MinLat + rng.Float64()*(box.MaxLat-box.MinLat),
		Longitude: box.MinLng + rng.Float64()*(box.MaxLng-box.MinLng),
		Timestamp: models.Now(),
	}, cell
}

// CalculateDistance returns the great-circle distance in kilometers (Haversine)
func CalculateDistance(from, to models.GeoPosition) float64 {
	lat1 := from.Latitude * math.Pi / 180.0
	lon1 := from.Longitude * math.Pi / 180.0
	lat2 := to.Latitude * math.Pi / 180.0
	lon2 := to.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Offset moves pos by the given meters north and east. Good enough for
// the short steps of a simulation; latitude is clamped to the valid range.
func Offset(pos models.GeoPosition, northMeters, eastMeters float64) models.GeoPosition {
	lat := pos.Latitude + northMeters/metersPerDegree
	cosLat := math.Cos(pos.Latitude * math.Pi / 180.0)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lng := pos.Longitude + eastMeters/(metersPerDegree*cosLat)

	lat = math.Max(-90, math.Min(90, lat))
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	lng -= 180

	return models.GeoPosition{Latitude: lat, Longitude: lng, Timestamp: models.Now()}
}

// MoveTowards advances from by at most stepMeters toward to. It reports
// whether the destination was reached.
func MoveTowards(from, to models.GeoPosition, stepMeters float64) (models.GeoPosition, bool) {
	distance := CalculateDistance(from, to) * 1000
	if distance <= stepMeters {
		return models.GeoPosition{Latitude: to.Latitude, Longitude: to.Longitude, Timestamp: models.Now()}, true
	}

	ratio := stepMeters / distance
	return models.GeoPosition{
		Latitude:  from.Latitude + (to.Latitude-from.Latitude)*ratio,
		Longitude: from.Longitude + (to.Longitude-from.Longitude)*ratio,
		Timestamp: models.Now(),
	}, false
}

// RandomStep moves pos stepMeters in a random direction
func RandomStep(pos models.GeoPosition, stepMeters float64, rng *rand.Rand) models.GeoPosition {
	bearing := rng.Float64() * 2 * math.Pi
	return Offset(pos, stepMeters*math.Cos(bearing), stepMeters*math.Sin(bearing))
}
