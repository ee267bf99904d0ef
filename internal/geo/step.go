package geo

import "math"

// Spherical earth approximation. Good enough at the scale of one golf hole.
const (
	EarthRadiusMeters = 6371000.0

	// MetersPerDegreeLat is 2*pi*R/360, constant everywhere on the sphere.
	MetersPerDegreeLat = 2 * math.Pi * EarthRadiusMeters / 360

	// DefaultStepMeters is the distance moved by one shift key press.
	DefaultStepMeters = 0.1
)

// MetersToDegreesLat converts a north/south distance to degrees of latitude.
func MetersToDegreesLat(meters float64) float64 {
	return meters / MetersPerDegreeLat
}

// MetersToDegreesLng converts an east/west distance to degrees of longitude
// at the given latitude. Meridians converge towards the poles so the result
// grows with |latitude|.
func MetersToDegreesLng(meters, latitude float64) float64 {
	return meters / (MetersPerDegreeLat * math.Cos(latitude*math.Pi/180))
}

// DegreesLatToMeters is the inverse of MetersToDegreesLat.
func DegreesLatToMeters(degrees float64) float64 {
	return degrees * MetersPerDegreeLat
}

// DegreesLngToMeters is the inverse of MetersToDegreesLng.
func DegreesLngToMeters(degrees, latitude float64) float64 {
	return degrees * MetersPerDegreeLat * math.Cos(latitude*math.Pi/180)
}

// MetersToLatLngDelta converts a displacement in meters (north, east) into
// degree deltas at the reference latitude.
func MetersToLatLngDelta(metersNorth, metersEast, refLat float64) (dLat, dLng float64) {
	return MetersToDegreesLat(metersNorth), MetersToDegreesLng(metersEast, refLat)
}

// LatStep returns the latitude delta of one step.
func LatStep(stepMeters float64) float64 {
	return MetersToDegreesLat(stepMeters)
}

// LngStep returns the longitude delta of one step at refLat.
func LngStep(stepMeters, refLat float64) float64 {
	return MetersToDegreesLng(stepMeters, refLat)
}
