// Package catalog holds the fixed set of Peruvian locations the dashboard
// tracks. The catalog is immutable for the process lifetime.
package catalog

import (
	"errors"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
)

// ErrUnknownLocation is returned when a key does not match any catalog entry.
var ErrUnknownLocation = errors.New("unknown location")

var locations = []models.Location{
	{Key: "cajamarca", Name: "Cajamarca", Province: "Cajamarca", Latitude: -7.16, Longitude: -78.52},
	{Key: "abancay", Name: "Abancay", Province: "Apurimac", Latitude: -13.63, Longitude: -72.88},
	{Key: "puerto-maldonado", Name: "Puerto Maldonado", Province: "Madre de Dios", Latitude: -12.60, Longitude: -69.18},
	{Key: "trujillo", Name: "Trujillo", Province: "La Libertad", Latitude: -8.12, Longitude: -79.03},
	{Key: "arequipa", Name: "Arequipa", Province: "Arequipa", Latitude: -16.40, Longitude: -71.54},
	{Key: "huaraz", Name: "Huaraz", Province: "Ancash", Latitude: -9.53, Longitude: -77.53},
	{Key: "ica", Name: "Ica", Province: "Ica", Latitude: -14.07, Longitude: -75.73},
}

// All returns every catalog entry in display order.
func All() []models.Location {
	out := make([]models.Location, len(locations))
	copy(out, locations)
	return out
}

// ByKey looks up a location by its stable key.
func ByKey(key string) (models.Location, error) {
	for _, loc := range locations {
		if loc.Key == key {
			return loc, nil
		}
	}
	return models.Location{}, ErrUnknownLocation
}
