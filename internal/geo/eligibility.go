// Package geo implements geographic eligibility filtering: geocoding the
// user's address once and precomputing which office locations fall within
// the configured radius.
package geo

import (
	"context"
	"log/slog"
	"math"

	"slot_bot/internal/model"
)

const earthRadiusMiles = 3959

// Distance returns the great-circle distance between two points in miles,
// computed with the haversine formula.
func Distance(a, b model.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Query is the user's geographic filter: a free-text address and a radius.
type Query struct {
	Address     string
	RadiusMiles float64
}

// Eligibility is the precomputed set of locations eligible for
// notification. The disabled state is explicit so callers cannot mistake
// "filtering off" for "no locations in range". Computed once at startup
// and read-only afterwards, safe for concurrent reads.
type Eligibility struct {
	disabled bool
	allowed  map[string]struct{}
}

// Disabled returns an Eligibility that allows every location.
func Disabled() *Eligibility {
	return &Eligibility{disabled: true}
}

// Enabled reports whether radius filtering is active.
func (e *Eligibility) Enabled() bool {
	return !e.disabled
}

// IsAllowed reports whether a location may be notified about.
func (e *Eligibility) IsAllowed(id string) bool {
	if e.disabled {
		return true
	}
	_, ok := e.allowed[id]
	return ok
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Coordinates, error)
}

// Build computes the eligibility set for the given reference locations and
// query. Filtering is disabled when the query is absent, the radius is
// non-positive, the reference set is empty, or geocoding fails: losing the
// geo feature must not block appointment notification ("fail open").
func Build(ctx context.Context, gc Geocoder, locs []model.LocationRecord, query *Query, log *slog.Logger) *Eligibility {
	if query == nil || query.RadiusMiles <= 0 || len(locs) == 0 {
		log.Debug("geo filtering disabled", "locations", len(locs))
		return Disabled()
	}

	origin, err := gc.Geocode(ctx, query.Address)
	if err != nil {
		log.Warn("geocode user address failed, geo filtering disabled",
			"address", query.Address, "error", err)
		return Disabled()
	}

	allowed := make(map[string]struct{})
	for _, loc := range locs {
		if !validCoordinates(loc.Coordinates) {
			log.Warn("skipping location with malformed coordinates",
				"location", loc.Address, "lat", loc.Coordinates.Lat, "lon", loc.Coordinates.Lon)
			continue
		}
		if Distance(origin, loc.Coordinates) <= query.RadiusMiles {
			allowed[loc.Address] = struct{}{}
		}
	}

	log.Info("geo filtering enabled",
		"eligible", len(allowed), "locations", len(locs), "radius_miles", query.RadiusMiles)
	return &Eligibility{allowed: allowed}
}

func validCoordinates(c model.Coordinates) bool {
	if c.Lat == 0 && c.Lon == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
