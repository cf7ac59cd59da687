// Package locations loads the static office reference data.
package locations

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"slot_bot/internal/model"
)

// record mirrors the on-disk JSON shape: coordinates as a [lat, lon] pair.
type record struct {
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates"`
}

// Load reads the reference file and returns the well-formed entries.
// Malformed entries are skipped with a warning. An unreadable or
// unparsable file returns an error the caller treats as a soft condition
// (geo filtering disabled), never a startup failure.
func Load(path string, log *slog.Logger) ([]model.LocationRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}

	var raw []record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse locations file: %w", err)
	}

	recs := make([]model.LocationRecord, 0, len(raw))
	for i, r := range raw {
		if r.Address == "" || len(r.Coordinates) != 2 {
			log.Warn("skipping malformed location entry", "index", i, "address", r.Address)
			continue
		}
		recs = append(recs, model.LocationRecord{
			Address:     r.Address,
			Coordinates: model.Coordinates{Lat: r.Coordinates[0], Lon: r.Coordinates[1]},
		})
	}
	return recs, nil
}
