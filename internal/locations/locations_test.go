package locations

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slot_bot/internal/model"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []model.LocationRecord
		wantErr bool
	}{
		{
			name: "valid entries",
			content: `[
				{"address": "Raleigh Central DMV", "coordinates": [35.7796, -78.6382]},
				{"address": "Durham DMV Office", "coordinates": [35.9940, -78.8986]}
			]`,
			want: []model.LocationRecord{
				{Address: "Raleigh Central DMV", Coordinates: model.Coordinates{Lat: 35.7796, Lon: -78.6382}},
				{Address: "Durham DMV Office", Coordinates: model.Coordinates{Lat: 35.9940, Lon: -78.8986}},
			},
		},
		{
			name: "malformed entries skipped",
			content: `[
				{"address": "", "coordinates": [35.0, -78.0]},
				{"address": "One Coordinate", "coordinates": [35.0]},
				{"address": "Raleigh Central DMV", "coordinates": [35.7796, -78.6382]}
			]`,
			want: []model.LocationRecord{
				{Address: "Raleigh Central DMV", Coordinates: model.Coordinates{Lat: 35.7796, Lon: -78.6382}},
			},
		},
		{
			name:    "empty array",
			content: `[]`,
			want:    []model.LocationRecord{},
		},
		{
			name:    "not json",
			content: `address,lat,lon`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeFile(t, tt.content), discard())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json"), discard()); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
