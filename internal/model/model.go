// Package model defines the domain types used across the application.
package model

import "time"

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// LocationRecord is one entry of the static office reference set,
// loaded once at startup and immutable for the process lifetime.
type LocationRecord struct {
	Address     string
	Coordinates Coordinates
}

// RawBatch maps a location name to the raw comma-delimited time strings
// the scrape source reported for it. Rebuilt every poll, never persisted.
type RawBatch map[string]string

// AppointmentResult is the per-location outcome of one poll cycle.
// AvailableTimes is always sorted ascending.
type AppointmentResult struct {
	LocationName    string
	LocationAddress string
	AvailableTimes  []time.Time
	IsError         bool
	ErrorMessage    string
}

// HasAppointments reports whether the result qualifies for notification.
func (r AppointmentResult) HasAppointments() bool {
	return !r.IsError && len(r.AvailableTimes) > 0
}
