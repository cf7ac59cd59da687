// Package checker turns a raw scraped batch into per-location appointment
// results, applying geographic, date, and time-of-day filtering.
package checker

import (
	"log/slog"
	"time"

	"slot_bot/internal/filter"
	"slot_bot/internal/geo"
	"slot_bot/internal/model"
	"slot_bot/internal/timeparse"
)

// sourceErrorKey names the synthetic result entry for a total source failure.
const sourceErrorKey = "appointment source"

// AddressResolver maps a scraped location name to a display address.
type AddressResolver interface {
	Resolve(name string) (string, error)
}

// NameResolver resolves a location's address as the name itself; the
// scrape source reports offices by their street address.
type NameResolver struct{}

// Resolve returns the name unchanged.
func (NameResolver) Resolve(name string) (string, error) {
	return name, nil
}

// Checker assembles appointment results for a scraped batch.
type Checker struct {
	resolver AddressResolver
	elig     *geo.Eligibility
	dateSpec filter.DateSpec
	timeSpec *filter.TimeWindow
	log      *slog.Logger
}

// New creates a Checker with the default name-as-address resolver.
func New(elig *geo.Eligibility, dateSpec filter.DateSpec, timeSpec *filter.TimeWindow, log *slog.Logger) *Checker {
	return &Checker{
		resolver: NameResolver{},
		elig:     elig,
		dateSpec: dateSpec,
		timeSpec: timeSpec,
		log:      log,
	}
}

// SetResolver overrides the address resolver (useful for testing).
func (c *Checker) SetResolver(r AddressResolver) {
	c.resolver = r
}

// Assemble builds one AppointmentResult per batch entry. A failure while
// processing one location is captured in that location's result; the rest
// of the batch continues. Locations outside the eligibility set are
// omitted entirely.
func (c *Checker) Assemble(batch model.RawBatch) map[string]model.AppointmentResult {
	results := make(map[string]model.AppointmentResult, len(batch))
	now := time.Now()

	for name, raw := range batch {
		addr, err := c.resolver.Resolve(name)
		if err != nil {
			c.log.Warn("resolve location address", "location", name, "error", err)
			results[name] = model.AppointmentResult{
				LocationName: name,
				IsError:      true,
				ErrorMessage: err.Error(),
			}
			continue
		}
		if !c.elig.IsAllowed(addr) {
			c.log.Debug("location outside radius, skipped", "location", name)
			continue
		}

		times := timeparse.Parse(raw)
		times = filter.Apply(times, c.dateSpec, c.timeSpec, now)

		results[name] = model.AppointmentResult{
			LocationName:    name,
			LocationAddress: addr,
			AvailableTimes:  times,
		}
	}
	return results
}

// ErrorBatch wraps a total source failure as a single synthetic result so
// downstream handling stays uniform with per-location errors.
func ErrorBatch(err error) map[string]model.AppointmentResult {
	return map[string]model.AppointmentResult{
		sourceErrorKey: {
			LocationName: sourceErrorKey,
			IsError:      true,
			ErrorMessage: err.Error(),
		},
	}
}
