// Package scheduler drives the repeated scrape, assemble, notify cycle.
package scheduler

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"slot_bot/internal/checker"
	"slot_bot/internal/config"
	"slot_bot/internal/model"
	"slot_bot/internal/notify"
	"slot_bot/internal/source"
)

// ProofOfLifeMessage is sent when proof of life is enabled and no
// qualifying appointments were found, so the operator knows the watcher
// is still running.
const ProofOfLifeMessage = "No appointments available."

// Sender delivers a finished notification message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Scheduler runs poll cycles on a jittered interval. Cycles are strictly
// sequential; the only suspension points are the network calls inside a
// cycle and the inter-cycle sleep.
type Scheduler struct {
	source  source.Source
	checker *checker.Checker
	sender  Sender
	log     *slog.Logger

	appointmentType string
	interval        time.Duration
	jitterMin       time.Duration
	jitterMax       time.Duration
	proofOfLife     bool
	intro           string
}

// New creates a Scheduler from the loaded configuration.
func New(src source.Source, chk *checker.Checker, sender Sender, cfg *config.Config, log *slog.Logger) *Scheduler {
	return &Scheduler{
		source:          src,
		checker:         chk,
		sender:          sender,
		log:             log,
		appointmentType: cfg.AppointmentType,
		interval:        cfg.PollInterval,
		jitterMin:       cfg.JitterMin,
		jitterMax:       cfg.JitterMax,
		proofOfLife:     cfg.ProofOfLife,
		intro:           cfg.IntroMessage,
	}
}

// SetInterval overrides the poll interval and jitter bounds (useful for
// testing).
func (s *Scheduler) SetInterval(interval, jitterMin, jitterMax time.Duration) {
	s.interval = interval
	s.jitterMin = jitterMin
	s.jitterMax = jitterMax
}

// Run executes poll cycles until ctx is cancelled. No cycle error is
// allowed to end the loop; a failed cycle logs and sleeps like any other.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.runCycle(ctx)
		if !s.sleep(ctx) {
			return
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	s.log.Debug("cycle start", "type", s.appointmentType)

	batch, err := s.source.Fetch(ctx, s.appointmentType)
	if err != nil {
		// Total source failure: skip notification, straight to sleep.
		s.log.Error("fetch appointment batch", "type", s.appointmentType, "error", err)
		return
	}

	results := s.checker.Assemble(batch)
	for _, r := range results {
		if r.IsError {
			s.log.Warn("location errored", "location", r.LocationName, "error", r.ErrorMessage)
		}
	}

	text := notify.Format(results)
	switch {
	case text != "":
		if s.intro != "" {
			text = s.intro + "\n" + text
		}
		if err := s.sender.Send(ctx, text); err != nil {
			s.log.Error("send notification", "error", err)
			return
		}
		s.log.Info("notification sent", "locations", qualifying(results))
	case s.proofOfLife:
		if err := s.sender.Send(ctx, ProofOfLifeMessage); err != nil {
			s.log.Error("send proof of life", "error", err)
			return
		}
		s.log.Info("proof of life sent")
	default:
		s.log.Debug("no qualifying appointments")
	}
}

// sleep waits the base interval plus fresh uniform jitter, returning
// false when the context is cancelled first.
func (s *Scheduler) sleep(ctx context.Context) bool {
	d := s.interval + s.jitter()
	s.log.Debug("sleeping", "duration", d)

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// jitter draws a fresh uniform duration in [jitterMin, jitterMax] so the
// poll pattern never looks like a fixed clock.
func (s *Scheduler) jitter() time.Duration {
	span := s.jitterMax - s.jitterMin
	if span <= 0 {
		return s.jitterMin
	}
	return s.jitterMin + time.Duration(rand.Int63n(int64(span)))
}

func qualifying(results map[string]model.AppointmentResult) int {
	n := 0
	for _, r := range results {
		if r.HasAppointments() {
			n++
		}
	}
	return n
}
