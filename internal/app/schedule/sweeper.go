// Package schedule runs periodic in-process jobs against the command bus.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"seaberth/internal/app/commands"
	bookinghandlers "seaberth/internal/app/handlers/booking"
)

// Sweeper dispatches the completion sweep on a fixed interval so bookings
// whose rental period has ended are promoted without waiting for an admin.
type Sweeper struct {
	Bus      commands.Bus
	Interval time.Duration
	Logger   *slog.Logger
}

func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	res, err := commands.Dispatch[bookinghandlers.SweepCompletedCommand, *bookinghandlers.SweepCompletedResult](
		ctx, s.Bus, bookinghandlers.SweepCompletedCommand{Now: time.Now().UTC()})
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("completion sweep failed", "error", err)
		}
		return
	}
	if s.Logger != nil && res != nil && res.Updated > 0 {
		s.Logger.Info("completion sweep finished", "updated", res.Updated)
	}
}
