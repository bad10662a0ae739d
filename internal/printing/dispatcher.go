package printing

import (
	"context"
	"time"

	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
	"github.com/raidhaan/pos-backend/pkg/logger"
	"go.uber.org/multierr"
)

// Document is a rendered receipt ready for dispatch. AutoPrint carries the
// variant that opens the print dialog on load, used by the browser channel;
// the other channels submit Markup directly.
type Document struct {
	Markup    string
	AutoPrint string
}

// Channel is one delivery mechanism for a receipt document. Channels report
// unavailability and print failures as ordinary errors; they never panic.
type Channel interface {
	Name() string
	Available(ctx context.Context) bool
	Print(ctx context.Context, doc Document) error
}

// Dispatcher tries channels in priority order, stopping at the first
// success. Channel failures are logged and swallowed; only total exhaustion
// is surfaced, and then as a false result rather than a raised error.
type Dispatcher struct {
	channels []Channel
	log      *logger.Logger
}

// NewDispatcher builds a dispatcher over the given channels, tried in order.
func NewDispatcher(log *logger.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, log: log}
}

// Print attempts delivery through each channel in turn. It returns true as
// soon as one channel succeeds. When every channel is unavailable or fails,
// it returns false along with the combined per-channel errors.
func (d *Dispatcher) Print(ctx context.Context, doc Document) (bool, error) {
	var errs error
	for _, ch := range d.channels {
		chCtx := d.log.WithPrintChannel(ctx, ch.Name())

		if !ch.Available(chCtx) {
			d.log.Debug(chCtx, "print channel unavailable, falling through")
			errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodePrintUnavailable, ch.Name()+" channel unavailable"))
			continue
		}

		if err := ch.Print(chCtx, doc); err != nil {
			d.log.Error(chCtx, "print channel failed, falling through", err)
			errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, ch.Name()+" channel failed"))
			continue
		}

		d.log.Info(chCtx, "receipt dispatched")
		return true, nil
	}

	d.log.Warn(ctx, "all print channels exhausted, receipt not printed")
	return false, errs
}

// settle waits out the fixed rendering delay, honoring cancellation.
func settle(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
