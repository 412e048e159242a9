package csg

import (
	"context"
	"errors"
)

// ErrCancelled is returned by long running operations when the context is
// done or the progress callback requested a stop.
var ErrCancelled = errors.New("csg: operation cancelled")

// ProgressFunc receives a completion percentage in [0, 100] and a short
// stage label. Returning false requests cancellation.
type ProgressFunc func(percent float64, stage string) bool

// Checkpoint reports progress and returns ErrCancelled if the caller wants
// the operation stopped. A nil progress function only checks ctx.
func Checkpoint(ctx context.Context, progress ProgressFunc, percent float64, stage string) error {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ErrCancelled
		default:
		}
	}
	if progress != nil && !progress(percent, stage) {
		return ErrCancelled
	}
	return nil
}
