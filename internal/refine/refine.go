// Package refine turns rough notes into formatted text for a given mode.
package refine

import (
	"context"
	"errors"
	"fmt"

	"noterefiner/internal/model"
)

var ErrEmptyOutput = errors.New("refiner returned no text")

// Refiner performs the refinement call.
type Refiner interface {
	Refine(ctx context.Context, note string, mode model.Mode) (string, error)
}

// RemoteError is a failure reported by the refinement endpoint itself,
// either as a non-2xx status or as an explicit error field.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("refine endpoint returned status %d", e.Status)
	}
	return fmt.Sprintf("refine endpoint returned status %d: %s", e.Status, e.Message)
}

// Func adapts a plain function to Refiner.
type Func func(ctx context.Context, note string, mode model.Mode) (string, error)

func (f Func) Refine(ctx context.Context, note string, mode model.Mode) (string, error) {
	return f(ctx, note, mode)
}
