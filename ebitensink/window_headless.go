//go:build headless

package ebitensink

import (
	"context"

	"github.com/ryanlewis/retrocon"
)

// Window is unavailable in headless builds.
type Window struct{}

// New always fails with ErrUnsupported.
func New(con *retrocon.Console, opts Options) (*Window, error) {
	return nil, ErrUnsupported
}

// Run always fails with ErrUnsupported.
func (w *Window) Run(ctx context.Context, program func(ctx context.Context) error) error {
	return ErrUnsupported
}
