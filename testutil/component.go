package testutil

import (
	"context"

	"github.com/kbukum/createsend/observability"
)

// TestComponent is a test fixture with a start/stop lifecycle that can be
// reset between test cases.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) observability.Health

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state of the component.
	// The returned data can be passed to Restore to return to this state.
	Snapshot(ctx context.Context) (any, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot any) error
}
