package v1

import (
	"errors"
	"time"

	"github.com/vmunix/voseflix/internal/events"
	"github.com/vmunix/voseflix/internal/scrape"
	"github.com/vmunix/voseflix/internal/server"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Runner is the live movie state the API serves.
type Runner interface {
	Snapshot() server.Snapshot
	Refresh(bypass bool, trigger string) string
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required
	Runner Runner

	// Optional
	Bus      *events.Bus      // live event stream
	EventLog *events.EventLog // event history
	Site     scrape.Site      // booking URLs and date labels; zero value uses the default site
	Now      func() time.Time // defaults to time.Now
	Version  string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Runner == nil {
		return errors.New("runner is required")
	}
	return nil
}
