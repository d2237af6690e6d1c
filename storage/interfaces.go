package storage

import (
	"context"

	"github.com/catalook/catalook/core"
)

// Fetch stage names reported through FetchMonitor, in order of occurrence.
const (
	StageConnect  = "connect"
	StageFetch    = "fetch"
	StageValidate = "validate"
)

// Source provides one complete catalog per fetch.
type Source interface {
	// Name identifies the source in logs and progress reporting.
	Name() string

	// Fetch reads the full catalog. It reports progress milestones through
	// the monitor and honors context cancellation between chunks of work.
	// On error the returned schema and records must be ignored.
	Fetch(ctx context.Context, monitor FetchMonitor) (core.Schema, []core.Record, error)
}

// FetchMonitor receives progress milestones during a fetch.
// Implementations must be cheap; they are called from the fetch path.
type FetchMonitor interface {
	Stage(stage string, percent int)
}

// NoopMonitor is a FetchMonitor that discards all milestones.
type NoopMonitor struct{}

var _ FetchMonitor = NoopMonitor{}

func (NoopMonitor) Stage(string, int) {}

// MonitorFunc adapts a function to the FetchMonitor interface.
type MonitorFunc func(stage string, percent int)

func (f MonitorFunc) Stage(stage string, percent int) { f(stage, percent) }
