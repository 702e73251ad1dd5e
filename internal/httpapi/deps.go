package httpapi

import (
	"context"
	"sync/atomic"
	"time"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/policy"
	"jobscout-engine/internal/store"
)

// RunTrigger starts a pipeline run. Run returns pipeline.ErrAlreadyRunning
// when a run is in flight.
type RunTrigger interface {
	Run(ctx context.Context) error
	Running() bool
}

type Deps struct {
	DB     *store.DB
	Hub    *events.Hub
	Runner RunTrigger
	Policy *policy.Store
	Loc    *time.Location

	// Started is the process start time reported by /healthz.
	Started time.Time

	// Atomic stores
	CfgVal    *atomic.Value // stores config.Config
	RunStatus *atomic.Value // stores httpapi.RunStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
