package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"go.uber.org/zap"

	"jobradar-engine/internal/aggregate"
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/feed"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.SugaredLogger

	Feed *feed.Service

	// Atomic stores
	CfgVal    *atomic.Value // stores config.Config
	AggStatus *atomic.Value // stores httpapi.AggregateStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Aggregation entrypoint (injected for testability)
	RunAggregation func(ctx context.Context, cfg config.Config, opts aggregate.Options) (aggregate.Result, error)

	// Secret storage (injected so tests avoid the OS keychain)
	SetSourceToken func(sourceName, token string) error
}
