package authorize

import (
	"context"
	"log/slog"
	"sync/atomic"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	entadapter "github.com/casbin/ent-adapter"
)

// PolicyChannel is the LISTEN/NOTIFY channel replicas use to announce
// policy writes to each other.
const PolicyChannel = "schedule_casbin_policy"

// policyLoadHealthy is false after a watcher-triggered reload failed and
// until the next one succeeds. Readiness reports it.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

type policyLoader interface {
	LoadPolicy() error
}

func reloadPolicy(e policyLoader, msg string) {
	slog.Debug("casbin policy update received", "message", msg)
	if err := e.LoadPolicy(); err != nil {
		slog.Error("reloading casbin policy failed", "error", err)
		policyLoadHealthy.Store(false)
		return
	}
	policyLoadHealthy.Store(true)
}

type CleanupFunc func(ctx context.Context)

// NewEnforcer opens the casbin policy store through the ent adapter and
// subscribes to PolicyChannel so policy edits made by one instance (or by
// `schedule system seed-admin`) reach the others without a restart. An
// empty modelPath selects DefaultModel.
func NewEnforcer(modelPath string, dsn string) (*casbin.DistributedEnforcer, CleanupFunc, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, nil, err
	}

	a, err := entadapter.NewAdapter("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	e, err := casbin.NewDistributedEnforcer(m, a)
	if err != nil {
		return nil, nil, err
	}

	w, err := psqlwatcher.NewWatcherWithConnString(context.Background(), dsn, psqlwatcher.Option{
		Channel: PolicyChannel,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func(context.Context) {
		w.Close()
		e.StopAutoLoadPolicy()
		slog.Info("casbin enforcer stopped")
	}

	if err := w.SetUpdateCallback(func(msg string) { reloadPolicy(e, msg) }); err != nil {
		cleanup(context.Background())
		return nil, nil, err
	}
	if err := e.SetWatcher(w); err != nil {
		cleanup(context.Background())
		return nil, nil, err
	}

	e.EnableAutoSave(true)
	e.EnableEnforce(true)

	return e, cleanup, nil
}
