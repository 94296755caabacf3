package service

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/cache"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/observability"
	"github.com/rs/zerolog/log"
)

// View names, used for cache keys, metrics and supersession slots.
const (
	ViewFinance   = "finance"
	ViewInventory = "inventory"
	ViewChurn     = "churn"
	ViewCohorts   = "cohorts"
	ViewTeam      = "team"
	ViewCFO       = "cfo"
)

// ViewLoader runs view builds behind the view cache. Within one scope, a newer
// load of a view cancels the older one, and the older result is discarded.
type ViewLoader struct {
	cache cache.ViewCache

	mu    sync.Mutex
	slots map[string]*loadSlot
}

type loadSlot struct {
	generation uint64
	cancel     context.CancelFunc
}

func NewViewLoader(viewCache cache.ViewCache) *ViewLoader {
	if viewCache == nil {
		viewCache = cache.NewNoopViewCache()
	}
	return &ViewLoader{cache: viewCache, slots: make(map[string]*loadSlot)}
}

// Invalidate drops every cached result of a view.
func (l *ViewLoader) Invalidate(ctx context.Context, view string) {
	if err := l.cache.Invalidate(ctx, view); err != nil {
		log.Warn().Err(err).Str("view", view).Msg("view cache invalidate failed")
	}
}

// begin registers a load in the slot for view and scope. The returned finish
// func reports whether the load is still the newest one. An empty scope opts out.
func (l *ViewLoader) begin(ctx context.Context, view, scope string) (context.Context, func() bool) {
	if scope == "" {
		return ctx, func() bool { return true }
	}

	key := view + ":" + scope

	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &loadSlot{}
		l.slots[key] = slot
	}
	if slot.cancel != nil {
		slot.cancel()
	}

	slot.generation++
	generation := slot.generation
	loadCtx, cancel := context.WithCancel(ctx)
	slot.cancel = cancel

	return loadCtx, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		defer cancel()

		if slot.generation != generation {
			return false
		}
		delete(l.slots, key)
		return true
	}
}

// loadView returns the cached view for params, or builds and caches it.
// When the build fails and degrade is set, the degraded view is returned
// instead of the error. Degraded views are never cached.
func loadView[T any](ctx context.Context, l *ViewLoader, view, scope, params string, build func(context.Context) (T, error), degrade func(error) T) (T, error) {
	var cached T
	if ok, err := l.cache.Get(ctx, view, params, &cached); err == nil && ok {
		observability.ViewLoads.WithLabelValues(view, "cached").Inc()
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("view", view).Msg("view cache get failed")
	}

	started := time.Now()
	loadCtx, finish := l.begin(ctx, view, scope)
	result, err := build(loadCtx)
	current := finish()

	var zero T
	if !current {
		observability.ViewLoads.WithLabelValues(view, "superseded").Inc()
		log.Debug().Str("view", view).Str("scope", scope).Msg("discarding superseded view load")
		return zero, domain.ErrSuperseded
	}
	if err != nil {
		observability.ViewLoads.WithLabelValues(view, "error").Inc()
		log.Error().Err(err).Str("view", view).Msg("view load failed")
		if degrade != nil && ctx.Err() == nil {
			return degrade(err), nil
		}
		return zero, err
	}

	observability.ViewLoads.WithLabelValues(view, "ok").Inc()
	observability.ViewLoadDuration.WithLabelValues(view).Observe(time.Since(started).Seconds())

	if err := l.cache.Set(ctx, view, params, result); err != nil {
		log.Warn().Err(err).Str("view", view).Msg("view cache set failed")
	}

	return result, nil
}
