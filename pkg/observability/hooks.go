// Package observability provides hooks for metrics and tracing.
//
// Engine packages report events through small hook interfaces instead of
// depending on a metrics backend. The defaults are no-ops; an application
// registers real implementations once at startup.
//
// # Usage
//
// Register hooks before serving requests:
//
//	reg := prometheus.NewRegistry()
//	hooks := observability.NewPrometheusHooks(reg)
//	observability.SetAnalyticsHooks(hooks)
//	observability.SetSimulationHooks(hooks)
//	observability.SetHTTPHooks(hooks)
//
// Libraries emit events through the accessors:
//
//	observability.Analytics().OnQuery(ctx, "top", users, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analytics Hooks
// =============================================================================

// AnalyticsHooks receives events from reach and centrality queries.
type AnalyticsHooks interface {
	// OnQuery records a completed query over a network of the given size.
	OnQuery(ctx context.Context, query string, users int, duration time.Duration)
}

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the growth simulation and bonus search.
type SimulationHooks interface {
	// OnSimulate records one simulation run of the given number of days.
	OnSimulate(ctx context.Context, kind string, days int, duration time.Duration)

	// OnBonusSearch records a bonus search and how many oracle evaluations it took.
	OnBonusSearch(ctx context.Context, evaluations int, found bool, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalyticsHooks is a no-op implementation of AnalyticsHooks.
type NoopAnalyticsHooks struct{}

func (NoopAnalyticsHooks) OnQuery(context.Context, string, int, time.Duration) {}

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSimulate(context.Context, string, int, time.Duration)   {}
func (NoopSimulationHooks) OnBonusSearch(context.Context, int, bool, time.Duration) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analyticsHooks  AnalyticsHooks  = NoopAnalyticsHooks{}
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetAnalyticsHooks registers custom analytics hooks. Nil is ignored.
func SetAnalyticsHooks(h AnalyticsHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analyticsHooks = h
	}
}

// SetSimulationHooks registers custom simulation hooks. Nil is ignored.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Analytics returns the registered analytics hooks.
func Analytics() AnalyticsHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analyticsHooks
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analyticsHooks = NoopAnalyticsHooks{}
	simulationHooks = NoopSimulationHooks{}
	httpHooks = NoopHTTPHooks{}
}
