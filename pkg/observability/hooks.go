// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about the layout simulation, pointer interaction and
// static exports.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Simulation and interaction hooks are called from the frame loop, so
// implementations must return quickly and never call back into the engine.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    reg := metrics.NewRegistry()
//	    observability.SetSimulationHooks(reg)
//	    observability.SetInteractionHooks(reg)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simulation().OnSettle(instance, ticks, energy, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the layout simulation driver.
// The instance argument identifies one graph instance for its whole lifetime.
type SimulationHooks interface {
	// OnLoad records a graph being installed into a fresh simulation state.
	OnLoad(instance string, nodes, edges int)

	// OnTick records one physics step.
	OnTick(instance string, iteration int, energy float64)

	// OnSettle records the simulation coming to rest.
	OnSettle(instance string, ticks int, energy float64, elapsed time.Duration)

	// OnStop records teardown of a graph instance.
	OnStop(instance string)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from the pointer interaction controller.
type InteractionHooks interface {
	OnClick(nodeID string)
	OnDoubleClick(nodeID string)
	OnDragEnd(nodeID string, duration time.Duration)
	OnZoom(scale float64)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from static diagram exports.
type ExportHooks interface {
	OnExportStart(ctx context.Context, format string, nodeCount int)
	OnExportComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnLoad(string, int, int)                      {}
func (NoopSimulationHooks) OnTick(string, int, float64)                  {}
func (NoopSimulationHooks) OnSettle(string, int, float64, time.Duration) {}
func (NoopSimulationHooks) OnStop(string)                                {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnClick(string)                  {}
func (NoopInteractionHooks) OnDoubleClick(string)            {}
func (NoopInteractionHooks) OnDragEnd(string, time.Duration) {}
func (NoopInteractionHooks) OnZoom(float64)                  {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, string, int)                     {}
func (NoopExportHooks) OnExportComplete(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulationHooks  SimulationHooks  = NoopSimulationHooks{}
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	exportHooks      ExportHooks      = NoopExportHooks{}
	hooksMu          sync.RWMutex
)

// SetSimulationHooks registers custom simulation hooks.
// This should be called once at application startup before any graph is loaded.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetExportHooks registers custom export hooks.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulationHooks = NoopSimulationHooks{}
	interactionHooks = NoopInteractionHooks{}
	exportHooks = NoopExportHooks{}
}
