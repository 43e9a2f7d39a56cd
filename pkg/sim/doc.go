// Package sim drives a physics state through time.
//
// A [Driver] owns the simulation state of one graph instance. It requests
// one frame at a time from a [Scheduler], advances the physics by a single
// step per frame, publishes positions to its subscribers and stops
// requesting frames once the layout has settled:
//
//	Idle ──Load──▶ Running ──settle──▶ Settled
//	                  ▲                    │
//	                  └──Resume / Pin──────┘
//	any ──Stop──▶ Stopped (terminal)
//
// Settling uses hysteresis: the mean kinetic energy per node must stay
// below EnergyThreshold for SettleTicks consecutive frames, or the
// MaxTicks budget since the last wake-up must be spent.
//
// Scheduling is abstract so the same driver runs under a terminal event
// loop, under a test that advances frames by hand ([ManualScheduler]), or
// headless. At most one frame is outstanding at any time and every path
// that discards the state cancels it first, so a stale frame can never
// touch a replaced graph.
package sim
