// Package physics implements the force model behind the dependency
// explorer's layout.
//
// A [State] holds point bodies and the springs between them. Each call to
// [State.Step] applies three forces and integrates once:
//
//   - Repulsion between every unordered pair of bodies, proportional to
//     Charge/d², with d floored at MinDistance. Exactly coincident bodies
//     are separated by a small deterministic jitter drawn from OpenSimplex
//     noise, so identical inputs always produce identical layouts.
//   - A Hookean spring along each resolved link, pulling its endpoints
//     toward LinkDistance. Optional links use the softer OptionalStiffness.
//   - A weak centering pull toward the layout center.
//
// Integration is damped semi-implicit Euler:
//
//	v = (v + F·alpha·dt) · Friction
//	p = p + v·dt
//
// Alpha is the simulation "heat". It decays geometrically toward
// AlphaTarget each step and snaps to zero below AlphaMin, after which only
// friction acts and the kinetic energy falls below any positive threshold
// in a bounded number of steps, for every finite input. [State.Reheat]
// raises alpha again after an external change such as a drag.
//
// Pinned bodies take part in force computation as sources but are never
// moved by it; their position is whatever was last set from outside.
//
// Velocities are clamped to MaxVelocity and a body whose coordinates ever
// become non-finite is re-seeded near the center, so pathological inputs
// degrade visually instead of propagating NaN.
//
// A State is not safe for concurrent use.
package physics
