package physics

import "math"

// jitterScale is the magnitude of the separation applied to coincident
// bodies, relative to MinDistance.
const jitterScale = 0.01

// Step advances the simulation by one tick and returns the total kinetic
// energy afterwards.
func (s *State) Step() float64 {
	p := s.Params
	for _, b := range s.bodies {
		b.fx, b.fy = 0, 0
	}

	s.applyRepulsion()
	s.applySprings()
	s.applyCentering()

	dt := p.TimeStep
	energy := 0.0
	for _, b := range s.bodies {
		if b.Pinned() {
			b.VX, b.VY = 0, 0
			continue
		}
		b.VX = (b.VX + b.fx*s.Alpha*dt) * p.Friction
		b.VY = (b.VY + b.fy*s.Alpha*dt) * p.Friction
		if v := math.Hypot(b.VX, b.VY); v > p.MaxVelocity {
			b.VX *= p.MaxVelocity / v
			b.VY *= p.MaxVelocity / v
		}
		b.X += b.VX * dt
		b.Y += b.VY * dt

		if !finite(b.X) || !finite(b.Y) || !finite(b.VX) || !finite(b.VY) {
			s.reseed(b)
		}
		energy += b.VX*b.VX + b.VY*b.VY
	}

	s.Alpha += (p.AlphaTarget - s.Alpha) * p.AlphaDecay
	if s.Alpha < p.AlphaMin {
		s.Alpha = 0
	}
	s.Iteration++
	s.energy = energy
	return energy
}

func (s *State) applyRepulsion() {
	p := s.Params
	if p.Charge == 0 {
		return
	}
	for i := 0; i < len(s.bodies); i++ {
		a := s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			b := s.bodies[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			d := math.Hypot(dx, dy)
			if d == 0 {
				dx, dy = s.separate(i, j)
				d = math.Hypot(dx, dy)
			}
			dc := max(d, p.MinDistance)
			f := p.Charge / (dc * dc)
			ux, uy := dx/d, dy/d
			a.fx -= f * ux
			a.fy -= f * uy
			b.fx += f * ux
			b.fy += f * uy
		}
	}
}

func (s *State) applySprings() {
	p := s.Params
	for _, sp := range s.springs {
		a, b := s.bodies[sp.a], s.bodies[sp.b]
		dx, dy := b.X-a.X, b.Y-a.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			dx, dy = s.separate(sp.a, sp.b)
			d = math.Hypot(dx, dy)
		}
		f := sp.stiffness * (d - p.LinkDistance)
		ux, uy := dx/d, dy/d
		a.fx += f * ux
		a.fy += f * uy
		b.fx -= f * ux
		b.fy -= f * uy
	}
}

func (s *State) applyCentering() {
	g := s.Params.Gravity
	if g == 0 {
		return
	}
	for _, b := range s.bodies {
		b.fx += g * (s.Center.X - b.X)
		b.fy += g * (s.Center.Y - b.Y)
	}
}

// jitter returns a small non-zero offset for the pair (i, j). The direction
// comes from simplex noise sampled off the lattice, so it is stable for a
// given seed and pair.
func (s *State) jitter(i, j int) (float64, float64) {
	n := s.noise.Eval2(float64(i)*0.731+0.5, float64(j)*1.137+0.25)
	angle := (n + 1) * math.Pi
	r := s.Params.MinDistance * jitterScale
	return r * math.Cos(angle), r * math.Sin(angle)
}

// separate moves coincident bodies i and j apart by the jitter offset,
// split between whichever of them are not pinned, and returns the offset
// from i to j used as the force direction.
func (s *State) separate(i, j int) (float64, float64) {
	a, b := s.bodies[i], s.bodies[j]
	jx, jy := s.jitter(i, j)
	switch {
	case !a.Pinned() && !b.Pinned():
		a.X, a.Y = a.X-jx/2, a.Y-jy/2
		b.X, b.Y = b.X+jx/2, b.Y+jy/2
	case !a.Pinned():
		a.X, a.Y = a.X-jx, a.Y-jy
	case !b.Pinned():
		b.X, b.Y = b.X+jx, b.Y+jy
	}
	return jx, jy
}

// reseed recovers a body whose state became non-finite.
func (s *State) reseed(b *Body) {
	i := s.index[b.ID]
	dx, dy := s.jitter(i, i+1)
	b.X = s.Center.X + dx*100
	b.Y = s.Center.Y + dy*100
	b.VX, b.VY = 0, 0
}
