// Package systems contains the simulation's per-concern update logic:
// torus geometry, sensing, physics integration, metabolism, and the
// weather environment.
package systems

import (
	"math"

	"github.com/calehm/pond/config"
)

// worldWidth and worldHeight expose the torus size as float32 for the hot
// paths, avoiding a float64 conversion per call site.
func worldWidth() float32  { return config.Cfg().Derived.WorldW32 }
func worldHeight() float32 { return config.Cfg().Derived.WorldH32 }

// TorusDelta returns the shortest signed displacement from (ax,ay) to
// (bx,by) on a torus of size w x h.
func TorusDelta(ax, ay, bx, by, w, h float32) (dx, dy float32) {
	dx = bx - ax
	dy = by - ay
	if dx > w/2 {
		dx -= w
	}
	if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	}
	if dy < -h/2 {
		dy += h
	}
	return dx, dy
}

// AngleDiff returns the smallest signed difference a-b, wrapped to (-Pi, Pi].
func AngleDiff(a, b float32) float32 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// wrapPos wraps a position into [0,w) x [0,h).
func wrapPos(x, y, w, h float32) (float32, float32) {
	if x < 0 {
		x += w
	}
	if x >= w {
		x -= w
	}
	if y < 0 {
		y += h
	}
	if y >= h {
		y -= h
	}
	return x, y
}

// normalizeHeading wraps a heading to [0, 2*Pi).
func normalizeHeading(h float32) float32 {
	const twoPi = 2 * math.Pi
	for h < 0 {
		h += twoPi
	}
	for h >= twoPi {
		h -= twoPi
	}
	return h
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}
