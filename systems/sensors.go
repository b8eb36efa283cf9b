package systems

import (
	"math"

	"github.com/calehm/pond/components"
)

// Hit is one food detection within a perception cone.
type Hit struct {
	RelAngle float32 // angle to the food relative to heading, (-Pi, Pi]
	Dist     float32
	Index    int // index into the food slice, for the caller's target line
}

// RaycastCone reports every uneaten food within rangeLen and within half the
// field of view of the heading, appending hits to dst (reuse dst across
// calls to avoid allocations).
//
// The rays parameter is reserved for a future ray-marched occlusion model
// and does not gate detection: this is deliberately an omniscient-within-cone
// sensor, which is a simplification rather than a bug. Terrain occlusion is
// out of scope.
func RaycastCone(dst []Hit, x, y, heading, fovRad, rangeLen float32, rays int, foods []components.Food) []Hit {
	_ = rays

	halfFOV := fovRad / 2
	rangeSq := rangeLen * rangeLen
	w := worldWidth()
	h := worldHeight()

	for i := range foods {
		if foods[i].Eaten {
			continue
		}
		dx, dy := TorusDelta(x, y, foods[i].X, foods[i].Y, w, h)
		distSq := dx*dx + dy*dy
		if distSq > rangeSq {
			continue
		}
		angTo := float32(math.Atan2(float64(dy), float64(dx)))
		rel := AngleDiff(angTo, heading)
		if rel < -halfFOV || rel > halfFOV {
			continue
		}
		dst = append(dst, Hit{
			RelAngle: rel,
			Dist:     float32(math.Sqrt(float64(distSq))),
			Index:    i,
		})
	}

	return dst
}

// Signals folds cone hits into the left/right scalar activations fed to the
// brain: each hit contributes strength 1 - dist/range, and the strongest hit
// on each side wins. No hits yields (0, 0).
func Signals(hits []Hit, rangeLen float32) (left, right float32) {
	for _, hit := range hits {
		strength := 1 - hit.Dist/rangeLen
		if strength < 0 {
			strength = 0
		}
		if hit.RelAngle < 0 {
			if strength > left {
				left = strength
			}
		} else {
			if strength > right {
				right = strength
			}
		}
	}
	return left, right
}

// Nearest returns the index into hits of the closest hit, or -1 if empty.
func Nearest(hits []Hit) int {
	best := -1
	bestDist := float32(math.MaxFloat32)
	for i, hit := range hits {
		if hit.Dist < bestDist {
			bestDist = hit.Dist
			best = i
		}
	}
	return best
}
