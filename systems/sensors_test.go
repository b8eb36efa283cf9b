package systems

import (
	"math"
	"testing"

	"github.com/calehm/pond/components"
)

const fov90 = float32(math.Pi / 2)

func TestRaycastConeDetectsAhead(t *testing.T) {
	foods := []components.Food{{X: 150, Y: 100}}

	hits := RaycastCone(nil, 100, 100, 0, fov90, 100, 5, foods)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if math.Abs(float64(hits[0].Dist)-50) > 1e-3 {
		t.Errorf("dist = %f, want 50", hits[0].Dist)
	}
	if math.Abs(float64(hits[0].RelAngle)) > 1e-5 {
		t.Errorf("rel angle = %f, want 0", hits[0].RelAngle)
	}
}

func TestRaycastConeIgnoresBehindAndFar(t *testing.T) {
	foods := []components.Food{
		{X: 50, Y: 100},  // directly behind
		{X: 400, Y: 100}, // ahead but out of range
	}

	hits := RaycastCone(nil, 100, 100, 0, fov90, 100, 5, foods)
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestRaycastConeSkipsEaten(t *testing.T) {
	foods := []components.Food{{X: 150, Y: 100, Eaten: true}}

	hits := RaycastCone(nil, 100, 100, 0, fov90, 100, 5, foods)
	if len(hits) != 0 {
		t.Errorf("eaten food should be invisible, got %d hits", len(hits))
	}
}

func TestRaycastConeReusesDst(t *testing.T) {
	foods := []components.Food{{X: 150, Y: 100}}
	scratch := make([]Hit, 0, 8)

	hits := RaycastCone(scratch, 100, 100, 0, fov90, 100, 5, foods)
	if len(hits) != 1 || cap(hits) != 8 {
		t.Errorf("expected dst reuse without reallocation, len=%d cap=%d", len(hits), cap(hits))
	}
}

func TestSignalsLeftRight(t *testing.T) {
	hits := []Hit{
		{RelAngle: -0.5, Dist: 50}, // left, strength 0.5
		{RelAngle: 0.3, Dist: 20},  // right, strength 0.8
		{RelAngle: 0.4, Dist: 80},  // right, weaker
	}

	left, right := Signals(hits, 100)
	if math.Abs(float64(left)-0.5) > 1e-5 {
		t.Errorf("left = %f, want 0.5", left)
	}
	if math.Abs(float64(right)-0.8) > 1e-5 {
		t.Errorf("right = %f, want 0.8", right)
	}
}

func TestSignalsEmpty(t *testing.T) {
	left, right := Signals(nil, 100)
	if left != 0 || right != 0 {
		t.Errorf("no hits should give zero signals, got (%f, %f)", left, right)
	}
}

func TestNearest(t *testing.T) {
	hits := []Hit{
		{Dist: 30, Index: 0},
		{Dist: 10, Index: 5},
		{Dist: 20, Index: 2},
	}
	if n := Nearest(hits); n != 1 {
		t.Errorf("Nearest = %d, want 1", n)
	}
	if n := Nearest(nil); n != -1 {
		t.Errorf("Nearest(nil) = %d, want -1", n)
	}
}
