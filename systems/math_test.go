package systems

import (
	"math"
	"testing"

	"github.com/calehm/pond/config"
)

func init() {
	config.MustInit("")
}

func TestTorusDeltaDirect(t *testing.T) {
	dx, dy := TorusDelta(10, 10, 40, 30, 100, 100)
	if dx != 30 || dy != 20 {
		t.Errorf("got (%f, %f), want (30, 20)", dx, dy)
	}
}

func TestTorusDeltaWraps(t *testing.T) {
	// Shortest path from x=5 to x=95 on a width-100 torus goes left.
	dx, dy := TorusDelta(5, 50, 95, 50, 100, 100)
	if dx != -10 || dy != 0 {
		t.Errorf("got (%f, %f), want (-10, 0)", dx, dy)
	}

	dx, _ = TorusDelta(95, 50, 5, 50, 100, 100)
	if dx != 10 {
		t.Errorf("got dx=%f, want 10", dx)
	}
}

func TestAngleDiffRange(t *testing.T) {
	cases := []struct{ a, b, want float64 }{
		{0, 0, 0},
		{1, 0.5, 0.5},
		{0.1, 2*math.Pi - 0.1, 0.2},
		{2*math.Pi - 0.1, 0.1, -0.2},
	}
	for _, c := range cases {
		got := float64(AngleDiff(float32(c.a), float32(c.b)))
		if math.Abs(got-c.want) > 1e-5 {
			t.Errorf("AngleDiff(%f, %f) = %f, want %f", c.a, c.b, got, c.want)
		}
	}
}

func TestWrapPos(t *testing.T) {
	x, y := wrapPos(-1, 105, 100, 100)
	if x != 99 || y != 5 {
		t.Errorf("got (%f, %f), want (99, 5)", x, y)
	}
}

func TestNormalizeHeading(t *testing.T) {
	h := normalizeHeading(-0.5)
	if h < 0 || h >= 2*math.Pi {
		t.Errorf("heading %f out of [0, 2pi)", h)
	}
	if math.Abs(float64(h)-(2*math.Pi-0.5)) > 1e-5 {
		t.Errorf("got %f, want %f", h, 2*math.Pi-0.5)
	}
}
