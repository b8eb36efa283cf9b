package systems

import (
	"math"
	"testing"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
)

func TestIntegrateMotionMovesAlongHeading(t *testing.T) {
	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: 0}

	speed := IntegrateMotion(&pos, &vel, &rot, 0, 1, 1)

	if pos.X <= 100 {
		t.Errorf("full thrust at heading 0 should move +x, got x=%f", pos.X)
	}
	if math.Abs(float64(pos.Y-100)) > 1e-4 {
		t.Errorf("no y motion expected, got y=%f", pos.Y)
	}
	if speed <= 0 {
		t.Errorf("speed = %f, want > 0", speed)
	}
}

func TestIntegrateMotionSpeedClamp(t *testing.T) {
	cfg := config.Cfg()
	maxSpeed := float32(cfg.Physics.MaxSpeed)

	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{X: maxSpeed * 2}
	rot := components.Rotation{}

	speed := IntegrateMotion(&pos, &vel, &rot, 0, 1, 2)
	if speed > maxSpeed {
		t.Errorf("speed %f exceeds clamp %f", speed, maxSpeed)
	}
}

func TestIntegrateMotionDragStopsCoasting(t *testing.T) {
	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{X: 50}
	rot := components.Rotation{}

	before := vel.X
	IntegrateMotion(&pos, &vel, &rot, 0, 0, 1)
	if vel.X >= before {
		t.Errorf("zero thrust should bleed speed: %f -> %f", before, vel.X)
	}
}

func TestIntegrateMotionWrapsPosition(t *testing.T) {
	cfg := config.Cfg()
	w := cfg.Derived.WorldW32

	pos := components.Position{X: w - 0.01, Y: 100}
	vel := components.Velocity{X: 100}
	rot := components.Rotation{}

	IntegrateMotion(&pos, &vel, &rot, 0, 0, 1)
	if pos.X < 0 || pos.X >= w {
		t.Errorf("position x=%f not wrapped into [0, %f)", pos.X, w)
	}
}

func TestIntegrateMotionHeadingStaysNormalized(t *testing.T) {
	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: 6.2, AngVel: 10}

	for i := 0; i < 100; i++ {
		IntegrateMotion(&pos, &vel, &rot, 1, 0.5, 1)
	}
	if rot.Heading < 0 || rot.Heading >= 2*math.Pi {
		t.Errorf("heading %f out of [0, 2pi)", rot.Heading)
	}
}
