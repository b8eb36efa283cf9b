package systems

import (
	"math"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
)

// IntegrateMotion advances one organism's motion state by one tick and
// returns the speed after the update. turn is in [-1,1], thrust in [0,1];
// thrustEff is the heritable thrust efficiency trait.
//
// Drag enters as an acceleration term, so velocity relaxes exponentially
// toward the thrust direction. Position wraps on the torus and heading
// stays in [0, 2*Pi).
func IntegrateMotion(pos *components.Position, vel *components.Velocity, rot *components.Rotation, turn, thrust, thrustEff float32) float32 {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32
	linDrag := float32(cfg.Physics.LinDrag)

	force := thrust * float32(cfg.Physics.BaseThrust) * thrustEff
	ax := float32(math.Cos(float64(rot.Heading)))*force - linDrag*vel.X
	ay := float32(math.Sin(float64(rot.Heading)))*force - linDrag*vel.Y

	vel.X += ax * dt
	vel.Y += ay * dt

	// Speed clamp preserves direction.
	speed := velocityMagnitude(vel.X, vel.Y)
	maxSpeed := float32(cfg.Physics.MaxSpeed)
	if speed > maxSpeed {
		scale := maxSpeed / speed
		vel.X *= scale
		vel.Y *= scale
		speed = maxSpeed
	}

	// Torque drives angular velocity against angular drag.
	angAcc := turn*float32(cfg.Physics.MaxTurnTorque) - float32(cfg.Physics.AngDrag)*rot.AngVel
	rot.AngVel += angAcc * dt
	rot.Heading = normalizeHeading(rot.Heading + rot.AngVel*dt)

	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	pos.X, pos.Y = wrapPos(pos.X, pos.Y, cfg.Derived.WorldW32, cfg.Derived.WorldH32)

	return speed
}

// Speed returns the current speed of a velocity, for sensing and telemetry.
func Speed(vel *components.Velocity) float32 {
	return velocityMagnitude(vel.X, vel.Y)
}
