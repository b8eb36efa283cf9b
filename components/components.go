// Package components defines ECS components for the simulation.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity.
type Velocity struct {
	X, Y float32
}

// Rotation represents an entity's heading and angular velocity.
type Rotation struct {
	Heading float32 // radians, kept in [0, 2*Pi)
	AngVel  float32 // radians per second
}

// Energy tracks an entity's metabolic state.
// Value is in absolute energy units. Age is monotonic while the organism
// lives; Alive flips to false exactly once, when energy is exhausted.
type Energy struct {
	Value float32
	Age   float32 // seconds alive
	Alive bool
}

// Sex is the binary mating category used by sexual reproduction.
type Sex uint8

// Sexes.
const (
	Male Sex = iota
	Female
)

// String returns "M" or "F".
func (s Sex) String() string {
	if s == Male {
		return "M"
	}
	return "F"
}

// Organism bundles identity, lineage, and social state.
// Dependents holds ids of children this organism still cares for.
type Organism struct {
	ID         uint32
	Generation int32
	Sex        Sex
	Parents    [2]uint32 // parent ids; NumParents says how many are set
	NumParents uint8
	Dependents map[uint32]struct{}

	// Introspection only: last sensory inputs and shaped outputs.
	// Read by the viewer and the inspector, never by the simulation.
	LastInputs [6]float32
	LastTurn   float32
	LastThrust float32

	// Nearest sensed food this tick, for the viewer's target line.
	TargetX, TargetY float32
	HasTarget        bool
}

// Sleep holds the sleep/dream state machine fields.
type Sleep struct {
	Awake      bool
	Pressure   float32 // accumulates awake, decays asleep, clamped
	DreamTimer float32 // seconds of sleep remaining
	DreamAccum float32 // fractional replay steps carried across ticks
}

// Home is an optional fixed care location an organism may build.
type Home struct {
	Built bool
	X, Y  float32
}

// Trail is a fixed-capacity ring of recent positions for rendering.
type Trail struct {
	Points []Position
	head   int
	full   bool
}

// NewTrail creates a trail with the given capacity.
func NewTrail(capacity int) Trail {
	if capacity < 1 {
		capacity = 1
	}
	return Trail{Points: make([]Position, capacity)}
}

// Push appends a position, dropping the oldest once at capacity.
func (t *Trail) Push(x, y float32) {
	t.Points[t.head] = Position{X: x, Y: y}
	t.head++
	if t.head == len(t.Points) {
		t.head = 0
		t.full = true
	}
}

// Len returns the number of stored points.
func (t *Trail) Len() int {
	if t.full {
		return len(t.Points)
	}
	return t.head
}

// At returns the i-th stored point, oldest first.
func (t *Trail) At(i int) Position {
	if t.full {
		return t.Points[(t.head+i)%len(t.Points)]
	}
	return t.Points[i]
}
