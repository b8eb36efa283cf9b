package neural

import "math/rand"

// Experience is one recorded control step: the sensory input, the action
// taken, and the reward that followed. Replayed during sleep.
type Experience struct {
	Inputs [NumInputs]float32
	Action [NumOutputs]float32
	Reward float32
}

// Memory is a bounded FIFO of experiences. Once full, pushing evicts the
// oldest entry.
type Memory struct {
	buf  []Experience
	head int
	full bool
}

// NewMemory creates a memory buffer with the given capacity.
func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{buf: make([]Experience, capacity)}
}

// Push records an experience, evicting the oldest at capacity.
func (m *Memory) Push(e Experience) {
	m.buf[m.head] = e
	m.head++
	if m.head == len(m.buf) {
		m.head = 0
		m.full = true
	}
}

// Len returns the number of stored experiences.
func (m *Memory) Len() int {
	if m.full {
		return len(m.buf)
	}
	return m.head
}

// Sample returns a uniformly random stored experience.
// ok is false when the buffer is empty.
func (m *Memory) Sample(rng *rand.Rand) (Experience, bool) {
	n := m.Len()
	if n == 0 {
		return Experience{}, false
	}
	return m.buf[rng.Intn(n)], true
}
