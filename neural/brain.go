// Package neural provides the recurrent neural controllers for organisms.
package neural

import (
	"math/rand"

	"github.com/calehm/pond/config"
)

// Network dimensions (compile-time constants for array sizing).
// Inputs: left signal, right signal, energy, speed, age, bias.
// Outputs: turn [-1,1], thrust [0,1].
const (
	NumInputs  = 6
	NumHidden  = 16
	NumOutputs = 2
)

// Input vector indices. SwapInputChannels relies on LeftInput and RightInput
// being the food-signal channels.
const (
	LeftInput  = 0
	RightInput = 1
)

// Brain is a small recurrent network with reward-modulated Hebbian
// plasticity on the recurrent weights. The hidden state persists across
// ticks and is the organism's only memory between control steps; it is
// zeroed at birth and never shared between organisms.
type Brain struct {
	WIn  [NumHidden][NumInputs]float32  // input -> hidden weights
	WRec [NumHidden][NumHidden]float32  // hidden -> hidden recurrence
	BH   [NumHidden]float32             // hidden biases
	WOut [NumOutputs][NumHidden]float32 // hidden -> output weights
	BOut [NumOutputs]float32            // output biases

	h     [NumHidden]float32 // recurrent hidden state
	preH  [NumHidden]float32 // hidden state before the last Forward
	postH [NumHidden]float32 // hidden state after the last Forward

	plasticityRate  float32
	plasticityDecay float32
}

// NewBrain creates a randomly initialized brain.
// Input and output weights start wide, recurrence starts small so early
// dynamics are input-driven rather than self-excited.
func NewBrain(rng *rand.Rand) *Brain {
	cfg := config.Cfg()
	b := &Brain{
		plasticityRate:  float32(cfg.Brain.PlasticityRate),
		plasticityDecay: float32(cfg.Brain.PlasticityDecay),
	}

	for i := range b.WIn {
		for j := range b.WIn[i] {
			b.WIn[i][j] = float32(rng.NormFloat64()) * 0.6
		}
	}
	for i := range b.WRec {
		for j := range b.WRec[i] {
			b.WRec[i][j] = float32(rng.NormFloat64()) * 0.2
		}
	}
	for i := range b.WOut {
		for j := range b.WOut[i] {
			b.WOut[i][j] = float32(rng.NormFloat64()) * 0.6
		}
	}
	// Biases start at zero.

	return b
}

// ResetState zeroes the hidden state and the plasticity traces.
// Called at birth; never during an organism's lifetime.
func (b *Brain) ResetState() {
	b.h = [NumHidden]float32{}
	b.preH = [NumHidden]float32{}
	b.postH = [NumHidden]float32{}
}

// Hidden returns a copy of the current hidden state, for inspection.
func (b *Brain) Hidden() [NumHidden]float32 {
	return b.h
}

// Forward runs one control step:
//
//	h <- tanh(WIn*x + WRec*h + BH)
//	o <- tanh(WOut*h + BOut)
//
// Returns turn in [-1,1] and thrust mapped to [0,1]. The pre/post hidden
// states are recorded for the next ApplyPlasticity call.
func (b *Brain) Forward(x *[NumInputs]float32) (turn, thrust float32) {
	b.preH = b.h

	var next [NumHidden]float32
	for i := 0; i < NumHidden; i++ {
		sum := b.BH[i]
		for j := 0; j < NumInputs; j++ {
			sum += b.WIn[i][j] * x[j]
		}
		for j := 0; j < NumHidden; j++ {
			sum += b.WRec[i][j] * b.h[j]
		}
		next[i] = tanh(sum)
	}
	b.h = next
	b.postH = next

	var out [NumOutputs]float32
	for i := 0; i < NumOutputs; i++ {
		sum := b.BOut[i]
		for j := 0; j < NumHidden; j++ {
			sum += b.WOut[i][j] * b.h[j]
		}
		out[i] = tanh(sum)
	}

	turn = out[0]
	thrust = (out[1] + 1.0) * 0.5
	return turn, thrust
}

// ApplyPlasticity performs one reward-modulated Hebbian update on the
// recurrent weights:
//
//	WRec <- WRec*(1-decay) + rate*reward*outer(postH, preH)
//
// Decay always applies so the recurrence stays bounded regardless of reward
// sign. Call once per tick, after Forward, with reward clipped to [-1,1].
func (b *Brain) ApplyPlasticity(reward float32) {
	keep := 1.0 - b.plasticityDecay
	for i := range b.WRec {
		for j := range b.WRec[i] {
			b.WRec[i][j] *= keep
		}
	}

	if reward == 0 {
		return
	}

	eta := b.plasticityRate * reward
	for i := 0; i < NumHidden; i++ {
		post := b.postH[i]
		if post == 0 {
			continue
		}
		row := &b.WRec[i]
		for j := 0; j < NumHidden; j++ {
			row[j] += eta * post * b.preH[j]
		}
	}
}

// Clone creates a deep copy of the parameters with freshly zeroed state.
func (b *Brain) Clone() *Brain {
	c := &Brain{
		WIn:             b.WIn,
		WRec:            b.WRec,
		BH:              b.BH,
		WOut:            b.WOut,
		BOut:            b.BOut,
		plasticityRate:  b.plasticityRate,
		plasticityDecay: b.plasticityDecay,
	}
	return c
}

// CopyMutated deep-copies the brain and applies evolutionary mutation:
// each element independently, with probability mutation.rate, gains
// Gaussian noise with std mutation.scale. This is across-generation
// adaptation; within-lifetime adaptation is ApplyPlasticity.
func (b *Brain) CopyMutated(rng *rand.Rand) *Brain {
	cfg := config.Cfg()
	rate := cfg.Mutation.Rate
	scale := cfg.Mutation.Scale

	c := b.Clone()
	if rate <= 0 {
		return c
	}

	mutate := func(v float32) float32 {
		if rng.Float64() < rate {
			v += float32(rng.NormFloat64() * scale)
		}
		return v
	}

	for i := range c.WIn {
		for j := range c.WIn[i] {
			c.WIn[i][j] = mutate(c.WIn[i][j])
		}
	}
	for i := range c.WRec {
		for j := range c.WRec[i] {
			c.WRec[i][j] = mutate(c.WRec[i][j])
		}
	}
	for i := range c.BH {
		c.BH[i] = mutate(c.BH[i])
	}
	for i := range c.WOut {
		for j := range c.WOut[i] {
			c.WOut[i][j] = mutate(c.WOut[i][j])
		}
	}
	for i := range c.BOut {
		c.BOut[i] = mutate(c.BOut[i])
	}

	return c
}

// Crossover returns the elementwise average of two parents' parameters with
// zeroed state. Sexual reproduction follows this with one CopyMutated pass.
func Crossover(a, b *Brain) *Brain {
	c := &Brain{
		plasticityRate:  a.plasticityRate,
		plasticityDecay: a.plasticityDecay,
	}
	for i := range c.WIn {
		for j := range c.WIn[i] {
			c.WIn[i][j] = 0.5 * (a.WIn[i][j] + b.WIn[i][j])
		}
	}
	for i := range c.WRec {
		for j := range c.WRec[i] {
			c.WRec[i][j] = 0.5 * (a.WRec[i][j] + b.WRec[i][j])
		}
	}
	for i := range c.BH {
		c.BH[i] = 0.5 * (a.BH[i] + b.BH[i])
	}
	for i := range c.WOut {
		for j := range c.WOut[i] {
			c.WOut[i][j] = 0.5 * (a.WOut[i][j] + b.WOut[i][j])
		}
	}
	for i := range c.BOut {
		c.BOut[i] = 0.5 * (a.BOut[i] + b.BOut[i])
	}
	return c
}

// SwapInputChannels mirrors the left/right sensory columns of the input
// weights. Applied with probability 0.5 at birth to break the steering
// symmetry between lineages.
func (b *Brain) SwapInputChannels() {
	for i := range b.WIn {
		b.WIn[i][LeftInput], b.WIn[i][RightInput] = b.WIn[i][RightInput], b.WIn[i][LeftInput]
	}
}

// tanh uses a fast rational approximation avoiding float64 conversion.
// The rational form equals 1 at x=3 and overshoots beyond it, so saturation
// starts there; outputs never leave [-1, 1].
func tanh(x float32) float32 {
	if x >= 3 {
		return 1
	}
	if x <= -3 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}
