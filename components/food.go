package components

// Food is a stationary energy particle. It has no identity beyond its
// position. Eaten marks it for removal: the world compacts the food list
// after each organism pass instead of mutating it mid-iteration, so a food
// eaten early in a tick is invisible to every later organism in that tick.
type Food struct {
	X, Y  float32
	Eaten bool
}
