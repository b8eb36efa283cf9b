package telemetry

// Collector accumulates birth, death, and mutation counts. Window counters
// reset on TakeWindow; lifetime totals never reset.
type Collector struct {
	windowBirths   int
	windowDeaths   int
	totalBirths    int
	totalDeaths    int
	totalMutations int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirth counts one birth.
func (c *Collector) RecordBirth() {
	c.windowBirths++
	c.totalBirths++
}

// RecordDeath counts one death.
func (c *Collector) RecordDeath() {
	c.windowDeaths++
	c.totalDeaths++
}

// RecordMutation counts one mutation event. Every offspring carries mutated
// genes, so reproduction records exactly one per child.
func (c *Collector) RecordMutation() {
	c.totalMutations++
}

// Mutations returns the lifetime mutation count.
func (c *Collector) Mutations() int {
	return c.totalMutations
}

// TakeWindow returns the counts since the last call and resets the window.
func (c *Collector) TakeWindow() (births, deaths int) {
	births, deaths = c.windowBirths, c.windowDeaths
	c.windowBirths, c.windowDeaths = 0, 0
	return births, deaths
}

// Totals returns lifetime birth and death counts.
func (c *Collector) Totals() (births, deaths int) {
	return c.totalBirths, c.totalDeaths
}
