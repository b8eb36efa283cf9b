// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Sensors      SensorsConfig      `yaml:"sensors"`
	Energy       EnergyConfig       `yaml:"energy"`
	Traits       TraitsConfig       `yaml:"traits"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Brain        BrainConfig        `yaml:"brain"`
	Reflex       ReflexConfig       `yaml:"reflex"`
	Sleep        SleepConfig        `yaml:"sleep"`
	Homes        HomesConfig        `yaml:"homes"`
	Environment  EnvironmentConfig  `yaml:"environment"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Render       RenderConfig       `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions and population/food seeding.
type WorldConfig struct {
	Width       int  `yaml:"width"`        // world width in world units (0 = use screen width)
	Height      int  `yaml:"height"`       // world height in world units (0 = use screen height)
	StartOrgs   int  `yaml:"start_orgs"`   // initial random population
	StartFood   int  `yaml:"start_food"`   // initial food particles
	MaxFood     int  `yaml:"max_food"`     // hard cap on the food list
	FoodRespawn bool `yaml:"food_respawn"` // enable weather-driven respawn
	TargetPop   int  `yaml:"target_pop"`   // soft carrying capacity for respawn damping
	AdamAndEve  bool `yaml:"adam_and_eve"` // start with one M/F pair at world center
}

// PhysicsConfig holds the inertial movement parameters.
type PhysicsConfig struct {
	DT            float64 `yaml:"dt"`              // seconds per tick for the fixed-step drivers
	BaseThrust    float64 `yaml:"base_thrust"`     // px/s^2 baseline thrust (scaled by thrust trait)
	MaxTurnTorque float64 `yaml:"max_turn_torque"` // rad/s^2 cap on angular acceleration
	LinDrag       float64 `yaml:"lin_drag"`        // s^-1 linear drag
	AngDrag       float64 `yaml:"ang_drag"`        // s^-1 angular drag
	MaxSpeed      float64 `yaml:"max_speed"`       // px/s speed clamp
}

// SensorsConfig holds the default perception cone parameters.
// Each organism mutates its own FOV/range around these.
type SensorsConfig struct {
	RangeDefault  float64 `yaml:"range_default"`   // px
	FOVDegDefault float64 `yaml:"fov_deg_default"` // degrees
	Rays          int     `yaml:"rays"`            // reserved for future ray-marched occlusion
}

// EnergyConfig holds the energy economy parameters.
type EnergyConfig struct {
	StartEnergy         float64 `yaml:"start_energy"`
	MetabolismBase      float64 `yaml:"metabolism_base"`       // drain per second
	MetabolismSpeedCoef float64 `yaml:"metabolism_speed_coef"` // drain per px/s of speed
	MetabolismBrainCoef float64 `yaml:"metabolism_brain_coef"` // flat cost of a brain tick
	FoodEnergy          float64 `yaml:"food_energy"`           // energy credited per food eaten
	EatRadius           float64 `yaml:"eat_radius"`            // px
	MaxAge              float64 `yaml:"max_age"`               // seconds; senescence drain beyond
	SenescenceRate      float64 `yaml:"senescence_rate"`       // extra drain per second over age
}

// TraitsConfig holds the heritable trait bounds (clamped after mutation).
type TraitsConfig struct {
	FOVMin    float64 `yaml:"fov_min"` // degrees
	FOVMax    float64 `yaml:"fov_max"`
	RangeMin  float64 `yaml:"range_min"` // px
	RangeMax  float64 `yaml:"range_max"`
	ThrustMin float64 `yaml:"thrust_min"` // multiplier
	ThrustMax float64 `yaml:"thrust_max"`
	MetaMin   float64 `yaml:"meta_min"` // multiplier
	MetaMax   float64 `yaml:"meta_max"`
}

// MutationConfig holds trait/brain mutation parameters.
type MutationConfig struct {
	Rate  float64 `yaml:"rate"`  // per-element mutation probability
	Scale float64 `yaml:"scale"` // Gaussian std of a mutation step
}

// ReproMode selects the reproduction pass the world runs.
type ReproMode string

// Reproduction modes.
const (
	ReproSexual  ReproMode = "sexual"
	ReproAsexual ReproMode = "asexual"
)

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	Mode         ReproMode `yaml:"mode"`          // sexual | asexual, fixed at world creation
	Threshold    float64   `yaml:"threshold"`     // minimum energy to reproduce
	ParentKeep   float64   `yaml:"parent_keep"`   // fraction of energy a parent retains
	ChildTake    float64   `yaml:"child_take"`    // fraction of energy a child receives
	MatingRadius float64   `yaml:"mating_radius"` // px, sexual partner search radius
	MatingDrive  float64   `yaml:"mating_drive"`  // per-tick probability an eligible organism seeks a mate
	SpawnOffset  float64   `yaml:"spawn_offset"`  // px jitter for asexual bud placement
}

// BrainConfig holds plasticity and developmental-learning parameters.
// Network dimensions are compile-time constants in the neural package.
type BrainConfig struct {
	PlasticityRate  float64 `yaml:"plasticity_rate"`  // Hebbian learning rate on W_rec
	PlasticityDecay float64 `yaml:"plasticity_decay"` // per-tick W_rec decay
	LearningAgeHalf float64 `yaml:"learning_age_half"` // seconds; age at which learning rate halves
	LearningMin     float64 `yaml:"learning_min"`      // floor of the age-scaled learning fraction
}

// ReflexConfig holds the fixed steering prior blended with the brain output.
type ReflexConfig struct {
	Blend          float64 `yaml:"blend"`            // weight of the brain's turn output
	Tolerance      float64 `yaml:"tolerance"`        // |left-right| below this damps turning
	TurnDamp       float64 `yaml:"turn_damp"`        // turn multiplier inside the tolerance band
	ThrustFloorMin float64 `yaml:"thrust_floor_min"` // thrust floor at zero confidence
	ThrustFloorMax float64 `yaml:"thrust_floor_max"` // additional floor at full confidence
}

// SleepConfig holds the sleep/dream cycle parameters.
type SleepConfig struct {
	PressureRate     float64 `yaml:"pressure_rate"`       // pressure gained per awake second
	RecoveryRate     float64 `yaml:"recovery_rate"`       // pressure shed per asleep second
	MinPressure      float64 `yaml:"min_pressure"`        // drive threshold to fall asleep
	NightWeight      float64 `yaml:"night_weight"`        // how strongly darkness gates sleep
	MetabolismFactor float64 `yaml:"metabolism_factor"`   // sleeping metabolic cost multiplier
	DreamStepsPerSec float64 `yaml:"dream_steps_per_sec"` // replay iterations per asleep second
	DreamNoise       float64 `yaml:"dream_noise"`         // Gaussian std added to replayed inputs
	MemorySize       int     `yaml:"memory_size"`         // experience buffer capacity
}

// HomesConfig holds home-building and parental-care parameters.
type HomesConfig struct {
	Enabled       bool    `yaml:"enabled"`
	BuildCost     float64 `yaml:"build_cost"`     // energy paid to place a home
	Radius        float64 `yaml:"radius"`         // px, care range around the caregiver
	DependencyAge float64 `yaml:"dependency_age"` // seconds a child counts as dependent
	FeedShare     float64 `yaml:"feed_share"`     // fraction of surplus transferred per care
	OrphanPenalty float64 `yaml:"orphan_penalty"` // 1 = no penalty, 0 = full orphan drain
}

// EnvironmentConfig holds the weather and seasonal model parameters.
type EnvironmentConfig struct {
	DayLength       float64 `yaml:"day_length"`  // seconds per day
	YearLength      float64 `yaml:"year_length"` // seconds per year
	EquatorTemp     float64 `yaml:"equator_temp"`
	PoleTemp        float64 `yaml:"pole_temp"`
	EquatorSeasonal float64 `yaml:"equator_seasonal"` // seasonal temperature amplitude at equator
	PoleSeasonal    float64 `yaml:"pole_seasonal"`    // seasonal temperature amplitude at poles
	BasePrecip      float64 `yaml:"base_precip"`
	PrecipVariation float64 `yaml:"precip_variation"`
	PrecipNoise     float64 `yaml:"precip_noise"`
	BaseRegrowth    float64 `yaml:"base_regrowth"` // food respawn probability scale per second
	GrowthNoise     float64 `yaml:"growth_noise"`
	OptimalTemp     float64 `yaml:"optimal_temp"`   // temperature of peak regrowth
	TempTolerance   float64 `yaml:"temp_tolerance"` // regrowth falls to zero this far from optimal
}

// TelemetryConfig holds logging intervals.
type TelemetryConfig struct {
	CSVInterval    float64 `yaml:"csv_interval"`    // sim seconds between CSV rows
	StatusInterval float64 `yaml:"status_interval"` // sim seconds between console status lines
}

// RenderConfig holds viewer-only settings. Never read by the simulation.
type RenderConfig struct {
	TrailPoints int  `yaml:"trail_points"`
	DrawGrid    bool `yaml:"draw_grid"`
	GridSpacing int  `yaml:"grid_spacing"`
	DrawFOV     bool `yaml:"draw_fov"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Physics.DT as float32
	WorldW32 float32 // effective world width as float32
	WorldH32 float32 // effective world height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated;
// a malformed configuration is an error, not something to limp along with.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	type bound struct {
		name     string
		min, max float64
	}
	bounds := []bound{
		{"traits.fov", c.Traits.FOVMin, c.Traits.FOVMax},
		{"traits.range", c.Traits.RangeMin, c.Traits.RangeMax},
		{"traits.thrust", c.Traits.ThrustMin, c.Traits.ThrustMax},
		{"traits.meta", c.Traits.MetaMin, c.Traits.MetaMax},
	}
	for _, b := range bounds {
		if b.min > b.max {
			return fmt.Errorf("config: %s bounds inverted: min %v > max %v", b.name, b.min, b.max)
		}
	}

	if c.Mutation.Scale <= 0 {
		return fmt.Errorf("config: mutation.scale must be positive, got %v", c.Mutation.Scale)
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		return fmt.Errorf("config: mutation.rate must be in [0,1], got %v", c.Mutation.Rate)
	}

	switch c.Reproduction.Mode {
	case ReproSexual, ReproAsexual:
	default:
		return fmt.Errorf("config: reproduction.mode must be %q or %q, got %q",
			ReproSexual, ReproAsexual, c.Reproduction.Mode)
	}
	if c.Reproduction.ParentKeep <= 0 || c.Reproduction.ParentKeep >= 1 {
		return fmt.Errorf("config: reproduction.parent_keep must be in (0,1), got %v", c.Reproduction.ParentKeep)
	}
	if c.Reproduction.ChildTake <= 0 || c.Reproduction.ChildTake >= 1 {
		return fmt.Errorf("config: reproduction.child_take must be in (0,1), got %v", c.Reproduction.ChildTake)
	}

	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.MaxSpeed <= 0 {
		return fmt.Errorf("config: physics.max_speed must be positive, got %v", c.Physics.MaxSpeed)
	}

	if c.Environment.DayLength <= 0 || c.Environment.YearLength <= 0 {
		return fmt.Errorf("config: environment day_length and year_length must be positive")
	}
	if c.Environment.TempTolerance <= 0 {
		return fmt.Errorf("config: environment.temp_tolerance must be positive, got %v", c.Environment.TempTolerance)
	}

	if c.Sleep.MemorySize <= 0 {
		return fmt.Errorf("config: sleep.memory_size must be positive, got %v", c.Sleep.MemorySize)
	}
	if c.Energy.EatRadius <= 0 {
		return fmt.Errorf("config: energy.eat_radius must be positive, got %v", c.Energy.EatRadius)
	}
	if c.World.MaxFood <= 0 {
		return fmt.Errorf("config: world.max_food must be positive, got %v", c.World.MaxFood)
	}

	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
