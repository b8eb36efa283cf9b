package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/calehm/pond/config"
	"github.com/calehm/pond/render"
	"github.com/calehm/pond/telemetry"
	"github.com/calehm/pond/world"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Emit periodic status lines via slog")
	outputDir := flag.String("output-dir", "", "Output directory for world_log.csv and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call in headless mode")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	w := world.New(rngSeed)
	s := &sampler{w: w, om: om, logStats: *logStats}

	if *headless {
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
			"mode", string(cfg.Reproduction.Mode),
		)
		runHeadless(w, s, *maxTicks, *stepsPerUpdate)
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "pond")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	viewer := render.NewViewer()
	for !rl.WindowShouldClose() {
		viewer.HandleInput(w)
		for i := 0; i < viewer.Steps(); i++ {
			w.Step()
			s.afterStep()
		}
		viewer.Draw(w)

		if *maxTicks > 0 && int(w.Tick()) >= *maxTicks {
			break
		}
	}
}

func runHeadless(w *world.World, s *sampler, maxTicks, stepsPerUpdate int) {
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	for {
		for i := 0; i < stepsPerUpdate; i++ {
			w.Step()
			s.afterStep()
		}
		if maxTicks > 0 && int(w.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", w.Tick(), "population", w.Population())
			return
		}
	}
}

// sampler gates CSV rows and status lines on simulation time, so output
// cadence is independent of wall-clock speed.
type sampler struct {
	w        *world.World
	om       *telemetry.OutputManager
	logStats bool

	nextCSV    float64
	nextStatus float64
}

func (s *sampler) afterStep() {
	cfg := config.Cfg()

	if s.om != nil && s.w.Time() >= s.nextCSV {
		if err := s.om.WriteStats(s.w.SampleStats()); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		s.nextCSV += cfg.Telemetry.CSVInterval
	}

	if s.logStats && s.w.Time() >= s.nextStatus {
		s.w.LogStatus()
		s.nextStatus += cfg.Telemetry.StatusInterval
	}
}
