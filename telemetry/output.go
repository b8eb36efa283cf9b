package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/calehm/pond/config"
)

// OutputManager owns the experiment output directory: the world_log.csv
// stats file and a snapshot of the effective config. A nil OutputManager
// is valid and discards everything, so callers never branch on whether
// output is enabled.
type OutputManager struct {
	dir           string
	logFile       *os.File
	headerWritten bool
}

// NewOutputManager creates the output directory and opens world_log.csv.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	logPath := filepath.Join(dir, "world_log.csv")
	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating world_log.csv: %w", err)
	}

	return &OutputManager{dir: dir, logFile: f}, nil
}

// WriteConfig saves the effective configuration as YAML, so a run's output
// directory is self-describing.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends one row to world_log.csv. The first write includes
// the header.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.logFile); err != nil {
			return fmt.Errorf("writing world_log: %w", err)
		}
		om.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, om.logFile); err != nil {
		return fmt.Errorf("writing world_log: %w", err)
	}
	return nil
}

// Dir returns the output directory path, empty when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the log file.
func (om *OutputManager) Close() error {
	if om == nil || om.logFile == nil {
		return nil
	}
	return om.logFile.Close()
}
