// Package config carries run configuration for the axiomiq CLI.
// Precedence: explicit CLI flags > YAML config file > defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DecisionVersion tags the locked analytics-to-action thresholds in
// DefaultRules. Bump it whenever those constants change.
const DecisionVersion = "0.1.0"

// DecisionRules is the immutable set of thresholds mapping analytics to
// operational decisions. It is passed by value into the fleet
// aggregator and the snapshot differ so multiple profiles can run side
// by side without shared mutable state.
type DecisionRules struct {
	// Priority cutoffs. ETA = time-to-limit in days; lower is worse.
	HighPriorityETADays float64
	MedPriorityETADays  float64

	// Health fallback when ETA is unavailable.
	MedPriorityHealthBelow float64

	// ETA at or below this forces the urgent action regardless of the
	// nominal priority tier.
	UrgentActionETADays float64

	// Change-detection triggers for the run-over-run delta.
	HealthDropPoints float64
	ETACompressDays  float64

	// Hard cap on delta report length.
	MaxDeltaLines int
}

// DefaultRules returns the locked production thresholds.
func DefaultRules() DecisionRules {
	return DecisionRules{
		HighPriorityETADays:    7.0,
		MedPriorityETADays:     30.0,
		MedPriorityHealthBelow: 80.0,
		UrgentActionETADays:    3.0,
		HealthDropPoints:       2.0,
		ETACompressDays:        7.0,
		MaxDeltaLines:          8,
	}
}

// Config is the merged run configuration for one axiomiq invocation.
type Config struct {
	// I/O
	Input    string `yaml:"input"`
	Out      string `yaml:"out"`
	JSONOut  string `yaml:"json_out"`
	Snapshot string `yaml:"snapshot"`

	// Analysis
	Engine      string  `yaml:"engine"`
	TopN        int     `yaml:"top_n"`
	HealthDrop  float64 `yaml:"health_drop"`
	ETACompress float64 `yaml:"eta_compress"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	rules := DefaultRules()

	cfg := Config{
		Input:       "data/readings.csv",
		Out:         "outputs/axiomiq_report.xlsx",
		JSONOut:     "",
		Snapshot:    "outputs/last_snapshot.csv",
		Engine:      "",
		TopN:        5,
		HealthDrop:  rules.HealthDropPoints,
		ETACompress: rules.ETACompressDays,
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// LoadFile reads a YAML config file over the defaults. Keys may sit at
// the top level or under an "axiomiq:" section.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var probe struct {
		AxiomIQ yaml.Node `yaml:"axiomiq"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if probe.AxiomIQ.Kind != 0 {
		// keys sit under an "axiomiq:" section
		if err := probe.AxiomIQ.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Rules materializes the decision rules for this run: the locked
// defaults with the two caller-tunable delta triggers applied.
func (c Config) Rules() DecisionRules {
	rules := DefaultRules()
	rules.HealthDropPoints = c.HealthDrop
	rules.ETACompressDays = c.ETACompress
	return rules
}
