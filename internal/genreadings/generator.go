// Package genreadings produces synthetic generator-engine readings for
// demos and pipeline tests: per-engine drift profiles, load-correlated
// offsets, Gaussian noise, and an optional single-engine correlated
// failure ramp. Output is deterministic for a fixed seed.
package genreadings

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// ParamSpec describes one generated parameter.
type ParamSpec struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Nominal float64
}

// Catalog is the generated parameter set, matching the ingest schema.
var Catalog = []ParamSpec{
	{"engine_lo_inlet_pressure_bar", "bar", 3.5, 4.5, 4.1},
	{"tc_lo_inlet_pressure_bar", "bar", 1.3, 2.0, 1.6},
	{"lo_inlet_temp_c", "c", 0, 65, 58},
	{"htcw_engine_outlet_temp_c", "c", 0, 90, 82},
	{"charge_air_pressure_bar", "bar", 0, 3.5, 3.1},
}

// DriftProfile is one engine's per-hour drift rates plus noise sigma.
type DriftProfile struct {
	TempDrift  float64
	PressDrift float64
	Noise      float64
}

// FailureMode labels for Failure.Mode.
const FailureModeAirIntakeRestriction = "air_intake_restriction"

// Failure is a correlated failure event injected into one engine,
// ramping from StartDay over RampDays to full Severity.
type Failure struct {
	Mode     string
	EngineID string
	StartDay int
	RampDays int
	Severity float64
}

// Options controls one generation run.
type Options struct {
	Start     time.Time
	Days      int
	StepHours int
	Engines   []string
	Seed      int64
	Profile   string
	// NoiseOverride replaces every engine's noise sigma when non-nil.
	NoiseOverride *float64
	Failure       *Failure
}

var profilePresets = map[string]map[string]DriftProfile{
	"demo": {
		"DG1": {0.000, 0.000, 0.020},
		"DG2": {0.006, -0.003, 0.025},
		"DG3": {0.010, 0.000, 0.030},
		"DG4": {0.015, -0.004, 0.030},
		"DG5": {0.000, -0.006, 0.030},
		"DG6": {0.020, -0.010, 0.035},
	},
	"healthy": {
		"DG1": {0, 0, 0.015}, "DG2": {0, 0, 0.015}, "DG3": {0, 0, 0.015},
		"DG4": {0, 0, 0.015}, "DG5": {0, 0, 0.015}, "DG6": {0, 0, 0.015},
	},
	"degrading": {
		"DG1": {0.006, -0.002, 0.020},
		"DG2": {0.008, -0.003, 0.022},
		"DG3": {0.010, -0.004, 0.025},
		"DG4": {0.012, -0.005, 0.028},
		"DG5": {0.014, -0.006, 0.030},
		"DG6": {0.016, -0.008, 0.032},
	},
	"mixed": {},
}

// Profiles lists the known profile names.
func Profiles() []string {
	return []string{"demo", "healthy", "degrading", "mixed"}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func engineProfiles(engines []string, profile string, rng *rand.Rand, noiseOverride *float64) (map[string]DriftProfile, error) {
	preset, ok := profilePresets[profile]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", profile)
	}

	cfg := make(map[string]DriftProfile, len(engines))
	for _, e := range engines {
		var p DriftProfile
		if profile == "mixed" {
			p = DriftProfile{
				TempDrift:  rng.Float64() * 0.020,
				PressDrift: -0.012 + rng.Float64()*0.016,
				Noise:      0.015 + rng.Float64()*0.025,
			}
		} else if base, ok := preset[e]; ok {
			p = base
		} else {
			p = DriftProfile{0, 0, 0.020}
		}
		if noiseOverride != nil {
			p.Noise = *noiseOverride
		}
		cfg[e] = p
	}
	return cfg, nil
}

// failureMultiplier ramps 0..Severity after StartDay over RampDays.
func failureMultiplier(dayIndex int, f Failure) float64 {
	if dayIndex < f.StartDay {
		return 0
	}
	if f.RampDays <= 0 {
		return f.Severity
	}
	t := clamp(float64(dayIndex-f.StartDay)/float64(f.RampDays), 0, 1)
	return f.Severity * t
}

func applyFailure(param string, base float64, loadKW float64, dayIndex int, f *Failure) float64 {
	if f == nil {
		return base
	}
	m := failureMultiplier(dayIndex, *f)
	if m <= 0 {
		return base
	}

	loadFactor := clamp((loadKW-160)/(640-160), 0, 1)

	if f.Mode == FailureModeAirIntakeRestriction {
		switch param {
		case "charge_air_pressure_bar":
			return base - (0.20+0.15*loadFactor)*m
		case "htcw_engine_outlet_temp_c":
			return base + (4.0+3.0*loadFactor)*m
		case "tc_lo_inlet_pressure_bar":
			return base - 0.12*m
		}
	}
	return base
}

var loadSteps = []float64{160, 240, 320, 480, 640}

// Generate materializes the synthetic reading set in memory.
func Generate(opts Options) ([]models.Reading, error) {
	if opts.Days <= 0 {
		return nil, fmt.Errorf("days must be > 0")
	}
	if opts.StepHours <= 0 {
		return nil, fmt.Errorf("step hours must be > 0")
	}
	if len(opts.Engines) == 0 {
		return nil, fmt.Errorf("engines cannot be empty")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	cfg, err := engineProfiles(opts.Engines, opts.Profile, rng, opts.NoiseOverride)
	if err != nil {
		return nil, err
	}

	tempOffset := make(map[string]float64, len(opts.Engines))
	pressOffset := make(map[string]float64, len(opts.Engines))

	totalSteps := opts.Days * 24 / opts.StepHours
	out := make([]models.Reading, 0, totalSteps*len(opts.Engines)*len(Catalog))

	for i := 0; i < totalSteps; i++ {
		ts := opts.Start.Add(time.Duration(i*opts.StepHours) * time.Hour)

		elapsedDays := int(ts.Sub(opts.Start).Hours() / 24)
		dayIndex := elapsedDays
		if dayIndex > opts.Days-1 {
			dayIndex = opts.Days - 1
		}

		for _, e := range opts.Engines {
			loadKW := loadSteps[rng.Intn(len(loadSteps))]
			rpm := 1500.0
			if loadKW >= 240 {
				rpm = 1800.0
			}

			p := cfg[e]
			tempOffset[e] += p.TempDrift * float64(opts.StepHours)
			pressOffset[e] += p.PressDrift * float64(opts.StepHours)

			var activeFailure *Failure
			if opts.Failure != nil && opts.Failure.EngineID == e {
				activeFailure = opts.Failure
			}

			for _, spec := range Catalog {
				eps := rng.NormFloat64() * p.Noise

				value := spec.Nominal + eps
				if isTempParam(spec.Name) {
					value = spec.Nominal + tempOffset[e] + eps
				} else if isPressureParam(spec.Name) {
					value = spec.Nominal + pressOffset[e] + eps
				}

				// load correlation
				switch spec.Name {
				case "charge_air_pressure_bar":
					value += (loadKW - 320) / 3200.0
				case "htcw_engine_outlet_temp_c":
					value += (loadKW - 320) / 800.0
				}

				value = applyFailure(spec.Name, value, loadKW, dayIndex, activeFailure)
				value = clamp(value, spec.Min, spec.Max)

				out = append(out, models.Reading{
					Timestamp: ts,
					EngineID:  e,
					Param:     spec.Name,
					Value:     value,
					Unit:      spec.Unit,
					Min:       models.Float64(spec.Min),
					Max:       models.Float64(spec.Max),
					LoadKW:    loadKW,
					RPM:       rpm,
				})
			}
		}
	}

	return out, nil
}

func isTempParam(name string) bool {
	return strings.Contains(name, "temp")
}

func isPressureParam(name string) bool {
	return strings.Contains(name, "pressure")
}

// WriteCSV generates readings and writes them in the ingest schema.
func WriteCSV(path string, opts Options) (int, error) {
	rows, err := Generate(opts)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "engine_id", "load_kw", "rpm", "param", "value", "unit", "min", "max"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.EngineID,
			strconv.FormatFloat(r.LoadKW, 'f', 0, 64),
			strconv.FormatFloat(r.RPM, 'f', 0, 64),
			r.Param,
			strconv.FormatFloat(r.Value, 'f', 2, 64),
			r.Unit,
			formatLimit(r.Min),
			formatLimit(r.Max),
		}
		if err := w.Write(rec); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush output: %w", err)
	}

	return len(rows), nil
}

func formatLimit(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
