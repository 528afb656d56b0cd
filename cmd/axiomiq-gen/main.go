// Command axiomiq-gen generates synthetic generator-engine readings
// for demos and pipeline testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/genreadings"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("axiomiq-gen", flag.ContinueOnError)
	out := fs.String("out", "data/readings.csv", "Output CSV path")
	start := fs.String("start", "2026-01-01T00:00:00", "Start datetime (ISO format)")
	days := fs.Int("days", 90, "Number of days to generate")
	stepHours := fs.Int("step-hours", 1, "Sampling interval in hours")
	engines := fs.String("engines", "DG1,DG2,DG3,DG4,DG5,DG6", "Comma-separated engine IDs")
	seed := fs.Int64("seed", 0, "Random seed for reproducible output")
	profile := fs.String("profile", "demo",
		fmt.Sprintf("Drift profile preset (%s)", strings.Join(genreadings.Profiles(), "/")))
	noise := fs.Float64("noise", -1, "Override noise sigma for all engines (negative: per-profile)")
	injectFailure := fs.Bool("inject-failure", false, "Inject one correlated failure mode into a single engine")
	failureEngine := fs.String("failure-engine", "DG3", "Engine to apply failure to")
	failureStartDay := fs.Int("failure-start-day", 20, "Day index when failure begins")
	failureRampDays := fs.Int("failure-ramp-days", 14, "Days to ramp to full failure severity")
	failureSeverity := fs.Float64("failure-severity", 0.8, "Failure severity 0..1")
	failureMode := fs.String("failure-mode", genreadings.FailureModeAirIntakeRestriction, "Failure mode to inject")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	startTime, err := time.Parse("2006-01-02T15:04:05", *start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --start: %v\n", err)
		return 1
	}

	var engineIDs []string
	for _, e := range strings.Split(*engines, ",") {
		if e = strings.TrimSpace(e); e != "" {
			engineIDs = append(engineIDs, e)
		}
	}

	opts := genreadings.Options{
		Start:     startTime,
		Days:      *days,
		StepHours: *stepHours,
		Engines:   engineIDs,
		Seed:      *seed,
		Profile:   *profile,
	}
	if *noise >= 0 {
		opts.NoiseOverride = noise
	}
	if *injectFailure {
		opts.Failure = &genreadings.Failure{
			Mode:     *failureMode,
			EngineID: *failureEngine,
			StartDay: *failureStartDay,
			RampDays: *failureRampDays,
			Severity: *failureSeverity,
		}
	}

	rows, err := genreadings.WriteCSV(*out, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		return 1
	}

	fmt.Printf("Generated %s with %d rows\n", *out, rows)
	fmt.Printf("Engines: %s | Days: %d | Step: %dh | Profile: %s | Seed: %d\n",
		strings.Join(engineIDs, ", "), *days, *stepHours, *profile, *seed)
	if opts.Failure != nil {
		f := opts.Failure
		fmt.Printf("Injected failure: mode=%s engine=%s start_day=%d ramp_days=%d severity=%g\n",
			f.Mode, f.EngineID, f.StartDay, f.RampDays, f.Severity)
	}

	return 0
}
