// Command axiomiq runs one batch of fleet drift analytics: it ingests
// a readings CSV, scores every engine, diffs against the previous
// run's snapshot, and writes the operator reports.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/config"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/delta"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/logger"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defaults := config.Default()

	fs := flag.NewFlagSet("axiomiq", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional YAML config file")
	input := fs.String("input", defaults.Input, "Path to readings CSV")
	out := fs.String("out", defaults.Out, "Output XLSX report path (empty to skip)")
	jsonOut := fs.String("json-out", defaults.JSONOut, "Output JSON report path (empty to skip)")
	snapshot := fs.String("snapshot", defaults.Snapshot, "Snapshot CSV path for change tracking")
	engine := fs.String("engine", defaults.Engine, "Force focus engine_id (default: highest priority)")
	topN := fs.Int("top-n", defaults.TopN, "Focus risk table length")
	healthDrop := fs.Float64("health-drop", defaults.HealthDrop, "Delta trigger: health drop points")
	etaCompress := fs.Float64("eta-compress", defaults.ETACompress, "Delta trigger: ETA compression in days")
	logLevel := fs.String("log-level", defaults.Log.Level, "Log level: debug/info/warn/error")
	logFormat := fs.String("log-format", defaults.Log.Format, "Log format: json/console")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := defaults
	if *configPath != "" {
		fileCfg, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			return 1
		}
		cfg = fileCfg
	}

	// explicit flags win over the config file
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["input"] {
		cfg.Input = *input
	}
	if set["out"] {
		cfg.Out = *out
	}
	if set["json-out"] {
		cfg.JSONOut = *jsonOut
	}
	if set["snapshot"] {
		cfg.Snapshot = *snapshot
	}
	if set["engine"] {
		cfg.Engine = *engine
	}
	if set["top-n"] {
		cfg.TopN = *topN
	}
	if set["health-drop"] {
		cfg.HealthDrop = *healthDrop
	}
	if set["eta-compress"] {
		cfg.ETACompress = *etaCompress
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = *logFormat
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "axiomiq")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	analyzer := service.NewAnalyzer(cfg, delta.NewFileStore(cfg.Snapshot), log)

	result, err := analyzer.Run()
	if err != nil {
		log.Error("analysis run failed", zap.Error(err))
		return 1
	}

	if cfg.Out != "" {
		fmt.Printf("Report generated: %s\n", cfg.Out)
	}
	fmt.Printf("Snapshot saved:  %s\n", cfg.Snapshot)
	fmt.Printf("Fleet Verdict:   %s\n", result.Verdict)
	fmt.Printf("Focus engine:    %s | Health Score: %.1f\n", result.FocusID, result.FocusScore)
	if len(result.DeltaLines) > 0 {
		fmt.Println("Key Changes:")
		for _, line := range result.DeltaLines {
			fmt.Printf(" - %s\n", line)
		}
	}

	return 0
}
