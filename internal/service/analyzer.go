// Package service wires the pipeline stages into one batch analysis
// run: ingest, baseline, drift, risk, fleet ranking, snapshot delta,
// and report output.
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/baseline"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/config"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/delta"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/drift"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/fleet"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/ingest"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/report"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/scoring"
)

// Analyzer runs one batch drift analysis per invocation. It holds no
// state across runs; the snapshot store is the only memory between
// invocations.
type Analyzer struct {
	cfg    config.Config
	store  delta.SnapshotStore
	logger *zap.Logger
}

// Result is everything one run produced, for callers that want the
// outcome without re-reading the report files.
type Result struct {
	Fleet      []models.EngineSummary
	Verdict    string
	DeltaLines []string
	FocusID    string
	FocusScore float64
	FocusRisks []models.ParamRisk
	Issues     []string
}

func NewAnalyzer(cfg config.Config, store delta.SnapshotStore, logger *zap.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, store: store, logger: logger}
}

// Run executes the full pipeline once. The new snapshot is persisted
// strictly after the delta against the previous one has been computed.
func (a *Analyzer) Run() (*Result, error) {
	cfg := a.cfg
	rules := cfg.Rules()

	ing, err := ingest.LoadReadingsCSV(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}
	for _, issue := range ing.Issues {
		a.logger.Warn("ingestion issue", zap.String("issue", issue))
	}
	if len(ing.Rows) == 0 {
		return nil, fmt.Errorf("no data loaded from %s", cfg.Input)
	}
	a.logger.Info("readings loaded",
		zap.String("input", cfg.Input),
		zap.Int("rows", len(ing.Rows)),
	)

	rows := a.buildDriftTable(ing.Rows)

	summaries := fleet.Summary(rows, rules)
	verdict := fleet.Verdict(summaries)
	a.logger.Info("fleet summarized",
		zap.Int("engines", len(summaries)),
		zap.String("verdict", verdict),
	)

	deltaLines, err := a.computeDelta(summaries, rules)
	if err != nil {
		return nil, err
	}

	focusID, focusScore, focusRisks := a.focus(rows, summaries)

	result := &Result{
		Fleet:      summaries,
		Verdict:    verdict,
		DeltaLines: deltaLines,
		FocusID:    focusID,
		FocusScore: focusScore,
		FocusRisks: focusRisks,
		Issues:     ing.Issues,
	}

	if err := a.writeReports(result, ing.Rows); err != nil {
		return nil, err
	}

	return result, nil
}

// buildDriftTable runs stages 1-3 over the full reading set.
func (a *Analyzer) buildDriftTable(readings []models.Reading) []models.DriftRow {
	rows := baseline.Compute(readings, baseline.DefaultOptions())
	rows = drift.AddZScore(rows)
	rows = drift.AddLimitProximity(rows)
	rows = drift.AddSlopePerDay(rows, drift.DefaultSlopeWindowPoints)
	rows = scoring.AddRiskScore(rows)
	return rows
}

// computeDelta loads the previous snapshot, diffs, then saves the new
// one. Ordering matters: saving first would make every run report "no
// change".
func (a *Analyzer) computeDelta(summaries []models.EngineSummary, rules config.DecisionRules) ([]string, error) {
	prev, found, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		a.logger.Info("no prior snapshot, treating as first run")
	}

	curr := delta.FromSummaries(summaries)
	lines := delta.ComputeLines(prev, curr, rules)

	if err := a.store.Save(curr); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	a.logger.Info("snapshot persisted", zap.Int("engines", len(curr)))

	return lines, nil
}

// focus picks the drill-down engine: the configured one, or the first
// (highest priority, worst health) row of the ranked summary.
func (a *Analyzer) focus(rows []models.DriftRow, summaries []models.EngineSummary) (string, float64, []models.ParamRisk) {
	focusID := a.cfg.Engine
	if focusID == "" && len(summaries) > 0 {
		focusID = summaries[0].EngineID
	}
	if focusID == "" && len(rows) > 0 {
		focusID = rows[0].EngineID
	}

	var slice []models.DriftRow
	for _, r := range rows {
		if r.EngineID == focusID {
			slice = append(slice, r)
		}
	}

	topN := a.cfg.TopN
	if topN <= 0 {
		topN = 5
	}

	if len(slice) == 0 {
		a.logger.Warn("focus engine has no rows", zap.String("engine", focusID))
		return focusID, scoring.HealthScore(nil), nil
	}
	return focusID, scoring.HealthScore(slice), scoring.TopRisks(slice, topN)
}

func (a *Analyzer) writeReports(result *Result, readings []models.Reading) error {
	payload := report.Payload{
		Meta: report.Meta{
			ReportID:        uuid.NewString(),
			GeneratedAt:     time.Now().Format("2006-01-02 15:04"),
			Coverage:        coverageLine(readings),
			DecisionVersion: config.DecisionVersion,
			RunConfig: map[string]string{
				"input":        a.cfg.Input,
				"snapshot":     a.cfg.Snapshot,
				"health_drop":  fmt.Sprintf("%g", a.cfg.HealthDrop),
				"eta_compress": fmt.Sprintf("%g", a.cfg.ETACompress),
			},
		},
		Fleet: report.Fleet{
			Verdict: result.Verdict,
			Delta:   result.DeltaLines,
			Table:   result.Fleet,
		},
		Focus: report.Focus{
			EngineID:    result.FocusID,
			HealthScore: result.FocusScore,
			Risks:       result.FocusRisks,
		},
		Notes: result.Issues,
	}

	if a.cfg.Out != "" {
		if err := report.WriteExcel(a.cfg.Out, payload); err != nil {
			return fmt.Errorf("write excel report: %w", err)
		}
		a.logger.Info("report written", zap.String("path", a.cfg.Out))
	}
	if a.cfg.JSONOut != "" {
		if err := report.WriteJSON(a.cfg.JSONOut, payload); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
		a.logger.Info("json report written", zap.String("path", a.cfg.JSONOut))
	}
	return nil
}

// coverageLine summarizes the analyzed date range, sample count and
// engine count for the report header.
func coverageLine(readings []models.Reading) string {
	if len(readings) == 0 {
		return "Coverage: N/A"
	}

	minTS, maxTS := readings[0].Timestamp, readings[0].Timestamp
	engines := make(map[string]struct{})
	for _, r := range readings {
		if r.Timestamp.Before(minTS) {
			minTS = r.Timestamp
		}
		if r.Timestamp.After(maxTS) {
			maxTS = r.Timestamp
		}
		engines[r.EngineID] = struct{}{}
	}

	return fmt.Sprintf("Coverage: %s -> %s | Samples: %d | Engines: %d",
		minTS.Format("2006-01-02"), maxTS.Format("2006-01-02"), len(readings), len(engines))
}
