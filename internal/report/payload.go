// Package report renders the analysis results to machine-readable JSON
// and an operator-facing Excel workbook.
package report

import "github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"

// Meta describes one report run.
type Meta struct {
	SchemaVersion   string            `json:"schema_version"`
	ReportID        string            `json:"report_id"`
	GeneratedAt     string            `json:"generated_at"`
	Coverage        string            `json:"coverage"`
	DecisionVersion string            `json:"decision_version"`
	RunConfig       map[string]string `json:"run_config"`
}

// Fleet is the fleet-wide section of a report.
type Fleet struct {
	Verdict string                 `json:"verdict"`
	Delta   []string               `json:"delta"`
	Table   []models.EngineSummary `json:"table"`
}

// Focus is the single-engine drill-down section of a report.
type Focus struct {
	EngineID    string             `json:"engine_id"`
	HealthScore float64            `json:"health_score"`
	Risks       []models.ParamRisk `json:"risks"`
}

// Payload is everything a report writer needs for one run.
type Payload struct {
	Meta  Meta     `json:"meta"`
	Fleet Fleet    `json:"fleet"`
	Focus Focus    `json:"focus"`
	Notes []string `json:"notes"`
}
