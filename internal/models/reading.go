package models

import "time"

// Reading is one sensor sample in long format (one param per row).
// Min/Max are engineering limits; nil when the source row carried none.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	EngineID  string    `json:"engine_id"`
	Param     string    `json:"param"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	LoadKW    float64   `json:"load_kw"`
	RPM       float64   `json:"rpm"`
}

// DriftRow is a Reading augmented with baseline statistics and drift signals.
// Nil means "undefined" (insufficient history, zero std, missing limits,
// zero elapsed time) and must never be read as 0.
type DriftRow struct {
	Reading

	// Baseline statistics over the trailing window (nil below min periods)
	BaselineMean *float64 `json:"baseline_mean,omitempty"`
	BaselineStd  *float64 `json:"baseline_std,omitempty"`

	// Drift signals
	Z           *float64 `json:"z,omitempty"`
	LimitPos    *float64 `json:"limit_pos,omitempty"`
	Margin      *float64 `json:"margin_to_nearest_limit,omitempty"`
	SlopePerDay *float64 `json:"slope_per_day,omitempty"`

	// Normalized distance to the nearest limit (0 = at/over a limit),
	// the canonical trend/sparkline source field.
	DistanceToLimit *float64 `json:"distance_to_limit,omitempty"`

	// Fused risk, in [0,1] once AddRiskScore has run.
	RiskScore *float64 `json:"risk_score,omitempty"`
}

// GroupKey identifies one (engine_id, param) series.
type GroupKey struct {
	EngineID string
	Param    string
}

// Key returns the (engine_id, param) grouping key for a row.
func (r Reading) Key() GroupKey {
	return GroupKey{EngineID: r.EngineID, Param: r.Param}
}

// Float64 returns a pointer to v. Convenience for optional fields.
func Float64(v float64) *float64 {
	return &v
}
