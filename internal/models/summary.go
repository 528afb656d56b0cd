package models

// Priority is the operational urgency tier of an engine.
type Priority string

const (
	PriorityHigh Priority = "HIGH"
	PriorityMed  Priority = "MED"
	PriorityLow  Priority = "LOW"
)

// Rank returns the urgency rank of a priority; lower is more urgent.
// Unknown labels rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMed:
		return 1
	case PriorityLow:
		return 2
	default:
		return 9
	}
}

// ParamRisk is one ranked row of a top-risks table: the worst observed
// risk for one (engine, param) series plus time-to-limit estimates from
// its most recent sample.
type ParamRisk struct {
	EngineID     string   `json:"engine_id"`
	Param        string   `json:"param"`
	MaxRisk      float64  `json:"max_risk"`
	Direction    string   `json:"direction"`
	EtaToMinDays *float64 `json:"eta_to_min_days,omitempty"`
	EtaToMaxDays *float64 `json:"eta_to_max_days,omitempty"`
}

// Travel direction labels for ParamRisk.Direction.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// EngineSummary is one fleet table row for one engine.
type EngineSummary struct {
	EngineID string    `json:"engine_id"`
	Health   float64   `json:"health"`
	TopRisk  string    `json:"top_risk"`
	EtaDays  *float64  `json:"eta_days,omitempty"`
	Priority Priority  `json:"priority"`
	Reason   string    `json:"reason"`
	Action   string    `json:"action"`
	Trend    []float64 `json:"trend"`
}

// Snapshot is the persisted per-engine projection of an EngineSummary,
// the only state carried between runs.
type Snapshot struct {
	EngineID string   `json:"engine_id"`
	Health   *float64 `json:"health,omitempty"`
	TopRisk  string   `json:"top_risk"`
	EtaDays  *float64 `json:"eta_days,omitempty"`
	Priority string   `json:"priority"`
}
