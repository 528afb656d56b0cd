// Package fleet reduces the full drift table to one summary row per
// engine and a fleet-wide narrative verdict, ranked by operational
// urgency.
package fleet

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/config"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/scoring"
)

// Recommended action texts per urgency.
const (
	ActionHigh = "Inspect <72h"
	ActionMed  = "Sched next maint"
	ActionLow  = "Monitor (30d)"
)

// TrendPoints bounds the sparkline series length per engine.
const TrendPoints = 120

// NearestEta returns the smaller of the two limit ETAs, ignoring
// undefined ones. Nil when neither is defined.
func NearestEta(r models.ParamRisk) *float64 {
	switch {
	case r.EtaToMinDays != nil && r.EtaToMaxDays != nil:
		if *r.EtaToMinDays <= *r.EtaToMaxDays {
			return r.EtaToMinDays
		}
		return r.EtaToMaxDays
	case r.EtaToMinDays != nil:
		return r.EtaToMinDays
	default:
		return r.EtaToMaxDays
	}
}

// PriorityLabel maps (health, eta) to a tier. It is a pure function of
// its inputs: ETA drives the tier when defined, health is the fallback.
func PriorityLabel(health float64, etaDays *float64, rules config.DecisionRules) models.Priority {
	if etaDays != nil {
		if *etaDays <= rules.HighPriorityETADays {
			return models.PriorityHigh
		}
		if *etaDays <= rules.MedPriorityETADays {
			return models.PriorityMed
		}
		return models.PriorityLow
	}
	if health < rules.MedPriorityHealthBelow {
		return models.PriorityMed
	}
	return models.PriorityLow
}

func priorityReason(health float64, etaDays *float64, topRisk string, rules config.DecisionRules) string {
	if etaDays != nil {
		return fmt.Sprintf("ETA %.1fd to limit (%s).", *etaDays, topRisk)
	}
	if health < rules.MedPriorityHealthBelow {
		return fmt.Sprintf("Health %.1f (<%.0f) and ETA unavailable; schedule inspection (%s).",
			health, rules.MedPriorityHealthBelow, topRisk)
	}
	return fmt.Sprintf("ETA unavailable; monitor (%s).", topRisk)
}

// RecommendedAction maps a tier to its action text. An ETA at or below
// the urgent cutoff escalates to the urgent action regardless of tier.
func RecommendedAction(priority models.Priority, etaDays *float64, rules config.DecisionRules) string {
	if etaDays != nil && *etaDays <= rules.UrgentActionETADays {
		return ActionHigh
	}
	switch priority {
	case models.PriorityHigh:
		return ActionHigh
	case models.PriorityMed:
		return ActionMed
	default:
		return ActionLow
	}
}

// trendSeries collects the last up to n chronologically ordered
// normalized distance-to-limit values for one parameter of one engine.
// Rows without a defined distance are skipped.
func trendSeries(rows []models.DriftRow, param string, n int) []float64 {
	var matched []models.DriftRow
	for _, r := range rows {
		if r.Param == param {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	if len(matched) > n {
		matched = matched[len(matched)-n:]
	}

	var out []float64
	for _, r := range matched {
		if r.DistanceToLimit != nil {
			out = append(out, *r.DistanceToLimit)
		}
	}
	return out
}

// Summary builds one EngineSummary per engine from the fully scored
// drift table, ranked HIGH before MED before LOW and by ascending
// health inside a tier (worse first). Empty input yields an empty
// summary.
func Summary(rows []models.DriftRow, rules config.DecisionRules) []models.EngineSummary {
	if len(rows) == 0 {
		return nil
	}

	engineRows := make(map[string][]models.DriftRow)
	var engines []string
	for _, r := range rows {
		if _, ok := engineRows[r.EngineID]; !ok {
			engines = append(engines, r.EngineID)
		}
		engineRows[r.EngineID] = append(engineRows[r.EngineID], r)
	}

	out := make([]models.EngineSummary, 0, len(engines))
	for _, engineID := range engines {
		slice := engineRows[engineID]

		health := scoring.HealthScore(slice)

		topRisk := "N/A"
		var eta *float64
		if risks := scoring.TopRisks(slice, 1); len(risks) > 0 {
			topRisk = risks[0].Param
			if nearest := NearestEta(risks[0]); nearest != nil {
				eta = models.Float64(round1(*nearest))
			}
		}

		priority := PriorityLabel(health, eta, rules)

		out = append(out, models.EngineSummary{
			EngineID: engineID,
			Health:   health,
			TopRisk:  topRisk,
			EtaDays:  eta,
			Priority: priority,
			Reason:   priorityReason(health, eta, topRisk, rules),
			Action:   RecommendedAction(priority, eta, rules),
			Trend:    trendSeries(slice, topRisk, TrendPoints),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		}
		return out[i].Health < out[j].Health
	})

	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Verdict turns the ranked summary into a short narrative paragraph,
// one sentence per non-empty tier.
func Verdict(summaries []models.EngineSummary) string {
	if len(summaries) == 0 {
		return "No fleet data available."
	}

	byTier := make(map[models.Priority][]string)
	for _, s := range summaries {
		byTier[s.Priority] = append(byTier[s.Priority], s.EngineID)
	}

	var parts []string
	if high := byTier[models.PriorityHigh]; len(high) > 0 {
		parts = append(parts, fmt.Sprintf("%s requires inspection within 72 hours due to near-term drift",
			strings.Join(high, ", ")))
	}
	if med := byTier[models.PriorityMed]; len(med) > 0 {
		parts = append(parts, fmt.Sprintf("%s shows degradation and should be scheduled for inspection",
			strings.Join(med, ", ")))
	}
	if low := byTier[models.PriorityLow]; len(low) > 0 {
		parts = append(parts, fmt.Sprintf("%s remains healthy", strings.Join(low, ", ")))
	}

	return strings.Join(parts, ". ") + "."
}
