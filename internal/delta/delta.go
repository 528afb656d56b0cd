// Package delta compares the current fleet snapshot against the
// persisted one from the previous run and emits a bounded list of
// human-readable change lines.
package delta

import (
	"fmt"
	"sort"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/config"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// FromSummaries projects the fleet summary down to the five persisted
// snapshot fields, sorted by engine_id.
func FromSummaries(summaries []models.EngineSummary) []models.Snapshot {
	out := make([]models.Snapshot, 0, len(summaries))
	for _, s := range summaries {
		snap := models.Snapshot{
			EngineID: s.EngineID,
			Health:   models.Float64(s.Health),
			TopRisk:  s.TopRisk,
			Priority: string(s.Priority),
		}
		if s.EtaDays != nil {
			snap.EtaDays = models.Float64(*s.EtaDays)
		}
		out = append(out, snap)
	}
	sortSnapshots(out)
	return out
}

func priorityRank(p string) int {
	return models.Priority(p).Rank()
}

// ComputeLines produces the executive change bullets between two
// snapshots. Engines are visited in ascending engine-ID order; for each
// engine the checks run in a fixed order (membership, priority, health,
// ETA, top risk) and accumulation stops once rules.MaxDeltaLines lines
// exist. The cap bounds report length, not fairness across engines.
func ComputeLines(prev, curr []models.Snapshot, rules config.DecisionRules) []string {
	maxLines := rules.MaxDeltaLines
	if maxLines <= 0 {
		maxLines = config.DefaultRules().MaxDeltaLines
	}

	if len(prev) == 0 && len(curr) == 0 {
		return []string{"No fleet data available yet."}
	}
	if len(prev) == 0 {
		return []string{"Baseline created (first run). Future reports will highlight changes."}
	}

	prevByID := make(map[string]models.Snapshot, len(prev))
	for _, s := range prev {
		prevByID[s.EngineID] = s
	}
	currByID := make(map[string]models.Snapshot, len(curr))
	for _, s := range curr {
		currByID[s.EngineID] = s
	}

	idSet := make(map[string]struct{}, len(prevByID)+len(currByID))
	for id := range prevByID {
		idSet[id] = struct{}{}
	}
	for id := range currByID {
		idSet[id] = struct{}{}
	}
	engines := make([]string, 0, len(idSet))
	for id := range idSet {
		engines = append(engines, id)
	}
	sort.Strings(engines)

	var lines []string
	for _, eng := range engines {
		was, hadPrev := prevByID[eng]
		now, hasCurr := currByID[eng]

		if !hadPrev && hasCurr {
			lines = append(lines, fmt.Sprintf("%s added to fleet monitoring (priority %s).", eng, now.Priority))
			continue
		}
		if hadPrev && !hasCurr {
			lines = append(lines, fmt.Sprintf("%s removed from fleet monitoring.", eng))
			continue
		}

		wasRank := priorityRank(was.Priority)
		nowRank := priorityRank(now.Priority)
		if nowRank < wasRank {
			lines = append(lines, fmt.Sprintf("%s priority escalated %s -> %s.", eng, was.Priority, now.Priority))
		} else if nowRank > wasRank {
			lines = append(lines, fmt.Sprintf("%s priority reduced %s -> %s.", eng, was.Priority, now.Priority))
		}

		if was.Health != nil && now.Health != nil {
			drop := *was.Health - *now.Health
			if drop >= rules.HealthDropPoints {
				lines = append(lines, fmt.Sprintf("%s health dropped %.1f points (%.1f -> %.1f).",
					eng, drop, *was.Health, *now.Health))
			}
		}

		if was.EtaDays != nil && now.EtaDays != nil {
			compress := *was.EtaDays - *now.EtaDays
			if compress >= rules.ETACompressDays {
				lines = append(lines, fmt.Sprintf("%s time-to-limit compressed %.1fd -> %.1fd.",
					eng, *was.EtaDays, *now.EtaDays))
			}
		}

		if changed := was.TopRisk != now.TopRisk; changed &&
			topRiskKnown(was.TopRisk) && topRiskKnown(now.TopRisk) {
			lines = append(lines, fmt.Sprintf("%s top risk changed %s -> %s.", eng, was.TopRisk, now.TopRisk))
		}

		if len(lines) >= maxLines {
			break
		}
	}

	if len(lines) == 0 {
		return []string{"No material fleet changes detected since last report."}
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

func topRiskKnown(s string) bool {
	return s != "" && s != "N/A"
}
