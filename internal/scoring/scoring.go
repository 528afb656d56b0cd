// Package scoring fuses drift signals into a bounded per-row risk
// score, per-engine health, and a ranked top-risks table with
// time-to-limit estimates.
package scoring

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// Risk fusion weights. Deviation dominates; limit proximity and rate of
// change refine it.
const (
	WeightZ     = 0.55
	WeightLimit = 0.30
	WeightSlope = 0.15
)

// MaxEtaDays is the guardrail on constant-slope extrapolation: an ETA
// beyond this many days is discarded as unreliable rather than reported
// as an enormous number.
const MaxEtaDays = 365.0

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// median of a sorted slice, averaging the middle pair on even counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// AddRiskScore fuses three normalized sub-risks into RiskScore on every
// row:
//
//	z_risk     = clip(|z| / 3, 0, 1)            (3-sigma saturates)
//	limit_risk = clip((0.5 - margin) / 0.5, 0, 1)
//	slope_risk = clip(|slope| / (3 * group median |slope|), 0, 1)
//
// The slope scale is each (engine, param) series' own median absolute
// slope, so slope risk is relative to that parameter's typical movement
// rather than an absolute physical unit. When the median is zero the
// scale falls back to 1.0 for compatibility with the historical
// behavior; that leaves a never-moving parameter measured in absolute
// units, which is a known inconsistency, not a pattern to extend.
//
// Undefined sub-signals contribute 0 to the weighted sum, so a
// parameter lacking limits still accrues full deviation risk. The
// fused score is always in [0, 1].
func AddRiskScore(rows []models.DriftRow) []models.DriftRow {
	if len(rows) == 0 {
		return nil
	}

	out := make([]models.DriftRow, len(rows))
	copy(out, rows)

	slopeScale := make(map[models.GroupKey]float64)
	groupSlopes := make(map[models.GroupKey][]float64)
	for _, r := range out {
		if r.SlopePerDay != nil {
			key := r.Key()
			groupSlopes[key] = append(groupSlopes[key], math.Abs(*r.SlopePerDay))
		}
	}
	for key, slopes := range groupSlopes {
		sort.Float64s(slopes)
		scale := median(slopes)
		if scale == 0 {
			scale = 1.0
		}
		slopeScale[key] = scale
	}

	for i := range out {
		r := &out[i]

		zRisk := 0.0
		if r.Z != nil {
			zRisk = clip(math.Abs(*r.Z)/3.0, 0, 1)
		}

		limitRisk := 0.0
		if r.Margin != nil {
			limitRisk = clip((0.5-*r.Margin)/0.5, 0, 1)
		}

		slopeRisk := 0.0
		if r.SlopePerDay != nil {
			scale := slopeScale[r.Key()]
			slopeRisk = clip(math.Abs(*r.SlopePerDay)/(3.0*scale), 0, 1)
		}

		r.RiskScore = models.Float64(WeightZ*zRisk + WeightLimit*limitRisk + WeightSlope*slopeRisk)
	}

	return out
}

// HealthScore reduces all of one engine's rows to a 0-100 health value:
// 100 minus the mean risk scaled to at most 80 penalty points, rounded
// to one decimal. The penalty cap keeps a single saturated parameter
// from driving health to zero; the floor is therefore 20. Rows without
// a risk score are ignored, and an empty slice scores a perfect 100.
func HealthScore(rows []models.DriftRow) float64 {
	var risks []float64
	for _, r := range rows {
		if r.RiskScore != nil {
			risks = append(risks, *r.RiskScore)
		}
	}
	if len(risks) == 0 {
		return 100.0
	}

	penalty := clip(stat.Mean(risks, nil)*80.0, 0, 80)
	return round1(100.0 - penalty)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// etaDays estimates days until value reaches limit under constant
// slope. Nil when the slope is zero, the crossing lies in the past
// (negative ETA), or the extrapolation exceeds MaxEtaDays.
func etaDays(value, limit, slopePerDay float64) *float64 {
	if slopePerDay == 0 {
		return nil
	}
	eta := (limit - value) / slopePerDay
	if math.IsNaN(eta) || eta < 0 || eta > MaxEtaDays {
		return nil
	}
	return models.Float64(eta)
}

// TopRisks ranks (engine, param) series by their maximum observed risk
// score, descending, truncated to topN. Direction and the two
// time-to-limit estimates come from each series' most recent row. Empty
// input or topN <= 0 yields an empty table.
func TopRisks(rows []models.DriftRow, topN int) []models.ParamRisk {
	if len(rows) == 0 || topN <= 0 {
		return nil
	}

	maxRisk := make(map[models.GroupKey]float64)
	latest := make(map[models.GroupKey]models.DriftRow)
	var order []models.GroupKey

	for _, r := range rows {
		key := r.Key()
		if _, ok := latest[key]; !ok {
			order = append(order, key)
			latest[key] = r
		} else if !r.Timestamp.Before(latest[key].Timestamp) {
			latest[key] = r
		}
		if r.RiskScore != nil && *r.RiskScore > maxRisk[key] {
			maxRisk[key] = *r.RiskScore
		}
	}

	out := make([]models.ParamRisk, 0, len(order))
	for _, key := range order {
		last := latest[key]

		direction := models.DirectionFlat
		var slope float64
		if last.SlopePerDay != nil {
			slope = *last.SlopePerDay
			switch {
			case slope > 0:
				direction = models.DirectionUp
			case slope < 0:
				direction = models.DirectionDown
			}
		}

		pr := models.ParamRisk{
			EngineID:  key.EngineID,
			Param:     key.Param,
			MaxRisk:   maxRisk[key],
			Direction: direction,
		}
		if last.SlopePerDay != nil {
			if last.Min != nil {
				pr.EtaToMinDays = etaDays(last.Value, *last.Min, slope)
			}
			if last.Max != nil {
				pr.EtaToMaxDays = etaDays(last.Value, *last.Max, slope)
			}
		}
		out = append(out, pr)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaxRisk > out[j].MaxRisk
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
