// Package drift derives deviation, limit-proximity and rate-of-change
// signals from baselined rows. Each transform accepts and returns the
// same row slice shape and is a no-op on empty input, so the stages
// compose freely.
package drift

import (
	"math"
	"sort"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// DefaultSlopeWindowPoints is the sample count of the local slope
// window: each row is compared against the row windowPoints-1 positions
// earlier in its series.
const DefaultSlopeWindowPoints = 3

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AddZScore fills Z = (value - baseline_mean) / baseline_std.
// Z stays nil when the baseline is undefined or the std is zero; a zero
// std is never substituted with a nominal value.
func AddZScore(rows []models.DriftRow) []models.DriftRow {
	if len(rows) == 0 {
		return nil
	}

	out := make([]models.DriftRow, len(rows))
	copy(out, rows)
	for i := range out {
		r := &out[i]
		if r.BaselineMean == nil || r.BaselineStd == nil || *r.BaselineStd == 0 {
			continue
		}
		r.Z = models.Float64((r.Value - *r.BaselineMean) / *r.BaselineStd)
	}
	return out
}

// AddLimitProximity fills LimitPos, Margin and DistanceToLimit from the
// engineering limits. All three stay nil when either limit is missing
// or the span is degenerate (max == min).
//
// LimitPos is the value's position inside [min, max] normalized to
// [0, 1]. Margin is the distance from the nearest edge in normalized
// units, in [0, 0.5]: 0 means at or beyond a limit, 0.5 means exactly
// centered. DistanceToLimit is the raw engineering-unit distance to the
// nearest limit divided by the span, clipped to [0, 1]; it is the
// canonical per-row trend source.
func AddLimitProximity(rows []models.DriftRow) []models.DriftRow {
	if len(rows) == 0 {
		return nil
	}

	out := make([]models.DriftRow, len(rows))
	copy(out, rows)
	for i := range out {
		r := &out[i]
		if r.Min == nil || r.Max == nil {
			continue
		}
		span := *r.Max - *r.Min
		if span == 0 {
			continue
		}

		pos := (r.Value - *r.Min) / span
		r.LimitPos = models.Float64(pos)
		r.Margin = models.Float64(clip(0.5-math.Abs(pos-0.5), 0, 0.5))

		dist := math.Min(math.Abs(r.Value-*r.Min), math.Abs(*r.Max-r.Value))
		r.DistanceToLimit = models.Float64(clip(dist/span, 0, 1))
	}
	return out
}

// AddSlopePerDay fills SlopePerDay with a discrete local derivative:
// within each time-ordered (engine, param) series, each row's value is
// compared against the value windowPoints-1 rows earlier, divided by
// the elapsed days between the two timestamps. The window is
// deliberately short to stay responsive to recent inflections.
// The slope stays nil for rows without a look-back partner or when the
// elapsed time is zero.
func AddSlopePerDay(rows []models.DriftRow, windowPoints int) []models.DriftRow {
	if len(rows) == 0 {
		return nil
	}
	if windowPoints < 2 {
		windowPoints = DefaultSlopeWindowPoints
	}
	lookback := windowPoints - 1

	out := make([]models.DriftRow, len(rows))
	copy(out, rows)

	groups := make(map[models.GroupKey][]int)
	var order []models.GroupKey
	for i, r := range out {
		key := r.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		idx := groups[key]
		sort.SliceStable(idx, func(a, b int) bool {
			return out[idx[a]].Timestamp.Before(out[idx[b]].Timestamp)
		})

		for pos := lookback; pos < len(idx); pos++ {
			cur := &out[idx[pos]]
			prev := out[idx[pos-lookback]]

			days := cur.Timestamp.Sub(prev.Timestamp).Hours() / 24.0
			if days == 0 {
				continue
			}
			cur.SlopePerDay = models.Float64((cur.Value - prev.Value) / days)
		}
	}

	return out
}
