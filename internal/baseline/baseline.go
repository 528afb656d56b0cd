// Package baseline builds per-(engine, param) rolling baseline statistics
// over a trailing time window, preserving engineering limits on each row.
package baseline

import (
	"math"
	"sort"
	"time"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// Options controls the trailing baseline window.
type Options struct {
	// Window is the trailing duration of the baseline window, ending at
	// each row's own timestamp (left-open interval (t-Window, t]).
	Window time.Duration

	// MinPeriods is the minimum number of samples that must fall inside
	// the window before a baseline is defined. Below this the mean/std
	// stay nil, which avoids tiny-sample false positives early in a
	// series.
	MinPeriods int
}

// DefaultOptions matches the production configuration: a 14 day window
// with at least 10 samples.
func DefaultOptions() Options {
	return Options{
		Window:     14 * 24 * time.Hour,
		MinPeriods: 10,
	}
}

// window maintains the samples inside the trailing interval together
// with running sums, so each row costs amortized O(1) instead of a
// rescan of the whole window.
type window struct {
	times  []time.Time
	values []float64
	head   int
	sum    float64
	sumSq  float64
}

func (w *window) push(t time.Time, v float64) {
	w.times = append(w.times, t)
	w.values = append(w.values, v)
	w.sum += v
	w.sumSq += v * v
}

// expire drops samples at or before the left edge of the window.
func (w *window) expire(leftEdge time.Time) {
	for w.head < len(w.times) && !w.times[w.head].After(leftEdge) {
		v := w.values[w.head]
		w.sum -= v
		w.sumSq -= v * v
		w.head++
	}
}

func (w *window) count() int {
	return len(w.values) - w.head
}

// stats returns the window mean and sample standard deviation.
// The variance is clamped at zero: the running sum-of-squares form can
// go slightly negative from floating point cancellation.
func (w *window) stats() (mean, std float64) {
	n := float64(w.count())
	mean = w.sum / n
	if w.count() < 2 {
		return mean, 0
	}
	variance := (w.sumSq - w.sum*w.sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// Compute returns one DriftRow per input Reading with BaselineMean and
// BaselineStd filled from the trailing window of same-(engine, param)
// samples. Rows come back grouped by (engine, param) in first-seen
// order and time-sorted within each group. Empty input yields an empty
// result. Irregular sampling intervals are fine; the window is purely
// time-based.
func Compute(readings []models.Reading, opts Options) []models.DriftRow {
	if len(readings) == 0 {
		return nil
	}
	if opts.Window <= 0 {
		opts = DefaultOptions()
	}
	if opts.MinPeriods < 1 {
		opts.MinPeriods = 1
	}

	groups := make(map[models.GroupKey][]models.Reading)
	var order []models.GroupKey
	for _, r := range readings {
		key := r.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]models.DriftRow, 0, len(readings))
	for _, key := range order {
		g := groups[key]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Timestamp.Before(g[j].Timestamp)
		})

		w := &window{}
		for _, r := range g {
			w.push(r.Timestamp, r.Value)
			w.expire(r.Timestamp.Add(-opts.Window))

			row := models.DriftRow{Reading: r}
			if w.count() >= opts.MinPeriods {
				mean, std := w.stats()
				row.BaselineMean = models.Float64(mean)
				if w.count() >= 2 {
					// a sample std needs at least two observations
					row.BaselineStd = models.Float64(std)
				}
			}
			out = append(out, row)
		}
	}

	return out
}
