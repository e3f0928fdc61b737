package journal

import (
	"cmp"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DwellStat summarises how long the viewport stayed in one breakpoint.
type DwellStat struct {
	Breakpoint string
	Count      int
	Total      time.Duration
	Mean       time.Duration
	StdDev     time.Duration
	Max        time.Duration
}

// Dwell computes per-breakpoint dwell times over every session. A dwell
// period runs from the notification that made a breakpoint active to the
// next notification in the same session; crossings from one notification
// share a timestamp and only the last of them opens a period.
func (j *Journal) Dwell() ([]DwellStat, error) {
	sessions, err := j.Sessions()
	if err != nil {
		return nil, err
	}

	samples := make(map[string][]float64)
	for _, s := range sessions {
		entries, err := j.SessionEntries(s)
		if err != nil {
			return nil, err
		}
		for bp, secs := range dwellSamples(entries) {
			samples[bp] = append(samples[bp], secs...)
		}
	}

	out := make([]DwellStat, 0, len(samples))
	for bp, xs := range samples {
		out = append(out, summarise(bp, xs))
	}
	slices.SortFunc(out, func(a, b DwellStat) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Breakpoint, b.Breakpoint)
	})
	return out, nil
}

func dwellSamples(entries []Entry) map[string][]float64 {
	out := make(map[string][]float64)
	for i := 0; i+1 < len(entries); i++ {
		d := entries[i+1].CreatedAt.Sub(entries[i].CreatedAt)
		if d <= 0 {
			continue
		}
		bp := entries[i].Active
		out[bp] = append(out[bp], d.Seconds())
	}
	return out
}

func summarise(bp string, xs []float64) DwellStat {
	s := DwellStat{
		Breakpoint: bp,
		Count:      len(xs),
		Total:      seconds(floats.Sum(xs)),
		Mean:       seconds(stat.Mean(xs, nil)),
		Max:        seconds(floats.Max(xs)),
	}
	if len(xs) > 1 {
		s.StdDev = seconds(stat.StdDev(xs, nil))
	}
	return s
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
