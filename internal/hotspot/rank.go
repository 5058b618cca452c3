package hotspot

import (
	"math"
	"sort"

	"github.com/stephenreynolds/flamegraph-ai/internal/speedscope"
)

// Fixed score weighting, kept for compatibility with existing reports.
const (
	inclusiveScoreWeight = 0.6
	exclusiveScoreWeight = 0.4
)

type (
	// Hotspot is one ranked entry of a Summary.
	Hotspot struct {
		Name         string  `json:"name"`
		File         string  `json:"file"`
		SelfTimeMs   float64 `json:"selfTimeMs"`
		TotalTimeMs  float64 `json:"totalTimeMs"`
		SampleCount  int     `json:"sampleCount"`
		InclusivePct float64 `json:"inclusivePct"`
		ExclusivePct float64 `json:"exclusivePct"`
		Rank         int     `json:"rank"`
	}

	// frameMetrics accumulates time attribution for a single frame of the
	// shared table. The analyzer owns one dense arena of these, indexed by
	// validated frame index, for the duration of a single call.
	frameMetrics struct {
		selfTime    float64
		totalTime   float64
		sampleCount int
	}

	scoredHotspot struct {
		hotspot Hotspot
		score   float64
	}
)

// rankHotspots normalizes the accumulated metrics into percentages of the
// grand total, orders them by composite score and assigns dense 1-based
// ranks. Frames that were never observed are dropped.
func rankHotspots(frames []speedscope.Frame, metrics []frameMetrics, grandTotal float64) ([]Hotspot, error) {
	if grandTotal <= 0 {
		return nil, validationErrorf(KindNoMeasurableActivity,
			"no measurable activity found in any profile")
	}
	candidates := make([]scoredHotspot, 0, len(metrics))
	for i, m := range metrics {
		if m.totalTime == 0 && m.selfTime == 0 {
			continue
		}
		inclusivePct := round2(m.totalTime / grandTotal * 100)
		exclusivePct := round2(m.selfTime / grandTotal * 100)
		candidates = append(candidates, scoredHotspot{
			hotspot: Hotspot{
				Name:         frames[i].Name,
				File:         frames[i].File,
				SelfTimeMs:   round3(m.selfTime),
				TotalTimeMs:  round3(m.totalTime),
				SampleCount:  m.sampleCount,
				InclusivePct: inclusivePct,
				ExclusivePct: exclusivePct,
			},
			score: inclusivePct*inclusiveScoreWeight + exclusivePct*exclusiveScoreWeight,
		})
	}
	// Candidates are built in frame table order, so a stable sort keeps the
	// document-declared order as the tie-break between equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	hotspots := make([]Hotspot, len(candidates))
	for i, candidate := range candidates {
		candidate.hotspot.Rank = i + 1
		hotspots[i] = candidate.hotspot
	}
	return hotspots, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
