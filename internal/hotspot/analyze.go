package hotspot

import (
	"math"

	"github.com/stephenreynolds/flamegraph-ai/internal/speedscope"
)

// Summary is the ranked result of analyzing one trace document.
type Summary struct {
	Hotspots     []Hotspot `json:"hotspots"`
	TotalSamples int64     `json:"totalSamples"`
	ProfileCount int       `json:"profileCount"`
}

// Analyze validates a decoded Speedscope-style document, accumulates
// inclusive and exclusive time per frame across every profile entry and
// returns the ranked hotspot summary.
//
// Analyze owns the frame table and metrics it builds and keeps no state
// between calls, so it is safe to call from concurrent goroutines.
func Analyze(raw interface{}) (*Summary, error) {
	shared, profiles, err := validateDocument(raw)
	if err != nil {
		return nil, err
	}
	metrics := make([]frameMetrics, len(shared.Frames))
	var grandTotal float64
	for i, rawProfile := range profiles {
		entry, ok := rawProfile.(map[string]interface{})
		if !ok {
			return nil, validationErrorf(KindMalformedDocument, "profile %d is not an object", i)
		}
		profileType, _ := entry["type"].(string)
		var observed float64
		switch speedscope.ProfileType(profileType) {
		case speedscope.ProfileTypeSampled:
			observed, err = aggregateSampled(i, entry, metrics)
		case speedscope.ProfileTypeEvented:
			observed, err = replayEvented(i, entry, metrics)
		default:
			err = validationErrorf(KindUnsupportedProfileType,
				"profile %d has unsupported type %q", i, profileType)
		}
		if err != nil {
			return nil, err
		}
		grandTotal += observed
	}
	hotspots, err := rankHotspots(shared.Frames, metrics, grandTotal)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Hotspots:     hotspots,
		TotalSamples: int64(math.Round(grandTotal)),
		ProfileCount: len(profiles),
	}, nil
}
