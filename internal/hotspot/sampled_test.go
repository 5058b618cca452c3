package hotspot

import (
	"errors"
	"testing"

	"github.com/stephenreynolds/flamegraph-ai/internal/testutil"
)

func frameList(names ...string) []interface{} {
	frames := make([]interface{}, 0, len(names))
	for _, name := range names {
		frames = append(frames, map[string]interface{}{
			"name": name,
			"file": name + ".js",
		})
	}
	return frames
}

func traceDocument(frames []interface{}, profiles ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"shared": map[string]interface{}{
			"frames": frames,
		},
		"profiles": profiles,
	}
}

func stack(indices ...float64) []interface{} {
	s := make([]interface{}, 0, len(indices))
	for _, index := range indices {
		s = append(s, index)
	}
	return s
}

func sampledProfile(samples []interface{}, weights []interface{}) map[string]interface{} {
	p := map[string]interface{}{
		"type":    "sampled",
		"samples": samples,
	}
	if weights != nil {
		p["weights"] = weights
	}
	return p
}

func TestAnalyzeSampledProfile(t *testing.T) {
	doc := traceDocument(
		frameList("root", "render", "diff"),
		sampledProfile(
			[]interface{}{
				stack(0, 1),
				stack(0, 1),
				stack(0, 2),
				stack(0, 1),
			},
			[]interface{}{5.0, 3.0, 2.0, 4.0},
		),
	)

	summary, err := Analyze(doc)
	if err != nil {
		t.Fatalf("expected a valid summary: %v", err)
	}

	want := &Summary{
		Hotspots: []Hotspot{
			{
				Name:         "render",
				File:         "render.js",
				SelfTimeMs:   12,
				TotalTimeMs:  12,
				SampleCount:  3,
				InclusivePct: 85.71,
				ExclusivePct: 85.71,
				Rank:         1,
			},
			{
				Name:         "root",
				File:         "root.js",
				SelfTimeMs:   0,
				TotalTimeMs:  14,
				SampleCount:  4,
				InclusivePct: 100,
				ExclusivePct: 0,
				Rank:         2,
			},
			{
				Name:         "diff",
				File:         "diff.js",
				SelfTimeMs:   2,
				TotalTimeMs:  2,
				SampleCount:  1,
				InclusivePct: 14.29,
				ExclusivePct: 14.29,
				Rank:         3,
			},
		},
		TotalSamples: 14,
		ProfileCount: 1,
	}
	if diff := testutil.Diff(summary, want); diff != "" {
		t.Fatalf("summary mismatch: %v", diff)
	}
}

func TestAnalyzeSampledProfileImplicitWeights(t *testing.T) {
	doc := traceDocument(
		frameList("main", "parse"),
		sampledProfile(
			[]interface{}{
				stack(0, 1),
				stack(0),
				stack(0, 1),
			},
			nil,
		),
	)

	summary, err := Analyze(doc)
	if err != nil {
		t.Fatalf("expected a valid summary: %v", err)
	}
	if summary.TotalSamples != 3 {
		t.Fatalf("each sample should weigh 1: got %d", summary.TotalSamples)
	}
	if summary.Hotspots[0].Name != "main" || summary.Hotspots[0].InclusivePct != 100 {
		t.Fatalf("main is on every stack and should lead with 100%%: %+v", summary.Hotspots[0])
	}
}

func TestAnalyzeSampledProfileSkipsMalformedSamples(t *testing.T) {
	doc := traceDocument(
		frameList("main"),
		sampledProfile(
			[]interface{}{
				stack(0),
				"not a stack",
				[]interface{}{},
				stack(0),
			},
			nil,
		),
	)

	summary, err := Analyze(doc)
	if err != nil {
		t.Fatalf("malformed samples are skipped, not fatal: %v", err)
	}
	if summary.TotalSamples != 2 {
		t.Fatalf("only the two well-formed samples count: got %d", summary.TotalSamples)
	}
}

func TestAnalyzeSampledProfileErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]interface{}
		kind    ErrorKind
		message string
	}{
		{
			name: "non-numeric weight",
			doc: traceDocument(
				frameList("main"),
				sampledProfile(
					[]interface{}{stack(0), stack(0)},
					[]interface{}{1.0, "heavy"},
				),
			),
			kind:    KindInvalidWeight,
			message: "profile 0: sample 1 has an invalid weight",
		},
		{
			name: "missing weight",
			doc: traceDocument(
				frameList("main"),
				sampledProfile(
					[]interface{}{stack(0), stack(0)},
					[]interface{}{1.0},
				),
			),
			kind: KindInvalidWeight,
		},
		{
			name: "frame index out of range",
			doc: traceDocument(
				frameList("main"),
				sampledProfile(
					[]interface{}{stack(0, 7)},
					nil,
				),
			),
			kind:    KindInvalidFrameReference,
			message: "profile 0: sample 0 references an invalid frame index",
		},
		{
			name: "fractional frame index",
			doc: traceDocument(
				frameList("main", "work"),
				sampledProfile(
					[]interface{}{stack(0.5)},
					nil,
				),
			),
			kind: KindInvalidFrameReference,
		},
		{
			name: "all weights non-positive",
			doc: traceDocument(
				frameList("main"),
				sampledProfile(
					[]interface{}{stack(0), stack(0)},
					[]interface{}{0.0, -3.0},
				),
			),
			kind: KindNoMeasurableActivity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.doc)
			if err == nil {
				t.Fatal("expected an error")
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected a validation error, got %T", err)
			}
			if validationErr.Kind != tt.kind {
				t.Fatalf("expected kind %q, got %q", tt.kind, validationErr.Kind)
			}
			if tt.message != "" && validationErr.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, validationErr.Message)
			}
		})
	}
}
