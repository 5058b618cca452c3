package hotspot

import (
	"fmt"
	"math"

	"github.com/stephenreynolds/flamegraph-ai/internal/speedscope"
)

// validateDocument type-checks the top level of a decoded trace document and
// extracts the shared frame table along with the raw profile entries. Frames
// missing a name or file fall back to defaults, anything else structurally
// wrong at this level aborts the parse.
func validateDocument(raw interface{}) (speedscope.SharedData, []interface{}, error) {
	var shared speedscope.SharedData
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return shared, nil, validationErrorf(KindMalformedDocument, "document root must be an object")
	}
	sharedSection, ok := doc["shared"].(map[string]interface{})
	if !ok {
		return shared, nil, validationErrorf(KindMalformedDocument, "document is missing a shared section")
	}
	rawFrames, ok := sharedSection["frames"].([]interface{})
	if !ok || len(rawFrames) == 0 {
		return shared, nil, validationErrorf(KindMalformedDocument, "shared.frames must be a non-empty list")
	}
	shared.Frames = make([]speedscope.Frame, 0, len(rawFrames))
	for i, rawFrame := range rawFrames {
		fields, ok := rawFrame.(map[string]interface{})
		if !ok {
			return shared, nil, validationErrorf(KindMalformedDocument, "frame %d is not an object", i)
		}
		frame := speedscope.Frame{
			Name: fmt.Sprintf("frame_%d", i),
			File: speedscope.UnknownFile,
		}
		if name, ok := fields["name"].(string); ok {
			frame.Name = name
		}
		if file, ok := fields["file"].(string); ok {
			frame.File = file
		}
		shared.Frames = append(shared.Frames, frame)
	}
	profiles, ok := doc["profiles"].([]interface{})
	if !ok || len(profiles) == 0 {
		return shared, nil, validationErrorf(KindMalformedDocument, "profiles must be a non-empty list")
	}
	return shared, profiles, nil
}

// decodeFrameIndex checks that a decoded JSON value is an integral number
// referencing an existing entry of the frame table.
func decodeFrameIndex(v interface{}, frameCount int) (int, bool) {
	f, ok := decodeFinite(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	i := int(f)
	if i < 0 || i >= frameCount {
		return 0, false
	}
	return i, true
}

func decodeFinite(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
