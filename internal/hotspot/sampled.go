package hotspot

// aggregateSampled accumulates one sampled profile entry into the shared
// metrics arena and returns the total weight it observed.
//
// Samples whose stack is missing, malformed or empty contribute nothing but
// do not fail the parse: one noisy sample must not invalidate a whole trace.
// A supplied weight that is not a finite number does fail it.
func aggregateSampled(profileIndex int, entry map[string]interface{}, metrics []frameMetrics) (float64, error) {
	rawSamples, _ := entry["samples"].([]interface{})
	weights, hasWeights := entry["weights"].([]interface{})
	if len(weights) == 0 {
		hasWeights = false
	}
	var observed float64
	for i, rawSample := range rawSamples {
		stack, ok := rawSample.([]interface{})
		if !ok || len(stack) == 0 {
			continue
		}
		weight := 1.0
		if hasWeights {
			ok := false
			if i < len(weights) {
				weight, ok = decodeFinite(weights[i])
			}
			if !ok {
				return 0, validationErrorf(KindInvalidWeight,
					"profile %d: sample %d has an invalid weight", profileIndex, i)
			}
		}
		if weight <= 0 {
			continue
		}
		observed += weight
		leaf := 0
		for _, rawIndex := range stack {
			frameIndex, ok := decodeFrameIndex(rawIndex, len(metrics))
			if !ok {
				return 0, validationErrorf(KindInvalidFrameReference,
					"profile %d: sample %d references an invalid frame index", profileIndex, i)
			}
			metrics[frameIndex].totalTime += weight
			metrics[frameIndex].sampleCount++
			leaf = frameIndex
		}
		// The last stack element is the innermost frame, it alone gets
		// the weight as self time.
		metrics[leaf].selfTime += weight
	}
	return observed, nil
}
