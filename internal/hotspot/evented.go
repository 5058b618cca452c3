package hotspot

import (
	"github.com/stephenreynolds/flamegraph-ai/internal/speedscope"
)

// replayEvented replays one evented profile entry against an explicit call
// stack and returns the total duration it observed.
//
// The gap between two consecutive events is attributed to the stack in
// effect during that gap: an open or close takes effect for the interval
// that follows it, never retroactively. Time elapsing while the stack is
// empty is not attributed to anything.
func replayEvented(profileIndex int, entry map[string]interface{}, metrics []frameMetrics) (float64, error) {
	rawEvents, _ := entry["events"].([]interface{})
	if len(rawEvents) < 2 {
		return 0, validationErrorf(KindMalformedEventStream,
			"profile %d: an evented profile must contain at least two events", profileIndex)
	}
	var observed float64
	var stack []int
	for i, rawEvent := range rawEvents {
		event, err := decodeEvent(profileIndex, i, rawEvent, len(metrics))
		if err != nil {
			return 0, err
		}
		switch event.Type {
		case speedscope.EventTypeOpenFrame:
			stack = append(stack, event.Frame)
		case speedscope.EventTypeCloseFrame:
			if len(stack) == 0 {
				return 0, validationErrorf(KindUnbalancedStack,
					"profile %d: event %d closes frame %d but no frame is open", profileIndex, i, event.Frame)
			}
			top := stack[len(stack)-1]
			if top != event.Frame {
				return 0, validationErrorf(KindUnbalancedStack,
					"profile %d: event %d closes frame %d but expected frame %d", profileIndex, i, event.Frame, top)
			}
			stack = stack[:len(stack)-1]
		default:
			return 0, validationErrorf(KindInvalidEventType,
				"profile %d: event %d has unsupported type %q", profileIndex, i, event.Type)
		}
		if i == len(rawEvents)-1 {
			break
		}
		next, err := decodeEvent(profileIndex, i+1, rawEvents[i+1], len(metrics))
		if err != nil {
			return 0, err
		}
		delta := next.At - event.At
		if delta < 0 {
			return 0, validationErrorf(KindNonMonotonicTimestamps,
				"profile %d: timestamps go backwards between events %d and %d", profileIndex, i, i+1)
		}
		if delta > 0 && len(stack) > 0 {
			observed += delta
			for _, openFrame := range stack {
				metrics[openFrame].totalTime += delta
				metrics[openFrame].sampleCount++
			}
			metrics[stack[len(stack)-1]].selfTime += delta
		}
	}
	if len(stack) > 0 {
		return 0, validationErrorf(KindUnclosedFrames,
			"profile %d: %d frame(s) left open at the end of the event stream", profileIndex, len(stack))
	}
	return observed, nil
}

// decodeEvent validates one raw event and lifts it into the typed model.
func decodeEvent(profileIndex, eventIndex int, raw interface{}, frameCount int) (speedscope.Event, error) {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return speedscope.Event{}, validationErrorf(KindMalformedEventStream,
			"profile %d: event %d is not an object", profileIndex, eventIndex)
	}
	frame, ok := decodeFrameIndex(fields["frame"], frameCount)
	if !ok {
		return speedscope.Event{}, validationErrorf(KindInvalidFrameReference,
			"profile %d: event %d references an invalid frame index", profileIndex, eventIndex)
	}
	at, ok := decodeFinite(fields["at"])
	if !ok {
		return speedscope.Event{}, validationErrorf(KindMalformedEventStream,
			"profile %d: event %d has an invalid timestamp", profileIndex, eventIndex)
	}
	eventType, _ := fields["type"].(string)
	return speedscope.Event{
		Type:  speedscope.EventType(eventType),
		Frame: frame,
		At:    at,
	}, nil
}
