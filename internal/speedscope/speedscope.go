package speedscope

const (
	EventTypeOpenFrame  EventType = "O"
	EventTypeCloseFrame EventType = "C"

	ProfileTypeEvented ProfileType = "evented"
	ProfileTypeSampled ProfileType = "sampled"

	// UnknownFile is recorded for frames whose origin the profiler could
	// not resolve.
	UnknownFile = "unknown"
)

type (
	EventType   string
	ProfileType string

	// Frame is one entry of the shared frame table. Frames are referenced
	// by their index in the table and never mutated after load.
	Frame struct {
		File string `json:"file,omitempty"`
		Name string `json:"name"`
	}

	Event struct {
		Type  EventType `json:"type"`
		Frame int       `json:"frame"`
		At    float64   `json:"at"`
	}

	SharedData struct {
		Frames []Frame `json:"frames"`
	}
)
