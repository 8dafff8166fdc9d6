package model

// Note is the canonical unit flowing through the conversion pipeline: a
// named pitch with millisecond timing and a 0-1 velocity.
type Note struct {
	Key        string  `json:"key"`
	StartMs    int     `json:"startTime"`
	DurationMs int     `json:"duration"`
	Velocity   float64 `json:"velocity,omitempty"`
}

func (n Note) EndMs() int {
	return n.StartMs + n.DurationMs
}

// RecordedNote is the live-capture shape: separate note letter and octave,
// and an absolute end time that may be missing when the key was never
// released.
type RecordedNote struct {
	Note     string  `json:"note"`
	Octave   int     `json:"octave"`
	StartMs  int     `json:"startTime"`
	EndMs    *int    `json:"endTime,omitempty"`
	Velocity float64 `json:"velocity"`
}

// RawNote is a decoded MIDI note before normalization. Times are absolute
// microseconds from the start of the file.
type RawNote struct {
	Pitch    uint8
	StartUs  int64
	EndUs    int64
	Velocity uint8
}

// Instrument groups the notes decoded for one (track, channel) pair.
type Instrument struct {
	Track   int
	Channel uint8
	Program uint8
	IsDrum  bool
	Notes   []RawNote
}
