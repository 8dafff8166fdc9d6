package model

// ConversionOptions tunes the import pipeline. A nil options object on a
// conversion request selects simple mode, which only normalizes.
type ConversionOptions struct {
	MinOctave           int  `json:"min_octave"`
	MaxOctave           int  `json:"max_octave"`
	MinNoteDurationMs   int  `json:"min_note_duration"`
	QuantizeThresholdMs int  `json:"quantize_threshold"`
	SimplifyMelody      bool `json:"simplify_melody"`
	RemoveChords        bool `json:"remove_chords"`
	MaxNotesPerSecond   int  `json:"max_notes_per_second"`
}

type ConversionRequest struct {
	Title        string             `json:"title"`
	Artist       string             `json:"artist"`
	Category     string             `json:"category"`
	KeySignature string             `json:"key_signature"`
	Difficulty   Difficulty         `json:"difficulty,omitempty"`
	Description  string             `json:"description,omitempty"`
	Options      *ConversionOptions `json:"options,omitempty"`
}

type ProcessingInfo struct {
	NoteCount   int               `json:"notes_count"`
	DurationMs  int               `json:"duration_ms"`
	TracksFound int               `json:"tracks_found"`
	Strategy    SelectionStrategy `json:"strategy"`
}

type ConversionResponse struct {
	Song           Song           `json:"song"`
	ProcessingInfo ProcessingInfo `json:"processing_info"`
}

type SongCreateRequest struct {
	Title         string     `json:"title"`
	Artist        string     `json:"artist"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      string     `json:"category"`
	BPM           int        `json:"bpm"`
	KeySignature  string     `json:"key_signature"`
	TimeSignature string     `json:"time_signature"`
	Description   string     `json:"description,omitempty"`
	Notes         []Note     `json:"notes"`
}

type RecordingCreateRequest struct {
	Title        string         `json:"title"`
	Artist       string         `json:"artist"`
	BPM          int            `json:"bpm"`
	KeySignature string         `json:"key_signature"`
	Description  string         `json:"description,omitempty"`
	Notes        []RecordedNote `json:"notes"`
}

type UploadResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	FileSize int    `json:"file_size"`
	Message  string `json:"message"`
}

type RecommendedSettings struct {
	RemoveChords      bool `json:"remove_chords"`
	SimplifyMelody    bool `json:"simplify_melody"`
	MaxNotesPerSecond int  `json:"max_notes_per_second"`
	MinNoteDurationMs int  `json:"min_note_duration"`
}

type AnalysisResponse struct {
	ID                  string              `json:"id,omitempty"`
	Tracks              int                 `json:"tracks"`
	Notes               int                 `json:"notes"`
	DurationMs          int                 `json:"duration"`
	BPM                 int                 `json:"bpm"`
	TimeSignature       string              `json:"time_signature"`
	NoteDensity         float64             `json:"note_density"`
	RecommendedSettings RecommendedSettings `json:"recommended_settings"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
