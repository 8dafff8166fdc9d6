package model

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type SelectionStrategy string

const (
	StrategyPianoFirst SelectionStrategy = "piano_first"
	StrategyMostNotes  SelectionStrategy = "most_notes"
)

type Song struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Artist        string     `json:"artist"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      string     `json:"category"`
	BPM           int        `json:"bpm"`
	DurationMs    int        `json:"duration"`
	Notes         []Note     `json:"notes"`
	KeySignature  string     `json:"key_signature"`
	TimeSignature string     `json:"time_signature"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Artist       string         `json:"artist"`
	BPM          int            `json:"bpm"`
	DurationMs   int            `json:"duration"`
	Notes        []RecordedNote `json:"notes"`
	KeySignature string         `json:"key_signature"`
	Description  string         `json:"description,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MidiFile tracks an uploaded file from staging through conversion.
type MidiFile struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FileSize     int       `json:"file_size"`
	FilePath     string    `json:"file_path"`
	Processed    bool      `json:"processed"`
	SongID       string    `json:"song_id,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProcessingResult is what a MIDI import hands back: the finished note list
// plus everything the caller needs to persist a song from it. It is not
// mutated after construction.
type ProcessingResult struct {
	Notes           []Note
	TotalDurationMs int
	NoteCount       int
	TracksFound     int
	BPM             int
	TimeSignature   string
	Difficulty      Difficulty
	Strategy        SelectionStrategy
}
