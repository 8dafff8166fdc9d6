package constants

import "os"

func GetDataDir() string {
	path := os.Getenv("DATA_PATH")
	if path != "" {
		return path
	}
	return "./data"
}

func GetUploadDir() string {
	path := os.Getenv("UPLOAD_PATH")
	if path != "" {
		return path
	}
	return "./uploads/midi"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// Conversion defaults. The tolerances are fixed per call site: the import
// path groups chords tightly, the recording-to-tutorial path is looser
// because human playing spreads chord onsets further apart.
const (
	DefaultMinOctave           = 4
	DefaultMaxOctave           = 6
	DefaultMinNoteDurationMs   = 100
	DefaultQuantizeThresholdMs = 50
	DefaultMaxNotesPerSecond   = 4

	CollapseToleranceMs = 50
	AlignToleranceMs    = 100

	DefaultLiveNoteDurationMs = 500
	DefaultBPM                = 120
)
