package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jsphweid/keycoach/constants"
	"github.com/jsphweid/keycoach/convert"
	"github.com/jsphweid/keycoach/midifile"
	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/pitch"
	"github.com/jsphweid/keycoach/store"
	"github.com/jsphweid/keycoach/upload"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	songStore *store.Store
	staging   *upload.Staging
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the tutorial API server",
	Long:  `Runs the tutorial API server`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func initState(dataDir string, uploadDir string) error {
	if err := os.MkdirAll(dataDir, 0777); err != nil {
		return fmt.Errorf("could not create data dir: %w", err)
	}
	var err error
	songStore, err = store.New(filepath.Join(dataDir, "keycoach.db"))
	if err != nil {
		return err
	}
	staging, err = upload.NewStaging(uploadDir)
	return err
}

func newRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/songs", handleCreateSong).Methods("POST")
	router.HandleFunc("/songs", handleListSongs).Methods("GET")
	router.HandleFunc("/songs/{id}", handleGetSong).Methods("GET")
	router.HandleFunc("/songs/{id}", handleDeleteSong).Methods("DELETE")
	router.HandleFunc("/recordings", handleCreateRecording).Methods("POST")
	router.HandleFunc("/recordings", handleListRecordings).Methods("GET")
	router.HandleFunc("/recordings/{id}", handleGetRecording).Methods("GET")
	router.HandleFunc("/recordings/{id}", handleDeleteRecording).Methods("DELETE")
	router.HandleFunc("/recordings/{id}/convert-to-song", handleConvertRecording).Methods("POST")
	router.HandleFunc("/recordings/{id}/export", handleExportRecording).Methods("GET")
	router.HandleFunc("/midi/upload", handleUpload).Methods("POST")
	router.HandleFunc("/midi/{id}/analyze", handleAnalyze).Methods("GET")
	router.HandleFunc("/midi/{id}/convert", handleConvertMidi).Methods("POST")
	return router
}

func serve() {
	if err := initState(constants.GetDataDir(), constants.GetUploadDir()); err != nil {
		log.Fatal(err)
	}

	handler := cors.AllowAll().Handler(newRouter())
	addr := ":" + constants.GetPort()
	log.Printf("listening on %v", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), model.ErrorResponse{Detail: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, midifile.ErrDecodeFailure),
		errors.Is(err, pitch.ErrInvalidPitchName),
		errors.Is(err, convert.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, convert.ErrNoPlayableInstrument),
		errors.Is(err, convert.ErrEmptyNoteSet):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req model.SongCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "could not parse request body"})
		return
	}

	song, err := songStore.CreateSong(model.Song{
		Title:         req.Title,
		Artist:        req.Artist,
		Difficulty:    req.Difficulty,
		Category:      req.Category,
		BPM:           req.BPM,
		Notes:         req.Notes,
		KeySignature:  req.KeySignature,
		TimeSignature: req.TimeSignature,
		Description:   req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := songStore.ListSongs(
		r.URL.Query().Get("category"),
		r.URL.Query().Get("difficulty"),
		queryInt(r, "skip", 0),
		queryInt(r, "limit", 100),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := songStore.GetSong(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	deleted, err := songStore.DeleteSong(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, store.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleCreateRecording(w http.ResponseWriter, r *http.Request) {
	var req model.RecordingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "could not parse request body"})
		return
	}

	bpm := req.BPM
	if bpm <= 0 {
		bpm = constants.DefaultBPM
	}
	rec, err := songStore.CreateRecording(model.Recording{
		Title:        req.Title,
		Artist:       req.Artist,
		BPM:          bpm,
		Notes:        req.Notes,
		KeySignature: req.KeySignature,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func handleListRecordings(w http.ResponseWriter, r *http.Request) {
	recs, err := songStore.ListRecordings(queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func handleGetRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := songStore.GetRecording(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	deleted, err := songStore.DeleteRecording(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, store.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleConvertRecording turns a stored live capture into a tutorial song
// using the align chord policy at the recording tolerance.
func handleConvertRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := songStore.GetRecording(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = rec.Title + " (Tutorial)"
	}
	difficulty := model.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty == "" {
		difficulty = model.DifficultyBeginner
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "Recordings"
	}

	description := rec.Description
	if description == "" {
		description = rec.Title
	}

	song, err := songStore.CreateSong(model.Song{
		Title:         title,
		Artist:        rec.Artist,
		Difficulty:    difficulty,
		Category:      category,
		BPM:           rec.BPM,
		Notes:         convert.RecordingToSong(rec.Notes),
		KeySignature:  rec.KeySignature,
		TimeSignature: "4/4",
		Description:   "Converted from recording: " + description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func handleExportRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := songStore.GetRecording(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := midifile.Encode(rec.Notes, rec.BPM)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%v.mid"`, sanitizeFilename(rec.Title)))
	w.Write(data)
}

func sanitizeFilename(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, title)
	if mapped == "" {
		return "recording"
	}
	return mapped
}

// handleUpload stages the file, validates that it decodes, and records it.
// An invalid file is removed from staging before the error goes out.
func handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "missing file field"})
		return
	}
	defer file.Close()

	if !upload.IsMidiFilename(header.Filename) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "file must be a MIDI file (.mid or .midi)"})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}

	id, path, err := staging.Save(content, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := midifile.Decode(content); err != nil {
		staging.Remove(path)
		writeError(w, err)
		return
	}

	if _, err := songStore.CreateMidiFile(model.MidiFile{
		ID:           id,
		Filename:     filepath.Base(path),
		OriginalName: header.Filename,
		FileSize:     len(content),
		FilePath:     path,
	}); err != nil {
		staging.Remove(path)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UploadResponse{
		ID:       id,
		Filename: header.Filename,
		FileSize: len(content),
		Message:  "MIDI file uploaded successfully",
	})
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	mf, err := songStore.GetMidiFile(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := os.ReadFile(mf.FilePath)
	if err != nil {
		writeError(w, err)
		return
	}

	analysis, err := convert.Analyze(content)
	if err != nil {
		writeError(w, err)
		return
	}
	analysis.ID = mf.ID
	writeJSON(w, http.StatusOK, analysis)
}

func handleConvertMidi(w http.ResponseWriter, r *http.Request) {
	mf, err := songStore.GetMidiFile(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "could not parse request body"})
		return
	}
	if req.Options != nil {
		convert.ApplyDefaults(req.Options)
	}

	content, err := os.ReadFile(mf.FilePath)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := convert.MIDIToSong(content, req.Options)
	if err != nil {
		songStore.MarkProcessed(mf.ID, "", err.Error())
		writeError(w, err)
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = res.Difficulty
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Imported from MIDI with %v notes", res.NoteCount)
	}

	song, err := songStore.CreateSong(model.Song{
		Title:         req.Title,
		Artist:        req.Artist,
		Difficulty:    difficulty,
		Category:      req.Category,
		BPM:           res.BPM,
		Notes:         res.Notes,
		KeySignature:  req.KeySignature,
		TimeSignature: res.TimeSignature,
		Description:   description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := songStore.MarkProcessed(mf.ID, song.ID, ""); err != nil {
		log.Printf("could not mark %v processed: %v", mf.ID, err)
	}

	writeJSON(w, http.StatusOK, model.ConversionResponse{
		Song: song,
		ProcessingInfo: model.ProcessingInfo{
			NoteCount:   res.NoteCount,
			DurationMs:  res.TotalDurationMs,
			TracksFound: res.TracksFound,
			Strategy:    res.Strategy,
		},
	})
}
