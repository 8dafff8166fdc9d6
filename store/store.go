// Package store persists songs, recordings and uploaded-file records in
// SQLite. Records are opaque to the conversion pipeline: note lists are
// serialized into a JSON column and handed back exactly as stored.
//
// Store is safe for concurrent use; the underlying sql.DB serializes
// access and every operation here is a single statement.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/keycoach/model"

	_ "modernc.org/sqlite" // pure-Go sqlite driver, no cgo
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not enable WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		category TEXT NOT NULL,
		bpm INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		notes TEXT NOT NULL,
		key_signature TEXT NOT NULL,
		time_signature TEXT NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_songs_category ON songs(category);
	CREATE INDEX IF NOT EXISTS idx_songs_difficulty ON songs(difficulty);

	CREATE TABLE IF NOT EXISTS recordings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		bpm INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		notes TEXT NOT NULL,
		key_signature TEXT NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS midi_files (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		original_name TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		song_id TEXT,
		error_message TEXT,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateSong inserts a song, assigning an id and creation time and deriving
// the duration from the latest note end.
func (s *Store) CreateSong(song model.Song) (model.Song, error) {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	song.CreatedAt = time.Now().UTC()
	song.DurationMs = 0
	for _, n := range song.Notes {
		if n.EndMs() > song.DurationMs {
			song.DurationMs = n.EndMs()
		}
	}

	notes, err := json.Marshal(song.Notes)
	if err != nil {
		return model.Song{}, fmt.Errorf("could not serialize notes: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO songs (id, title, artist, difficulty, category, bpm, duration,
			notes, key_signature, time_signature, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID, song.Title, song.Artist, string(song.Difficulty), song.Category,
		song.BPM, song.DurationMs, string(notes), song.KeySignature,
		song.TimeSignature, song.Description, song.CreatedAt)
	if err != nil {
		return model.Song{}, fmt.Errorf("could not insert song: %w", err)
	}
	return song, nil
}

func (s *Store) GetSong(id string) (model.Song, error) {
	row := s.db.QueryRow(`
		SELECT id, title, artist, difficulty, category, bpm, duration, notes,
			key_signature, time_signature, description, created_at
		FROM songs WHERE id = ?`, id)
	return scanSong(row)
}

// ListSongs returns songs newest first, optionally filtered by category and
// difficulty.
func (s *Store) ListSongs(category string, difficulty string, offset int, limit int) ([]model.Song, error) {
	query := `
		SELECT id, title, artist, difficulty, category, bpm, duration, notes,
			key_signature, time_signature, description, created_at
		FROM songs WHERE 1=1`
	var args []any
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if difficulty != "" {
		query += " AND difficulty = ?"
		args = append(args, difficulty)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list songs: %w", err)
	}
	defer rows.Close()

	songs := make([]model.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (s *Store) DeleteSong(id string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("could not delete song: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (model.Song, error) {
	var song model.Song
	var difficulty, notes string
	var description sql.NullString
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &difficulty,
		&song.Category, &song.BPM, &song.DurationMs, &notes,
		&song.KeySignature, &song.TimeSignature, &description, &song.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Song{}, ErrNotFound
	}
	if err != nil {
		return model.Song{}, fmt.Errorf("could not scan song: %w", err)
	}
	song.Difficulty = model.Difficulty(difficulty)
	song.Description = description.String
	if err := json.Unmarshal([]byte(notes), &song.Notes); err != nil {
		return model.Song{}, fmt.Errorf("could not deserialize notes: %w", err)
	}
	return song, nil
}

// CreateRecording inserts a recording, deriving the duration from the
// latest note end with the 500ms live default for open-ended notes.
func (s *Store) CreateRecording(rec model.Recording) (model.Recording, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now().UTC()
	rec.DurationMs = 0
	for _, n := range rec.Notes {
		endMs := n.StartMs + 500
		if n.EndMs != nil {
			endMs = *n.EndMs
		}
		if endMs > rec.DurationMs {
			rec.DurationMs = endMs
		}
	}

	notes, err := json.Marshal(rec.Notes)
	if err != nil {
		return model.Recording{}, fmt.Errorf("could not serialize notes: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO recordings (id, title, artist, bpm, duration, notes,
			key_signature, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Artist, rec.BPM, rec.DurationMs, string(notes),
		rec.KeySignature, rec.Description, rec.CreatedAt)
	if err != nil {
		return model.Recording{}, fmt.Errorf("could not insert recording: %w", err)
	}
	return rec, nil
}

func (s *Store) GetRecording(id string) (model.Recording, error) {
	row := s.db.QueryRow(`
		SELECT id, title, artist, bpm, duration, notes, key_signature,
			description, created_at
		FROM recordings WHERE id = ?`, id)
	return scanRecording(row)
}

func (s *Store) ListRecordings(offset int, limit int) ([]model.Recording, error) {
	rows, err := s.db.Query(`
		SELECT id, title, artist, bpm, duration, notes, key_signature,
			description, created_at
		FROM recordings ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("could not list recordings: %w", err)
	}
	defer rows.Close()

	recs := make([]model.Recording, 0)
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Store) DeleteRecording(id string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM recordings WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("could not delete recording: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanRecording(row scanner) (model.Recording, error) {
	var rec model.Recording
	var notes string
	var description sql.NullString
	err := row.Scan(&rec.ID, &rec.Title, &rec.Artist, &rec.BPM, &rec.DurationMs,
		&notes, &rec.KeySignature, &description, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Recording{}, ErrNotFound
	}
	if err != nil {
		return model.Recording{}, fmt.Errorf("could not scan recording: %w", err)
	}
	rec.Description = description.String
	if err := json.Unmarshal([]byte(notes), &rec.Notes); err != nil {
		return model.Recording{}, fmt.Errorf("could not deserialize notes: %w", err)
	}
	return rec, nil
}

func (s *Store) CreateMidiFile(mf model.MidiFile) (model.MidiFile, error) {
	mf.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO midi_files (id, filename, original_name, file_size,
			file_path, processed, song_id, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mf.ID, mf.Filename, mf.OriginalName, mf.FileSize, mf.FilePath,
		mf.Processed, mf.SongID, mf.ErrorMessage, mf.CreatedAt)
	if err != nil {
		return model.MidiFile{}, fmt.Errorf("could not insert midi file record: %w", err)
	}
	return mf, nil
}

func (s *Store) GetMidiFile(id string) (model.MidiFile, error) {
	var mf model.MidiFile
	var songID, errMsg sql.NullString
	err := s.db.QueryRow(`
		SELECT id, filename, original_name, file_size, file_path, processed,
			song_id, error_message, created_at
		FROM midi_files WHERE id = ?`, id).
		Scan(&mf.ID, &mf.Filename, &mf.OriginalName, &mf.FileSize, &mf.FilePath,
			&mf.Processed, &songID, &errMsg, &mf.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MidiFile{}, ErrNotFound
	}
	if err != nil {
		return model.MidiFile{}, fmt.Errorf("could not scan midi file record: %w", err)
	}
	mf.SongID = songID.String
	mf.ErrorMessage = errMsg.String
	return mf, nil
}

// MarkProcessed records the outcome of a conversion attempt against the
// uploaded file.
func (s *Store) MarkProcessed(id string, songID string, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE midi_files SET processed = 1, song_id = ?, error_message = ?
		WHERE id = ?`, songID, errorMessage, id)
	if err != nil {
		return fmt.Errorf("could not update midi file record: %w", err)
	}
	return nil
}
