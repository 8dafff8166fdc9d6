package store

import (
	"path/filepath"
	"testing"

	"github.com/jsphweid/keycoach/model"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSong() model.Song {
	return model.Song{
		Title:         "Greensleeves",
		Artist:        "Traditional",
		Difficulty:    model.DifficultyBeginner,
		Category:      "Classical",
		BPM:           90,
		KeySignature:  "A minor",
		TimeSignature: "3/4",
		Notes: []model.Note{
			{Key: "A4", StartMs: 0, DurationMs: 500},
			{Key: "C5", StartMs: 500, DurationMs: 1000},
		},
	}
}

func TestSongRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateSong(testSong())
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1500, created.DurationMs)

	got, err := s.GetSong(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Notes, got.Notes)
	assert.Equal(t, model.DifficultyBeginner, got.Difficulty)
}

func TestGetSongMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSong("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSongsFilters(t *testing.T) {
	s := newTestStore(t)

	classical := testSong()
	pop := testSong()
	pop.Category = "Pop"
	pop.Difficulty = model.DifficultyAdvanced
	_, err := s.CreateSong(classical)
	assert.NoError(t, err)
	_, err = s.CreateSong(pop)
	assert.NoError(t, err)

	all, err := s.ListSongs("", "", 0, 100)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPop, err := s.ListSongs("Pop", "", 0, 100)
	assert.NoError(t, err)
	assert.Len(t, onlyPop, 1)
	assert.Equal(t, "Pop", onlyPop[0].Category)

	onlyAdvanced, err := s.ListSongs("", string(model.DifficultyAdvanced), 0, 100)
	assert.NoError(t, err)
	assert.Len(t, onlyAdvanced, 1)

	none, err := s.ListSongs("Jazz", "", 0, 100)
	assert.NoError(t, err)
	assert.Len(t, none, 0)
}

func TestDeleteSong(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateSong(testSong())
	assert.NoError(t, err)

	deleted, err := s.DeleteSong(created.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteSong(created.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestRecordingRoundTripAppliesLiveDefaultDuration(t *testing.T) {
	s := newTestStore(t)
	end := 900

	rec := model.Recording{
		Title:        "Practice take",
		Artist:       "Me",
		BPM:          120,
		KeySignature: "C major",
		Notes: []model.RecordedNote{
			{Note: "C", Octave: 4, StartMs: 0, EndMs: &end, Velocity: 0.8},
			{Note: "E", Octave: 4, StartMs: 700, Velocity: 0.6}, // open-ended
		},
	}

	created, err := s.CreateRecording(rec)
	assert.NoError(t, err)
	assert.Equal(t, 1200, created.DurationMs) // 700 + 500 default

	got, err := s.GetRecording(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Notes, got.Notes)
	assert.Nil(t, got.Notes[1].EndMs)
}

func TestListAndDeleteRecordings(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateRecording(model.Recording{Title: "take 1", Artist: "Me", BPM: 120})
	assert.NoError(t, err)

	recs, err := s.ListRecordings(0, 100)
	assert.NoError(t, err)
	assert.Len(t, recs, 1)

	deleted, err := s.DeleteRecording(created.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetRecording(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMidiFileRecordLifecycle(t *testing.T) {
	s := newTestStore(t)

	mf := model.MidiFile{
		ID:           "abc",
		Filename:     "abc.mid",
		OriginalName: "fur-elise.mid",
		FileSize:     1234,
		FilePath:     "/tmp/abc.mid",
	}

	_, err := s.CreateMidiFile(mf)
	assert.NoError(t, err)

	got, err := s.GetMidiFile("abc")
	assert.NoError(t, err)
	assert.False(t, got.Processed)
	assert.Equal(t, "fur-elise.mid", got.OriginalName)

	assert.NoError(t, s.MarkProcessed("abc", "song-1", ""))

	got, err = s.GetMidiFile("abc")
	assert.NoError(t, err)
	assert.True(t, got.Processed)
	assert.Equal(t, "song-1", got.SongID)
}
