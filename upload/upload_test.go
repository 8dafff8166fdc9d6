package upload

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveStagesUnderUniqueTokens(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	assert.NoError(t, err)

	id1, path1, err := s.Save([]byte("one"), "song.mid")
	assert.NoError(t, err)
	id2, path2, err := s.Save([]byte("two"), "song.mid")
	assert.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.NotEqual(t, path1, path2)

	content, err := os.ReadFile(path1)
	assert.NoError(t, err)
	assert.Equal(t, []byte("one"), content)
}

func TestSaveDefaultsExtension(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	assert.NoError(t, err)

	_, path, err := s.Save([]byte("x"), "noextension")
	assert.NoError(t, err)
	assert.Contains(t, path, ".mid")
}

func TestRemoveIsIdempotent(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	assert.NoError(t, err)

	_, path, err := s.Save([]byte("x"), "song.mid")
	assert.NoError(t, err)

	assert.NoError(t, s.Remove(path))
	assert.NoError(t, s.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestIsMidiFilename(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsMidiFilename("song.mid"))
	assert.True(IsMidiFilename("SONG.MIDI"))
	assert.False(IsMidiFilename("song.wav"))
	assert.False(IsMidiFilename("song"))
}
