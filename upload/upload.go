// Package upload stages incoming MIDI bytes on disk while they wait for
// conversion. Every file gets a random token so concurrent uploads never
// alias the same path, and callers run Remove unconditionally when a staged
// file is no longer needed, including on failure paths.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Staging struct {
	dir string
}

func NewStaging(dir string) (*Staging, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, fmt.Errorf("could not create upload dir: %w", err)
	}
	return &Staging{dir: dir}, nil
}

// IsMidiFilename reports whether a client filename looks like a MIDI file.
func IsMidiFilename(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi")
}

// Save writes the uploaded bytes under a fresh token and returns the token
// and the staged path.
func (s *Staging) Save(content []byte, originalName string) (string, string, error) {
	id := uuid.New().String()
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".mid"
	}
	path := filepath.Join(s.dir, id+ext)
	if err := os.WriteFile(path, content, 0666); err != nil {
		return "", "", fmt.Errorf("could not stage upload: %w", err)
	}
	return id, path, nil
}

// Remove deletes a staged file. A missing file is not an error so cleanup
// can run on every exit path.
func (s *Staging) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
