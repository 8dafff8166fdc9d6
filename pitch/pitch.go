// Package pitch converts between MIDI note numbers and scientific pitch
// names, following the convention where note 60 is "C4".
package pitch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPitchName = errors.New("invalid pitch name")

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var classIndex = map[string]int{
	"C": 0, "C#": 1, "D": 2, "D#": 3, "E": 4, "F": 5,
	"F#": 6, "G": 7, "G#": 8, "A": 9, "A#": 10, "B": 11,
}

// Name returns the pitch name for a MIDI note number, e.g. 60 -> "C4".
func Name(num uint8) string {
	return fmt.Sprintf("%v%v", names[num%12], int(num)/12-1)
}

// Split breaks a name like "C#4" into its pitch class and octave.
func Split(name string) (string, int, error) {
	i := strings.IndexAny(name, "-0123456789")
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidPitchName, name)
	}
	class := name[:i]
	if _, ok := classIndex[class]; !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidPitchName, name)
	}
	octave, err := strconv.Atoi(name[i:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidPitchName, name)
	}
	return class, octave, nil
}

// Number is the inverse of Name.
func Number(name string) (uint8, error) {
	class, octave, err := Split(name)
	if err != nil {
		return 0, err
	}
	n := (octave+1)*12 + classIndex[class]
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("%w: %q is outside the MIDI range", ErrInvalidPitchName, name)
	}
	return uint8(n), nil
}

// Chromatic returns octave*12 + class index, the comparable height of a
// named note. Higher value means higher pitch.
func Chromatic(name string) (int, error) {
	class, octave, err := Split(name)
	if err != nil {
		return 0, err
	}
	return octave*12 + classIndex[class], nil
}
