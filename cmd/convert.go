package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsphweid/keycoach/convert"
	"github.com/jsphweid/keycoach/model"
	"github.com/spf13/cobra"
)

var (
	convertSimple  bool
	convertOptions = convert.DefaultOptions()
)

func init() {
	convertCmd.Flags().BoolVar(&convertSimple, "simple", false, "only normalize, skip the tutorial pipeline")
	convertCmd.Flags().IntVar(&convertOptions.MinOctave, "min-octave", convertOptions.MinOctave, "lowest octave to keep")
	convertCmd.Flags().IntVar(&convertOptions.MaxOctave, "max-octave", convertOptions.MaxOctave, "highest octave to keep")
	convertCmd.Flags().IntVar(&convertOptions.MinNoteDurationMs, "min-duration", convertOptions.MinNoteDurationMs, "minimum note duration in ms")
	convertCmd.Flags().IntVar(&convertOptions.QuantizeThresholdMs, "quantize", convertOptions.QuantizeThresholdMs, "quantize threshold in ms")
	convertCmd.Flags().BoolVar(&convertOptions.RemoveChords, "remove-chords", convertOptions.RemoveChords, "collapse chords to their top note")
	convertCmd.Flags().BoolVar(&convertOptions.SimplifyMelody, "simplify", convertOptions.SimplifyMelody, "merge rapid repeated notes")
	convertCmd.Flags().IntVar(&convertOptions.MaxNotesPerSecond, "max-nps", convertOptions.MaxNotesPerSecond, "maximum notes per second")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.mid>",
	Short: "Converts a MIDI file to tutorial notes",
	Long:  `Converts a MIDI file to tutorial notes`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(args[0])
	},
}

func convertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %v: %w", path, err)
	}

	var opts *model.ConversionOptions
	if !convertSimple {
		opts = &convertOptions
	}

	res, err := convert.MIDIToSong(data, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
