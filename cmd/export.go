package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jsphweid/keycoach/midifile"
	"github.com/jsphweid/keycoach/model"
	"github.com/spf13/cobra"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: <input>.mid)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <recording.json>",
	Short: "Exports a recording JSON file as a standard MIDI file",
	Long:  `Exports a recording JSON file as a standard MIDI file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRecording(args[0])
	},
}

func exportRecording(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %v: %w", path, err)
	}

	var rec model.Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("could not parse recording: %w", err)
	}

	out, err := midifile.Encode(rec.Notes, rec.BPM)
	if err != nil {
		return err
	}

	target := exportOut
	if target == "" {
		target = strings.TrimSuffix(path, ".json") + ".mid"
	}
	if err := os.WriteFile(target, out, 0666); err != nil {
		return fmt.Errorf("could not write %v: %w", target, err)
	}
	fmt.Printf("wrote %v (%v notes)\n", target, len(rec.Notes))
	return nil
}
