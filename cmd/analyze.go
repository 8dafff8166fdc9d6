package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsphweid/keycoach/convert"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.mid>",
	Short: "Analyzes a MIDI file and suggests conversion settings",
	Long:  `Analyzes a MIDI file and suggests conversion settings`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeFile(args[0])
	},
}

func analyzeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %v: %w", path, err)
	}

	analysis, err := convert.Analyze(data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}
