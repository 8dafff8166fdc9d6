package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keycoach",
	Short: "Piano tutorial MIDI toolkit",
	Long:  `Converts MIDI files and live captures into playable tutorial songs, and back.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
