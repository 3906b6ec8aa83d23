package cmd

import (
	"github.com/r2lab/meshtrace/core"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Summarise the routes of a single route table snapshot",
	Long: `Reads ROUTE-TABLE-NN for every selected node and writes ROUTES-NN for every experiment source,
one line per destination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, core.ModeSnapshot)
	},
	GroupID: "proc",
}

var sampledCmd = &cobra.Command{
	Use:   "sampled",
	Short: "Summarise the routes of every sample of a sampled capture",
	Long: `Reads ROUTE-TABLE-NN-SAMPLED for every selected node and writes SAMPLES/ROUTES-NN-SAMPLE for every
experiment source, one SAMPLE section per captured sample.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, core.ModeSampled)
	},
	GroupID: "proc",
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	addProcessingFlags(snapshotCmd)

	rootCmd.AddCommand(sampledCmd)
	addProcessingFlags(sampledCmd)
}
