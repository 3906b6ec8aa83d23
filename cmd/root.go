package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	runRoot      string
	nodeIds      []int
	sourceIds    []int
	malformed    string
	meshPrefixes []string
	parallelism  int
	logPath      string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshtrace",
	Short: "Mesh route table post-processing",
	Long: `meshtrace rebuilds the forwarding tables captured on every node of a mesh routing experiment,
and reconstructs the path from each experiment source to every other node.
Paths that cycle while the protocol converges are truncated and flagged with -1.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "proc",
		Title: "Processing Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "util",
		Title: "Utilities",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "run configuration file")
	rootCmd.PersistentFlags().StringVarP(&runRoot, "run-root", "r", "", "directory holding the route table dumps of the run")
	rootCmd.PersistentFlags().IntSliceVarP(&nodeIds, "nodes", "n", nil, "selected nodes, defaults to info.txt")
	rootCmd.PersistentFlags().IntSliceVarP(&sourceIds, "sources", "s", nil, "experiment sources, defaults to info.txt")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
