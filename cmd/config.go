package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the effective run configuration",
	Long:  `Merges the configuration file, the command line flags and the run's info.txt, validates the result and prints it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunCfg(cmd)
		if err != nil {
			return err
		}
		cfgYaml, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(cfgYaml))
		return nil
	},
	GroupID: "util",
}

func init() {
	rootCmd.AddCommand(configCmd)
}
