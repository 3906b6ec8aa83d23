package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/r2lab/meshtrace/core"
	"github.com/r2lab/meshtrace/state"
	"github.com/spf13/cobra"
)

func toNodeIds(ids []int) []state.NodeId {
	nodes := make([]state.NodeId, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, state.NodeId(id))
	}
	return nodes
}

// loadRunCfg reads the configuration file if any, then applies the flags that were set on the command line
func loadRunCfg(cmd *cobra.Command) (*state.RunCfg, error) {
	cfg := &state.RunCfg{}
	if configPath != "" {
		var err error
		cfg, err = state.LoadRunCfg(configPath)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("run-root") {
		cfg.RunRoot = runRoot
	}
	if flags.Changed("nodes") {
		cfg.Nodes = toNodeIds(nodeIds)
	}
	if flags.Changed("sources") {
		cfg.Sources = toNodeIds(sourceIds)
	}
	if flags.Changed("malformed") {
		cfg.Malformed = state.MalformedPolicy(malformed)
	}
	if flags.Changed("parallel") {
		cfg.Parallelism = parallelism
	}
	if flags.Changed("log-path") {
		cfg.LogPath = logPath
	}
	if flags.Changed("mesh-prefix") {
		cfg.MeshPrefixes = cfg.MeshPrefixes[:0]
		for _, p := range meshPrefixes {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("invalid mesh prefix: %w", err)
			}
			cfg.MeshPrefixes = append(cfg.MeshPrefixes, prefix)
		}
	}
	if cfg.RunRoot == "" {
		return nil, fmt.Errorf("no run root, set --run-root or run_root in the configuration")
	}
	err := state.ExpandRunCfg(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, state.RunConfigValidator(cfg)
}

// runMode processes a run in the given mode
func runMode(cmd *cobra.Command, mode core.Mode) error {
	cfg, err := loadRunCfg(cmd)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger, closeLog, err := core.NewLogger(*cfg, level)
	if err != nil {
		return err
	}
	defer closeLog()

	env := &state.Env{
		Context: context.Background(),
		RunCfg:  *cfg,
		Log:     logger,
	}
	_, err = core.Run(env, mode)
	if err != nil {
		logger.Error("processing failed", "error", err)
	}
	return err
}

func addProcessingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&malformed, "malformed", "m", string(state.DefaultMalformed), "malformed line policy: skip-section or strict")
	cmd.Flags().StringSliceVarP(&meshPrefixes, "mesh-prefix", "p", nil, "only keep routes to destinations inside these prefixes")
	cmd.Flags().IntVarP(&parallelism, "parallel", "j", state.DefaultParallelism, "number of dumps parsed concurrently")
	cmd.Flags().StringVarP(&logPath, "log-path", "l", "", "also write logs to this file")
	cmd.Flags().BoolVarP(&state.DBG_log_route_table, "ltable", "t", false, "Outputs route tables to the console")
	cmd.Flags().BoolVarP(&state.DBG_log_traces, "ltrace", "g", false, "Outputs every traced route to the console")
}
