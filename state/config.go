package state

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// MalformedPolicy decides what happens to the section of a dump that contains a line that cannot be parsed.
// A snapshot dump is a single section, a sampled dump has one section per SAMPLE marker.
type MalformedPolicy string

const (
	// MalformedSkipSection ignores the rest of the section and carries on with the next one
	MalformedSkipSection MalformedPolicy = "skip-section"
	// MalformedStrict fails the run on the first malformed line
	MalformedStrict MalformedPolicy = "strict"
)

// RunCfg describes one experiment run to post-process
type RunCfg struct {
	Name         string          `yaml:"name,omitempty"`          // used as the log prefix, defaults to the run root's base name
	RunRoot      string          `yaml:"run_root"`                // directory holding the ROUTE-TABLE-* dumps
	Nodes        []NodeId        `yaml:"nodes,omitempty"`         // every node that produced a dump, falls back to info.txt
	Sources      []NodeId        `yaml:"sources,omitempty"`       // experiment sources to summarise, falls back to info.txt
	Malformed    MalformedPolicy `yaml:"malformed,omitempty"`     // skip-section or strict
	MeshPrefixes []netip.Prefix  `yaml:"mesh_prefixes,omitempty"` // if not empty, routes to destinations outside these prefixes are ignored
	Parallelism  int             `yaml:"parallelism,omitempty"`   // number of dumps parsed concurrently
	LogPath      string          `yaml:"log_path,omitempty"`      // if not empty, logs are also written to this file
}

// LoadRunCfg reads a run configuration file
func LoadRunCfg(path string) (*RunCfg, error) {
	var cfg RunCfg
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ExpandRunCfg fills in defaults, and reads the node set and sources from the run's info.txt when they are not configured
func ExpandRunCfg(cfg *RunCfg) error {
	if cfg.Malformed == "" {
		cfg.Malformed = DefaultMalformed
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = DefaultParallelism
	}
	if cfg.Name == "" && cfg.RunRoot != "" {
		cfg.Name = filepath.Base(filepath.Clean(cfg.RunRoot))
	}
	if len(cfg.Nodes) != 0 && len(cfg.Sources) != 0 {
		return nil
	}
	info, err := ReadInfo(filepath.Join(cfg.RunRoot, InfoFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// the validator reports what is still missing
			return nil
		}
		return err
	}
	if len(cfg.Nodes) == 0 {
		cfg.Nodes = info.Nodes
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = info.Sources
	}
	return nil
}
