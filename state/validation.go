package state

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

var (
	ErrNoNodes   = errors.New("no nodes selected")
	ErrNoSources = errors.New("no experiment sources selected")
)

func DirValidator(s string) error {
	st, err := os.Stat(s)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}

func NodeIdValidator(id NodeId) error {
	if id <= NoRoute || id > MaxNodeId {
		return fmt.Errorf("node id %d is out of range [1, %d]", id, MaxNodeId)
	}
	return nil
}

func RunConfigValidator(cfg *RunCfg) error {
	err := DirValidator(cfg.RunRoot)
	if err != nil {
		return err
	}
	if len(cfg.Nodes) == 0 {
		return ErrNoNodes
	}
	if len(cfg.Sources) == 0 {
		return ErrNoSources
	}
	seen := make(map[NodeId]struct{})
	for _, node := range cfg.Nodes {
		err = NodeIdValidator(node)
		if err != nil {
			return err
		}
		if _, ok := seen[node]; ok {
			return fmt.Errorf("duplicate node found: %d", node)
		}
		seen[node] = struct{}{}
	}
	for _, src := range cfg.Sources {
		if !slices.Contains(cfg.Nodes, src) {
			return fmt.Errorf("source %d is not a selected node", src)
		}
	}
	switch cfg.Malformed {
	case MalformedSkipSection, MalformedStrict:
	default:
		return fmt.Errorf("unknown malformed line policy %q, expected %q or %q", cfg.Malformed, MalformedSkipSection, MalformedStrict)
	}
	if cfg.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", cfg.Parallelism)
	}
	for _, prefix := range cfg.MeshPrefixes {
		if !prefix.IsValid() || !prefix.Addr().Is4() {
			return fmt.Errorf("mesh prefix %s is not a valid IPv4 prefix", prefix)
		}
	}
	return nil
}
