package state

import (
	"context"
	"log/slog"
	"strconv"
)

// NodeId identifies a testbed node. It is the last octet of the node's mesh address.
type NodeId int

const (
	// NoRoute is the next hop recorded for a pair that was never populated.
	NoRoute NodeId = 0
	// LoopSentinel marks a truncated, cyclic path in a rendered route.
	LoopSentinel NodeId = -1
)

func (n NodeId) String() string {
	return strconv.Itoa(int(n))
}

// Env is everything a processing run needs. It is built once by the CLI and is read-only afterwards.
type Env struct {
	Context context.Context
	RunCfg
	Log *slog.Logger
}
