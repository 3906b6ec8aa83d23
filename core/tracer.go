package core

import (
	"strings"

	"github.com/r2lab/meshtrace/state"
)

type traceState int

const (
	traceAdvancing traceState = iota
	traceLoopDetected
	traceDone
)

// PathTrace is the hop chain followed from a source towards a destination
type PathTrace struct {
	Src  state.NodeId
	Dst  state.NodeId
	Hops []state.NodeId // intermediate hops, excluding the source and the destination
	Loop bool           // the chain cycled, Hops ends at the first repeated node
}

// String renders the trace, e.g. `1 -- 3 -- 2`, or `1 -- 2 -- 1 -- -1 --` for a loop.
// A looping trace does not end with its destination.
func (p PathTrace) String() string {
	sb := strings.Builder{}
	sb.WriteString(p.Src.String())
	sb.WriteString(" --")
	for _, hop := range p.Hops {
		sb.WriteString(" ")
		sb.WriteString(hop.String())
		sb.WriteString(" --")
	}
	if p.Loop {
		sb.WriteString(" ")
		sb.WriteString(state.LoopSentinel.String())
		sb.WriteString(" --")
	} else {
		sb.WriteString(" ")
		sb.WriteString(p.Dst.String())
	}
	return sb.String()
}

// Dangling reports whether the chain ran into a node without a route
func (p PathTrace) Dangling() bool {
	for _, hop := range p.Hops {
		if hop == state.NoRoute {
			return true
		}
	}
	return false
}

// Trace follows next hops from src until dst is the next hop, a node has no route, or more than n hops were taken.
// n is the size of the node set, a longer chain must revisit a node.
func Trace(t NextHopper, src, dst state.NodeId, n int) PathTrace {
	visited := []state.NodeId{src}
	st := traceAdvancing
	steps := 0
	for st == traceAdvancing {
		cur := visited[len(visited)-1]
		if cur == state.NoRoute {
			st = traceDone
			break
		}
		nh := t.Get(cur, dst)
		if nh == dst {
			st = traceDone
			break
		}
		visited = append(visited, nh)
		steps++
		if steps > n {
			st = traceLoopDetected
		}
	}

	if st == traceLoopDetected {
		return PathTrace{
			Src:  src,
			Dst:  dst,
			Hops: truncateLoop(visited),
			Loop: true,
		}
	}
	return PathTrace{
		Src:  src,
		Dst:  dst,
		Hops: visited[1:],
	}
}

// truncateLoop keeps the visited nodes up to the first repeat, without the source
func truncateLoop(visited []state.NodeId) []state.NodeId {
	seen := make(map[state.NodeId]struct{}, len(visited))
	for i, node := range visited {
		if _, ok := seen[node]; ok {
			return visited[1 : i+1]
		}
		seen[node] = struct{}{}
	}
	return visited[1:]
}
