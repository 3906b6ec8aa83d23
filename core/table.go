package core

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/r2lab/meshtrace/state"
)

// NextHopper answers next hop queries, it is all the tracer needs from a table
type NextHopper interface {
	Get(src, dst state.NodeId) state.NodeId
}

// ForwardingTable holds the next hop of every (source, destination) pair of a node set at one instant.
// Pairs that were never set have state.NoRoute as next hop.
type ForwardingTable struct {
	nodes   []state.NodeId
	entries map[state.Link]state.NodeId
}

func NewForwardingTable(nodes []state.NodeId) *ForwardingTable {
	t := &ForwardingTable{
		nodes: slices.Clone(nodes),
	}
	t.Reset()
	return t
}

// Reset sets every entry back to state.NoRoute
func (t *ForwardingTable) Reset() {
	t.entries = make(map[state.Link]state.NodeId, len(t.nodes)*len(t.nodes))
	for _, src := range t.nodes {
		for _, dst := range t.nodes {
			if src != dst {
				t.entries[state.MakeLink(src, dst)] = state.NoRoute
			}
		}
	}
}

func (t *ForwardingTable) Set(src, dst, nh state.NodeId) {
	if src == dst {
		return
	}
	t.entries[state.MakeLink(src, dst)] = nh
}

func (t *ForwardingTable) Get(src, dst state.NodeId) state.NodeId {
	return t.entries[state.MakeLink(src, dst)]
}

// Clone returns an independent copy of the table
func (t *ForwardingTable) Clone() *ForwardingTable {
	return &ForwardingTable{
		nodes:   t.nodes,
		entries: maps.Clone(t.entries),
	}
}

func (t *ForwardingTable) Nodes() []state.NodeId {
	return t.nodes
}

// Len is the size of the node set
func (t *ForwardingTable) Len() int {
	return len(t.nodes)
}

func (t *ForwardingTable) String() string {
	links := slices.Collect(maps.Keys(t.entries))
	state.SortPairs(links)
	sb := strings.Builder{}
	for _, link := range links {
		nh := t.entries[link]
		if nh == state.NoRoute {
			continue
		}
		sb.WriteString(fmt.Sprintf("%d -> %d via %d\n", link.V1, link.V2, nh))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
