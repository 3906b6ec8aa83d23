package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/r2lab/meshtrace/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTable counts the next hop queries made by the tracer
type countingTable struct {
	NextHopper
	queries int
}

func (c *countingTable) Get(src, dst state.NodeId) state.NodeId {
	c.queries++
	return c.NextHopper.Get(src, dst)
}

// tableFromDumps builds a snapshot table from per node dump contents
func tableFromDumps(t *testing.T, nodes []state.NodeId, dumps map[state.NodeId]string) *ForwardingTable {
	t.Helper()
	series := make([]Series, 0, len(dumps))
	for src, dump := range dumps {
		sp := &Splitter{Src: src, Policy: state.MalformedStrict}
		s, _, err := sp.Split(state.RouteTableFile(src), strings.NewReader(dump))
		require.NoError(t, err)
		series = append(series, s)
	}
	return MergeSamples(nodes, series...).At(0)
}

func TestTraceDirectPath(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3}
	tbl := tableFromDumps(t, nodes, map[state.NodeId]string{
		1: "10.0.0.2 via 10.0.0.3 dev wlan0\n10.0.0.3 dev wlan0\n",
		3: "10.0.0.2 dev wlan0\n",
	})
	p := Trace(tbl, 1, 2, len(nodes))
	assert.Equal(t, "1 -- 3 -- 2", p.String())
	assert.False(t, p.Loop)
	assert.False(t, p.Dangling())

	// neighbour
	assert.Equal(t, "1 -- 3", Trace(tbl, 1, 3, len(nodes)).String())
	assert.Equal(t, "3 -- 2", Trace(tbl, 3, 2, len(nodes)).String())
}

func TestTraceDangling(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3}
	tbl := NewForwardingTable(nodes)
	// never populated
	p := Trace(tbl, 1, 2, len(nodes))
	assert.Equal(t, "1 -- 0 -- 2", p.String())
	assert.True(t, p.Dangling())

	// 3 has no route to 2
	tbl.Set(1, 2, 3)
	p = Trace(tbl, 1, 2, len(nodes))
	assert.Equal(t, "1 -- 3 -- 0 -- 2", p.String())
	assert.True(t, p.Dangling())
}

func TestTraceLoop(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3}
	tbl := NewForwardingTable(nodes)
	tbl.Set(1, 3, 2)
	tbl.Set(2, 3, 1)

	ct := &countingTable{NextHopper: tbl}
	p := Trace(ct, 1, 3, len(nodes))
	assert.Equal(t, "1 -- 2 -- 1 -- -1 --", p.String())
	assert.True(t, p.Loop)
	if diff := cmp.Diff([]state.NodeId{2, 1}, p.Hops); diff != "" {
		t.Errorf("hops mismatch (-want +got):\n%s", diff)
	}

	tokens := traceTokens(p.String())
	assert.LessOrEqual(t, len(tokens), 4)
	assert.Equal(t, 1, countToken(tokens, "-1"))
	assert.LessOrEqual(t, ct.queries, len(nodes)+1)
}

func TestTraceLoopAfterPrefix(t *testing.T) {
	// 1 -> 4 -> 2 -> 3 -> 2 ... towards 5
	nodes := []state.NodeId{1, 2, 3, 4, 5}
	tbl := NewForwardingTable(nodes)
	tbl.Set(1, 5, 4)
	tbl.Set(4, 5, 2)
	tbl.Set(2, 5, 3)
	tbl.Set(3, 5, 2)

	p := Trace(tbl, 1, 5, len(nodes))
	assert.Equal(t, "1 -- 4 -- 2 -- 3 -- 2 -- -1 --", p.String())
	assert.Equal(t, 1, countToken(traceTokens(p.String()), "-1"))
}

func TestTraceLoopIsBounded(t *testing.T) {
	for _, n := range []int{2, 5, 10, 37} {
		nodes := make([]state.NodeId, 0, n+1)
		for i := 1; i <= n+1; i++ {
			nodes = append(nodes, state.NodeId(i))
		}
		dst := state.NodeId(n + 1)
		tbl := NewForwardingTable(nodes)
		// every node forwards to the next one, the last relay points back to the first
		for i := 1; i < n; i++ {
			tbl.Set(state.NodeId(i), dst, state.NodeId(i+1))
		}
		tbl.Set(state.NodeId(n), dst, 1)

		ct := &countingTable{NextHopper: tbl}
		p := Trace(ct, 1, dst, len(nodes))
		assert.True(t, p.Loop)
		assert.Equal(t, 1, countToken(traceTokens(p.String()), "-1"))
		assert.LessOrEqual(t, ct.queries, len(nodes)+1)
	}
}

func TestTraceAcyclic(t *testing.T) {
	// a chain 1 -> 2 -> ... -> 8 towards 8, every node knows the way
	nodes := []state.NodeId{1, 2, 3, 4, 5, 6, 7, 8}
	tbl := NewForwardingTable(nodes)
	for _, src := range nodes {
		for _, dst := range nodes {
			if src == dst {
				continue
			}
			if dst > src {
				tbl.Set(src, dst, src+1)
			} else {
				tbl.Set(src, dst, src-1)
			}
		}
	}
	for _, src := range nodes {
		for _, dst := range nodes {
			if src == dst {
				continue
			}
			p := Trace(tbl, src, dst, len(nodes))
			assert.False(t, p.Loop)
			assert.False(t, p.Dangling())
			assert.True(t, strings.HasSuffix(p.String(), " "+dst.String()))
			assert.LessOrEqual(t, len(p.Hops)+1, len(nodes))
		}
	}
	assert.Equal(t, "1 -- 2 -- 3 -- 4 -- 5 -- 6 -- 7 -- 8", Trace(tbl, 1, 8, len(nodes)).String())
	assert.Equal(t, "5 -- 4 -- 3", Trace(tbl, 5, 3, len(nodes)).String())
}

func TestTraceDeterministic(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3}
	tbl := NewForwardingTable(nodes)
	tbl.Set(1, 3, 2)
	tbl.Set(2, 3, 1)
	tbl.Set(1, 2, 3)
	tbl.Set(3, 2, 2)
	for _, dst := range []state.NodeId{2, 3} {
		a := Trace(tbl, 1, dst, len(nodes))
		b := Trace(tbl, 1, dst, len(nodes))
		assert.Equal(t, a.String(), b.String())
		if diff := cmp.Diff(a, b, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("trace mismatch (-first +second):\n%s", diff)
		}
	}
}

func TestPathTraceString(t *testing.T) {
	assert.Equal(t, "1 -- 37", PathTrace{Src: 1, Dst: 37}.String())
	assert.Equal(t, "1 -- 14 -- 37", PathTrace{Src: 1, Dst: 37, Hops: []state.NodeId{14}}.String())
	assert.Equal(t, "1 -- 14 -- 12 -- 14 -- -1 --", PathTrace{Src: 1, Dst: 37, Hops: []state.NodeId{14, 12, 14}, Loop: true}.String())
}

func traceTokens(s string) []string {
	tokens := make([]string, 0)
	for _, tok := range strings.Split(s, "--") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func countToken(tokens []string, tok string) int {
	count := 0
	for _, t := range tokens {
		if t == tok {
			count++
		}
	}
	return count
}
