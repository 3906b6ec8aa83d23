package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/r2lab/meshtrace/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute("1 -- 14 -- 12 -- 37")
	require.NoError(t, err)
	assert.Equal(t, RouteSummary{Src: 1, Dst: 37, Path: []state.NodeId{1, 14, 12, 37}}, r)
	assert.True(t, r.Valid())
	assert.Equal(t, 3, r.HopCount())
	assert.Equal(t, "ok", r.Status())

	r, err = ParseRoute("1 -- 37")
	require.NoError(t, err)
	assert.Equal(t, 1, r.HopCount())
}

func TestParseRouteLoop(t *testing.T) {
	r, err := ParseRoute("1 -- 2 -- 1 -- -1 --")
	require.NoError(t, err)
	assert.True(t, r.Loop)
	assert.Equal(t, state.NoRoute, r.Dst)
	if diff := cmp.Diff([]state.NodeId{1, 2, 1}, r.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, r.Valid())
	assert.Equal(t, 0, r.HopCount())
	assert.Equal(t, "loop", r.Status())

	// older summaries name the destination after the sentinel
	r, err = ParseRoute("1 -- 2 -- 1 -- -1 -- 3")
	require.NoError(t, err)
	assert.True(t, r.Loop)
	assert.Equal(t, state.NodeId(3), r.Dst)
	if diff := cmp.Diff([]state.NodeId{1, 2, 1, 3}, r.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRouteDangling(t *testing.T) {
	r, err := ParseRoute("3 -- 5 -- 0 -- 1")
	require.NoError(t, err)
	assert.True(t, r.Dangling())
	assert.False(t, r.Valid())
	assert.Equal(t, 0, r.HopCount())
	assert.Equal(t, "dangling", r.Status())
}

func TestParseRouteInvalid(t *testing.T) {
	for _, line := range []string{"", "1", "1 --", "1 -- x -- 3"} {
		_, err := ParseRoute(line)
		assert.Error(t, err, line)
	}
}

func TestParseRouteRoundTrip(t *testing.T) {
	tbl := sampleTable()
	for _, dst := range []state.NodeId{2, 3, 4} {
		p := Trace(tbl, 1, dst, 4)
		r, err := ParseRoute(p.String())
		require.NoError(t, err)
		assert.Equal(t, p.Loop, r.Loop)
		assert.Equal(t, p.Dangling(), r.Dangling())
		assert.Equal(t, len(p.Hops), len(r.Path)-1-btoi(!p.Loop))
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

const sampledSummary = `SAMPLE 0
1 -- 2
1 -- 2 -- 3
SAMPLE 1
1 -- 2
1 -- 3
SAMPLE 10
1 -- 0 -- 2
1 -- 3
`

func TestReadSampleRoutes(t *testing.T) {
	routes, err := ReadSampleRoutes(strings.NewReader(sampledSummary), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 -- 2", "1 -- 3"}, routes)

	routes, err = ReadSampleRoutes(strings.NewReader(sampledSummary), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 -- 0 -- 2", "1 -- 3"}, routes)

	routes, err = ReadSampleRoutes(strings.NewReader(sampledSummary), 4)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestReadRoutes(t *testing.T) {
	routes, err := ReadRoutes(strings.NewReader("1 -- 2\n\n1 -- 2 -- 1 -- -1 -- \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1 -- 2", "1 -- 2 -- 1 -- -1 --"}, routes)
}

func TestCountSamples(t *testing.T) {
	n, err := CountSamples(strings.NewReader(sampledSummary))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = CountSamples(strings.NewReader("1 -- 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAssignDestinations(t *testing.T) {
	nodes := []state.NodeId{1, 2, 3, 4}
	routes := make([]RouteSummary, 0)
	for _, line := range []string{"1 -- 3 -- 2", "1 -- 3", "1 -- 2 -- 1 -- -1 --"} {
		r, err := ParseRoute(line)
		require.NoError(t, err)
		routes = append(routes, r)
	}
	require.NoError(t, AssignDestinations(routes, nodes, 1))
	assert.Equal(t, state.NodeId(4), routes[2].Dst)

	assert.Error(t, AssignDestinations(routes[:2], nodes, 1))
	// route 0 ends at 2, the node set now expects 3 first
	assert.Error(t, AssignDestinations(routes, []state.NodeId{1, 3, 2, 4}, 1))
}
