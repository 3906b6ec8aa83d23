package core

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/r2lab/meshtrace/state"
)

// RouteSummary is a route line read back from a ROUTES file
type RouteSummary struct {
	Src  state.NodeId
	Dst  state.NodeId   // state.NoRoute when a loop line does not name its destination
	Path []state.NodeId // every node of the line in order, without the loop sentinel
	Loop bool
}

// ParseRoute reads `1 -- 3 -- 2` or a truncated loop such as `1 -- 2 -- 1 -- -1 --`
func ParseRoute(line string) (RouteSummary, error) {
	nodes := make([]state.NodeId, 0)
	for _, tok := range strings.Split(line, "--") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return RouteSummary{}, fmt.Errorf("invalid hop %q in route %q", tok, line)
		}
		nodes = append(nodes, state.NodeId(v))
	}
	if len(nodes) < 2 {
		return RouteSummary{}, fmt.Errorf("route %q has fewer than two nodes", line)
	}

	r := RouteSummary{Src: nodes[0]}
	if idx := slices.Index(nodes, state.LoopSentinel); idx != -1 {
		r.Loop = true
		r.Path = slices.Delete(slices.Clone(nodes), idx, idx+1)
		if idx < len(nodes)-1 {
			r.Dst = nodes[len(nodes)-1]
		}
		return r, nil
	}
	r.Path = nodes
	r.Dst = nodes[len(nodes)-1]
	return r, nil
}

// Dangling reports whether the route runs into a node without a route
func (r RouteSummary) Dangling() bool {
	return len(r.Path) > 1 && slices.Contains(r.Path[1:], state.NoRoute)
}

// Valid routes reach their destination
func (r RouteSummary) Valid() bool {
	return !r.Loop && !r.Dangling()
}

// HopCount is the number of links from source to destination, 0 for invalid routes
func (r RouteSummary) HopCount() int {
	if !r.Valid() {
		return 0
	}
	return len(r.Path) - 1
}

func (r RouteSummary) Status() string {
	switch {
	case r.Loop:
		return "loop"
	case r.Dangling():
		return "dangling"
	default:
		return "ok"
	}
}

// ReadRoutes returns the route lines of a snapshot summary
func ReadRoutes(r io.Reader) ([]string, error) {
	routes := make([]string, 0)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.Contains(line, state.SampleMarker) {
			continue
		}
		routes = append(routes, line)
	}
	return routes, sc.Err()
}

// ReadSampleRoutes returns the route lines under the `SAMPLE <sample>` header of a sampled summary
func ReadSampleRoutes(r io.Reader, sample int) ([]string, error) {
	routes := make([]string, 0)
	inSample := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.Contains(line, state.SampleMarker) {
			if inSample {
				break
			}
			k, err := ParseSampleMarker(line)
			inSample = err == nil && k == sample
			continue
		}
		if inSample && line != "" {
			routes = append(routes, line)
		}
	}
	return routes, sc.Err()
}

// CountSamples counts the SAMPLE headers of a sampled summary
func CountSamples(r io.Reader) (int, error) {
	count := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.Contains(sc.Text(), state.SampleMarker) {
			count++
		}
	}
	return count, sc.Err()
}

// AssignDestinations names the destination of every route of a summary. Summaries list one route per node of the
// node set except the source, in node set order.
func AssignDestinations(routes []RouteSummary, nodes []state.NodeId, src state.NodeId) error {
	dests := slices.DeleteFunc(slices.Clone(nodes), func(n state.NodeId) bool {
		return n == src
	})
	if len(dests) != len(routes) {
		return fmt.Errorf("summary has %d routes, expected %d for node set of size %d", len(routes), len(dests), len(nodes))
	}
	for i := range routes {
		if routes[i].Dst != state.NoRoute && routes[i].Dst != dests[i] {
			return fmt.Errorf("route %d ends at %d, expected %d", i, routes[i].Dst, dests[i])
		}
		routes[i].Dst = dests[i]
	}
	return nil
}
