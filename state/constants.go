package state

import "fmt"

const (
	// SampleMarker starts a new capture section in a sampled route dump
	SampleMarker = "SAMPLE"
	// SamplesDir holds the sampled summaries under the run root
	SamplesDir = "SAMPLES"
	// InfoFile describes the nodes of a run, written by the orchestration scripts
	InfoFile = "info.txt"

	MaxNodeId = NodeId(255)
	// MaxSampleIndex bounds the sample indices accepted from a dump
	MaxSampleIndex = 1 << 16
	// MaxLineLength bounds a dump line, longer lines are malformed
	MaxLineLength = 64 * 1024
)

var (
	DefaultParallelism = 1
	DefaultMalformed   = MalformedSkipSection

	DBG_log_route_table = false
	DBG_log_traces      = false
)

// RouteTableFile is the raw snapshot dump of a node
func RouteTableFile(node NodeId) string {
	return fmt.Sprintf("ROUTE-TABLE-%02d", int(node))
}

// SampledRouteTableFile is the raw multi-sample dump of a node
func SampledRouteTableFile(node NodeId) string {
	return fmt.Sprintf("ROUTE-TABLE-%02d-SAMPLED", int(node))
}

// RoutesFile is the snapshot summary written for an experiment source
func RoutesFile(node NodeId) string {
	return fmt.Sprintf("ROUTES-%02d", int(node))
}

// SampledRoutesFile is the sampled summary written for an experiment source, relative to SamplesDir
func SampledRoutesFile(node NodeId) string {
	return fmt.Sprintf("ROUTES-%02d-SAMPLE", int(node))
}
