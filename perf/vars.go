package perf

import (
	"expvar"

	"github.com/encodeous/metric"
)

var (
	ParseLatency   = metric.NewHistogram("1m1s")
	TraceLatency   = metric.NewHistogram("1m1s")
	LinesParsed    = metric.NewCounter("1m1s")
	MalformedLines = metric.NewCounter("1m1s")
	LoopsDetected  = metric.NewCounter("1m1s")
)

func init() {
	expvar.Publish("meshtrace:ParseLatency (µs)", ParseLatency)
	expvar.Publish("meshtrace:TraceLatency (µs)", TraceLatency)
	expvar.Publish("meshtrace:LinesParsed", LinesParsed)
	expvar.Publish("meshtrace:MalformedLines", MalformedLines)
	expvar.Publish("meshtrace:LoopsDetected", LoopsDetected)
}
