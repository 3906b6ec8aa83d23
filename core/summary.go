package core

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/r2lab/meshtrace/state"
)

type TraceStats struct {
	Traces   int
	Loops    int
	Dangling int
}

func (s *TraceStats) add(o TraceStats) {
	s.Traces += o.Traces
	s.Loops += o.Loops
	s.Dangling += o.Dangling
}

// SummaryWriter writes the path from an experiment source to every other node, in node set order
type SummaryWriter struct {
	Nodes []state.NodeId
	Log   *slog.Logger // traces are logged when state.DBG_log_traces is set
}

// WriteRoutes writes one line per destination
func (w *SummaryWriter) WriteRoutes(out io.Writer, t NextHopper, src state.NodeId) (TraceStats, error) {
	bw := bufio.NewWriter(out)
	stats := w.writeTraces(bw, t, src)
	return stats, bw.Flush()
}

// WriteSampled writes a `SAMPLE <n>` header for every snapshot, each followed by one line per destination
func (w *SummaryWriter) WriteSampled(out io.Writer, snaps *Snapshots, src state.NodeId) (TraceStats, error) {
	bw := bufio.NewWriter(out)
	stats := TraceStats{}
	for i := 0; i < snaps.Len(); i++ {
		_, _ = fmt.Fprintf(bw, "%s %d\n", state.SampleMarker, i)
		stats.add(w.writeTraces(bw, snaps.At(i), src))
	}
	return stats, bw.Flush()
}

// write errors are sticky on bufio.Writer and surface on Flush
func (w *SummaryWriter) writeTraces(bw *bufio.Writer, t NextHopper, src state.NodeId) TraceStats {
	stats := TraceStats{}
	n := len(w.Nodes)
	for _, dst := range w.Nodes {
		if dst == src {
			continue
		}
		p := Trace(t, src, dst, n)
		stats.Traces++
		if p.Loop {
			stats.Loops++
		} else if p.Dangling() {
			stats.Dangling++
		}
		if state.DBG_log_traces && w.Log != nil {
			w.Log.Debug("trace", "src", src, "dst", dst, "path", p.String())
		}
		_, _ = bw.WriteString(p.String())
		_ = bw.WriteByte('\n')
	}
	return stats
}
