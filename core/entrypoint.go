package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/encodeous/tint"
	"github.com/r2lab/meshtrace/perf"
	"github.com/r2lab/meshtrace/state"
	slogmulti "github.com/samber/slog-multi"
	"golang.org/x/sync/errgroup"
)

// Mode selects which dumps are read and which summaries are written
type Mode int

const (
	// ModeSnapshot reads ROUTE-TABLE-NN and writes ROUTES-NN
	ModeSnapshot Mode = iota
	// ModeSampled reads ROUTE-TABLE-NN-SAMPLED and writes SAMPLES/ROUTES-NN-SAMPLE
	ModeSampled
)

func (m Mode) String() string {
	switch m {
	case ModeSnapshot:
		return "snapshot"
	case ModeSampled:
		return "sampled"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type RunStats struct {
	Files   int
	Missing []state.NodeId
	FileStats
	Samples int
	TraceStats
	Outputs []string
}

// NewLogger logs to stderr, and to cfg.LogPath when it is set. The returned function closes the log file.
func NewLogger(cfg state.RunCfg, level slog.Level) (*slog.Logger, func() error, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: cfg.Name,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	closer := func() error { return nil }
	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}

	logger := slog.New(
		slogmulti.Fanout(handlers...))
	return logger, closer, nil
}

// Run builds the forwarding tables of a run from the node dumps, and writes the route summary of every experiment source
func Run(env *state.Env, mode Mode) (*RunStats, error) {
	if env.Context == nil {
		env.Context = context.Background()
	}
	log := env.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	log.Info("generating global routing map", "mode", mode, "nodes", len(env.Nodes), "sources", len(env.Sources))
	series, stats, err := loadDumps(env, log, mode)
	if err != nil {
		return nil, err
	}
	snaps := MergeSamples(env.Nodes, series...)
	stats.Samples = snaps.Len()
	if state.DBG_log_route_table {
		for i := 0; i < snaps.Len(); i++ {
			log.Debug("route table", "sample", i, "table", "\n"+snaps.At(i).String())
		}
	}

	outDir := env.RunRoot
	if mode == ModeSampled {
		outDir = filepath.Join(env.RunRoot, state.SamplesDir)
		err = os.MkdirAll(outDir, 0755)
		if err != nil {
			return nil, err
		}
	}

	log.Info("creating route summaries for experiment sources")
	w := &SummaryWriter{Nodes: env.Nodes, Log: log}
	for _, src := range env.Sources {
		if err := env.Context.Err(); err != nil {
			return nil, err
		}
		var name string
		var write func(out io.Writer) (TraceStats, error)
		if mode == ModeSampled {
			name = filepath.Join(outDir, state.SampledRoutesFile(src))
			write = func(out io.Writer) (TraceStats, error) {
				return w.WriteSampled(out, snaps, src)
			}
		} else {
			name = filepath.Join(outDir, state.RoutesFile(src))
			write = func(out io.Writer) (TraceStats, error) {
				return w.WriteRoutes(out, snaps.At(0), src)
			}
		}
		start := time.Now()
		ts, err := writeSummary(name, write)
		if err != nil {
			return nil, err
		}
		perf.TraceLatency.Add(float64(time.Since(start).Microseconds()))
		perf.LoopsDetected.Add(float64(ts.Loops))
		if ts.Loops > 0 {
			log.Debug("loops detected", "src", src, "loops", ts.Loops)
		}
		stats.TraceStats.add(ts)
		stats.Outputs = append(stats.Outputs, name)
	}

	log.Info("route summaries written",
		"files", stats.Files, "missing", len(stats.Missing), "routes", stats.Routes,
		"malformed", stats.Malformed, "samples", stats.Samples, "traces", stats.Traces,
		"loops", stats.Loops, "dangling", stats.Dangling)
	log.Debug("metrics", "parse_latency", perf.ParseLatency.String(), "trace_latency", perf.TraceLatency.String())
	return stats, nil
}

// loadDumps parses every node dump, up to env.Parallelism at a time. Each dump only touches its own series, and no
// trace starts before all of them are parsed.
func loadDumps(env *state.Env, log *slog.Logger, mode Mode) ([]Series, *RunStats, error) {
	filter := NewMeshFilter(env.MeshPrefixes)
	series := make([]Series, len(env.Nodes))
	fileStats := make([]FileStats, len(env.Nodes))
	found := make([]bool, len(env.Nodes))

	g, ctx := errgroup.WithContext(env.Context)
	g.SetLimit(max(env.Parallelism, 1))
	for i, node := range env.Nodes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			s, st, ok, err := loadDump(env, log, mode, filter, node)
			if err != nil {
				return err
			}
			perf.ParseLatency.Add(float64(time.Since(start).Microseconds()))
			perf.LinesParsed.Add(float64(st.Lines))
			perf.MalformedLines.Add(float64(st.Malformed))
			series[i], fileStats[i], found[i] = s, st, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &RunStats{}
	for i, node := range env.Nodes {
		if !found[i] {
			stats.Missing = append(stats.Missing, node)
			continue
		}
		stats.Files++
		stats.FileStats.add(fileStats[i])
	}
	return series, stats, nil
}

func loadDump(env *state.Env, log *slog.Logger, mode Mode, filter *MeshFilter, node state.NodeId) (Series, FileStats, bool, error) {
	name := state.RouteTableFile(node)
	if mode == ModeSampled {
		name = state.SampledRouteTableFile(node)
	}
	name = filepath.Join(env.RunRoot, name)

	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("route table was not generated, routes through this node will be incomplete", "node", node, "file", name)
			return Series{Src: node}, FileStats{}, false, nil
		}
		return Series{}, FileStats{}, false, err
	}
	defer f.Close()

	sp := &Splitter{
		Src:     node,
		Sampled: mode == ModeSampled,
		Policy:  env.Malformed,
		Filter:  filter,
		Log:     log.With("node", node),
	}
	s, st, err := sp.Split(name, f)
	if err != nil {
		return Series{}, st, false, err
	}
	log.Debug("parsed route table", "node", node, "lines", st.Lines, "routes", st.Routes, "sections", len(s.Sections))
	return s, st, true, nil
}

func writeSummary(name string, write func(out io.Writer) (TraceStats, error)) (TraceStats, error) {
	f, err := os.Create(name)
	if err != nil {
		return TraceStats{}, err
	}
	ts, err := write(f)
	return ts, errors.Join(err, f.Close())
}
