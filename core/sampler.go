package core

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/r2lab/meshtrace/state"
)

// Row holds the next hops of one source, by destination
type Row map[state.NodeId]state.NodeId

// Series is what a single dump contributes: the row of its source for every sample it recorded.
// A snapshot dump records the single sample 0.
type Series struct {
	Src      state.NodeId
	Sections map[int]Row
}

// FileStats counts what happened to the lines of a dump
type FileStats struct {
	Lines           int
	Routes          int
	Ignored         int // outside the mesh, or before the first SAMPLE marker
	Malformed       int
	SkippedSections int
}

func (s *FileStats) add(o FileStats) {
	s.Lines += o.Lines
	s.Routes += o.Routes
	s.Ignored += o.Ignored
	s.Malformed += o.Malformed
	s.SkippedSections += o.SkippedSections
}

// Splitter turns the dump of one node into a Series.
//
// In a sampled dump, every line containing SAMPLE starts a section. The row of a section starts from the row of the
// previous section only when that section was the immediately preceding index, a gap in the indices starts over
// from an empty row.
type Splitter struct {
	Src     state.NodeId
	Sampled bool
	Policy  state.MalformedPolicy
	Filter  *MeshFilter
	Log     *slog.Logger
}

func (s *Splitter) Split(name string, r io.Reader) (Series, FileStats, error) {
	log := s.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	series := Series{
		Src:      s.Src,
		Sections: make(map[int]Row),
	}
	stats := FileStats{}

	index := -1
	if !s.Sampled {
		index = 0
	}
	row := make(Row)
	skip := false

	// malformed either fails the split, or drops the rest of the current section
	malformed := func(lineNo int, err error) error {
		stats.Malformed++
		if s.Policy == state.MalformedStrict {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		stats.SkippedSections++
		log.Warn("skipping rest of section", "file", name, "line", lineNo, "section", index, "error", err)
		skip = true
		return nil
	}

	sc := newLineScanner(r, state.MaxLineLength)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		stats.Lines++
		if sc.TooLong() {
			err := fmt.Errorf("%w: line is longer than %d bytes", ErrMalformedLine, state.MaxLineLength)
			if err = malformed(lineNo, err); err != nil {
				return Series{}, stats, err
			}
			continue
		}
		line := sc.Text()

		if s.Sampled && strings.Contains(line, state.SampleMarker) {
			if index >= 0 {
				series.Sections[index] = maps.Clone(row)
			}
			k, err := ParseSampleMarker(line)
			if err != nil {
				index = -1
				if err = malformed(lineNo, err); err != nil {
					return Series{}, stats, err
				}
				continue
			}
			if index < 0 || k != index+1 {
				row = make(Row)
			}
			index = k
			skip = false
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if index < 0 {
			if !skip {
				stats.Ignored++
				log.Debug("ignoring line before first sample", "file", name, "line", lineNo)
			}
			continue
		}
		if skip {
			continue
		}
		// unparseable lines fall through to the malformed policy
		if s.Filter.Classify(line) == OutsideMesh {
			stats.Ignored++
			continue
		}
		route, err := ParseRouteLine(line)
		if err != nil {
			if err = malformed(lineNo, err); err != nil {
				return Series{}, stats, err
			}
			continue
		}
		stats.Routes++
		if route.Dest != s.Src {
			row[route.Dest] = route.Nh
		}
	}
	if err := sc.Err(); err != nil {
		return Series{}, stats, fmt.Errorf("%s: %w", name, err)
	}
	if index >= 0 {
		series.Sections[index] = maps.Clone(row)
	}
	return series, stats, nil
}

// ParseSampleMarker reads the index following SAMPLE on a marker line
func ParseSampleMarker(line string) (int, error) {
	idx := strings.Index(line, state.SampleMarker)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q is not a sample marker", ErrMalformedLine, line)
	}
	fields := strings.Fields(line[idx+len(state.SampleMarker):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: %q has no sample index", ErrMalformedLine, line)
	}
	k, err := strconv.Atoi(fields[0])
	if err != nil || k < 0 || k > state.MaxSampleIndex {
		return 0, fmt.Errorf("%w: %q has an invalid sample index", ErrMalformedLine, line)
	}
	return k, nil
}

// Snapshots is the forwarding table of every sample, indexed from 0 to Len()-1. Samples that no dump recorded share a
// single all-zero table, so tables must not be modified through At.
type Snapshots struct {
	empty  *ForwardingTable
	tables map[int]*ForwardingTable
	last   int
}

// MergeSamples assembles per-node series into one table per sample. Sample 0 always exists, and samples that no dump
// recorded are empty.
func MergeSamples(nodes []state.NodeId, series ...Series) *Snapshots {
	snaps := &Snapshots{
		empty:  NewForwardingTable(nodes),
		tables: make(map[int]*ForwardingTable),
	}
	for _, s := range series {
		for idx, row := range s.Sections {
			snaps.last = max(snaps.last, idx)
			tbl, ok := snaps.tables[idx]
			if !ok {
				tbl = snaps.empty.Clone()
				snaps.tables[idx] = tbl
			}
			for dst, nh := range row {
				tbl.Set(s.Src, dst, nh)
			}
		}
	}
	return snaps
}

func (s *Snapshots) Len() int {
	return s.last + 1
}

func (s *Snapshots) At(i int) *ForwardingTable {
	if tbl, ok := s.tables[i]; ok {
		return tbl
	}
	return s.empty
}
