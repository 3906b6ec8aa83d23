package state

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Info is the content of a run's info.txt:
//
//	Selected nodes :
//	1 4 12 14
//	Sources :
//	1
//	Destinations :
//	37
type Info struct {
	Nodes        []NodeId
	Sources      []NodeId
	Destinations []NodeId
}

func ReadInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := ParseInfo(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

func ParseInfo(r io.Reader) (*Info, error) {
	info := &Info{}
	var target *[]NodeId
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			header := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(line, ":")))
			switch header {
			case "selected nodes":
				target = &info.Nodes
			case "sources":
				target = &info.Sources
			case "destinations":
				target = &info.Destinations
			default:
				target = nil
			}
			continue
		}
		if target == nil {
			continue
		}
		ids, err := ParseNodeList(line)
		if err != nil {
			return nil, err
		}
		*target = append(*target, ids...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

// ParseNodeList parses whitespace or comma separated node ids
func ParseNodeList(s string) ([]NodeId, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ids := make([]NodeId, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid node id", f)
		}
		ids = append(ids, NodeId(v))
	}
	return ids, nil
}
