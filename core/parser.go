package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/r2lab/meshtrace/state"
)

var ErrMalformedLine = errors.New("malformed route line")

// Route is one entry of a node's route table dump
type Route struct {
	Dest state.NodeId
	Nh   state.NodeId
}

// ParseRouteLine parses a line of the form `<dest-ip> [via <hop-ip>] dev <iface> ...`.
// Without a via clause the destination is directly connected, and is its own next hop.
func ParseRouteLine(line string) (Route, error) {
	fields := make([]string, 0, 8)
	for _, f := range strings.Fields(line) {
		if f == "via" {
			continue
		}
		fields = append(fields, f)
	}
	if len(fields) < 2 {
		return Route{}, fmt.Errorf("%w: %q has fewer than two fields", ErrMalformedLine, line)
	}
	destAddr, hopAddr := fields[0], fields[1]
	if hopAddr == "dev" {
		hopAddr = destAddr
	}
	dest, err := addrNodeId(destAddr)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q: %w", ErrMalformedLine, line, err)
	}
	nh, err := addrNodeId(hopAddr)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q: %w", ErrMalformedLine, line, err)
	}
	return Route{
		Dest: dest,
		Nh:   nh,
	}, nil
}

// addrNodeId returns the node id encoded in the last octet of a dotted address
func addrNodeId(addr string) (state.NodeId, error) {
	octet := addr[strings.LastIndexByte(addr, '.')+1:]
	v, err := strconv.Atoi(octet)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("cannot read a node id from %q", addr)
	}
	return state.NodeId(v), nil
}
