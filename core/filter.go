package core

import (
	"net/netip"
	"strings"

	"github.com/gaissmai/bart"
)

// Placement is where a dump line's destination lies relative to the mesh
type Placement int

const (
	// Unparseable lines have no readable destination, they are left to the route parser
	Unparseable Placement = iota
	InsideMesh
	// OutsideMesh covers the default route and destinations outside every mesh prefix
	OutsideMesh
)

// MeshFilter keeps the routes whose destination lies inside one of the mesh prefixes.
// Dumps taken with `ip route` also contain the control network and the default route, which are not part of the experiment.
// An empty filter places every readable destination inside the mesh.
type MeshFilter struct {
	table bart.Table[netip.Prefix]
	size  int
}

func NewMeshFilter(prefixes []netip.Prefix) *MeshFilter {
	f := &MeshFilter{}
	for _, prefix := range prefixes {
		prefix = prefix.Masked()
		f.table.Insert(prefix, prefix)
		f.size++
	}
	return f
}

func (f *MeshFilter) Empty() bool {
	return f == nil || f.size == 0
}

// Classify reads the destination of a dump line, an address, a prefix or `default`
func (f *MeshFilter) Classify(line string) Placement {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Unparseable
	}
	dest := fields[0]
	if dest == "default" {
		if f.Empty() {
			return InsideMesh
		}
		return OutsideMesh
	}
	var addr netip.Addr
	if strings.Contains(dest, "/") {
		prefix, err := netip.ParsePrefix(dest)
		if err != nil {
			return Unparseable
		}
		addr = prefix.Addr()
	} else {
		var err error
		addr, err = netip.ParseAddr(dest)
		if err != nil {
			return Unparseable
		}
	}
	if f.Empty() {
		return InsideMesh
	}
	if _, ok := f.table.Lookup(addr); !ok {
		return OutsideMesh
	}
	return InsideMesh
}
