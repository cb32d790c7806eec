package board

import (
	"github.com/cespare/xxhash"
)

// Fingerprint hashes the occupied cells. Boards with the same sides on the
// same coordinates have the same fingerprint, however they were built.
func (b *Board) Fingerprint() uint64 {
	buf := make([]byte, 0, 3*len(b.cells))
	for i := 0; i < GridDim; i++ {
		for j := 0; j < GridDim; j++ {
			c := Coord{I: i, J: j}
			s, ok := b.cells[c]
			if !ok {
				continue
			}
			buf = append(buf, byte(c.ID()), byte(s.Terrain()), byte(s.Crowns()))
		}
	}
	return xxhash.Sum64(buf)
}

// CheckInvariants verifies the adjacency bookkeeping against the occupied
// cells. It returns a non-nil error describing the first problem found.
func (b *Board) CheckInvariants() error {
	if !b.bounds.Fits() {
		return errInvariant("bounds %+v exceed %d", b.bounds, MaxWidth)
	}
	for c := range b.cells {
		if c == Castle {
			continue
		}
		if !b.HasNode(c.ID()) {
			return errInvariant("cell %v is not a graph node", c)
		}
	}
	for id, adj := range b.graph {
		c := CoordFromID(id)
		s, ok := b.cells[c]
		if !ok || c == Castle {
			return errInvariant("graph node %v is not a placed cell", c)
		}
		for n := range adj {
			nc := CoordFromID(n)
			ns, ok := b.cells[nc]
			if !ok {
				return errInvariant("edge %v-%v references empty cell", c, nc)
			}
			if !c.Adjacent(nc) {
				return errInvariant("edge %v-%v is not adjacent", c, nc)
			}
			if ns.Terrain() != s.Terrain() {
				return errInvariant("edge %v-%v joins different terrains", c, nc)
			}
			if _, ok := b.graph[n][id]; !ok {
				return errInvariant("edge %v-%v is not symmetric", c, nc)
			}
		}
	}
	return nil
}
