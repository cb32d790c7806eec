package tiles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A Side is one half of a domino: a terrain and some number of crowns.
// Sides are compared with ==.
type Side struct {
	crowns  uint8
	terrain Terrain
}

// CastleSide is what sits in the middle of every board.
var CastleSide = Side{terrain: Castle}

// NewSide validates its input. Castles can't be put on dominoes.
func NewSide(crowns int, terrain Terrain) (Side, error) {
	if crowns < 0 {
		return Side{}, fmt.Errorf("%w: %d", ErrNegativeCrowns, crowns)
	}
	if crowns > math.MaxUint8 {
		return Side{}, fmt.Errorf("%w: %d", ErrTooManyCrowns, crowns)
	}
	if !terrain.Valid() {
		return Side{}, fmt.Errorf("%w: %v", ErrUnknownTerrain, terrain)
	}
	if terrain == Castle {
		return Side{}, ErrReservedTerrain
	}
	return Side{crowns: uint8(crowns), terrain: terrain}, nil
}

// MustNewSide is NewSide for static catalogs. Malformed input is a
// programming error, so it panics.
func MustNewSide(crowns int, terrain Terrain) Side {
	s, err := NewSide(crowns, terrain)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSide parses strings like "water:1" or "forest" (no crowns).
func ParseSide(s string) (Side, error) {
	name, crownStr, found := strings.Cut(s, ":")
	t, err := TerrainFromString(name)
	if err != nil {
		return Side{}, err
	}
	crowns := 0
	if found {
		crowns, err = strconv.Atoi(strings.TrimSpace(crownStr))
		if err != nil {
			return Side{}, fmt.Errorf("%w: %q", ErrNegativeCrowns, crownStr)
		}
	}
	return NewSide(crowns, t)
}

func (s Side) Crowns() int {
	return int(s.crowns)
}

func (s Side) Terrain() Terrain {
	return s.terrain
}

func (s Side) String() string {
	return s.terrain.String() + ", k=" + strconv.Itoa(int(s.crowns))
}

// less is a total order on sides, used to canonicalize dominoes.
func (s Side) less(o Side) bool {
	if s.terrain != o.terrain {
		return s.terrain < o.terrain
	}
	return s.crowns < o.crowns
}
