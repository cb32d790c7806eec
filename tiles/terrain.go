package tiles

import (
	"errors"
	"fmt"
	"strings"
)

// Terrain is the landscape printed on one half of a domino.
type Terrain uint8

const (
	Wheat Terrain = iota
	Water
	Forest
	Cave
	Wasteland
	Sheep
	// Castle only ever appears on the center cell of a board.
	Castle
)

var (
	ErrUnknownTerrain  = errors.New("unrecognized terrain")
	ErrReservedTerrain = errors.New("castle terrain is reserved for the board center")
	ErrNegativeCrowns  = errors.New("crowns must be a non-negative integer")
	ErrTooManyCrowns   = errors.New("crowns must be at most 255")
)

var terrainNames = [...]string{
	Wheat:     "wheat",
	Water:     "water",
	Forest:    "forest",
	Cave:      "cave",
	Wasteland: "wasteland",
	Sheep:     "sheep",
	Castle:    "castle",
}

var terrainAbbrevs = [...]string{
	Wheat:     "wh",
	Water:     "wa",
	Forest:    "fo",
	Cave:      "ca",
	Wasteland: "ws",
	Sheep:     "sh",
	Castle:    "CC",
}

// Abbrev is a two-letter code, unique per terrain.
func (t Terrain) Abbrev() string {
	if int(t) < len(terrainAbbrevs) {
		return terrainAbbrevs[t]
	}
	return "??"
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// Valid returns whether t is one of the known terrains.
func (t Terrain) Valid() bool {
	return t <= Castle
}

// ScoringTerrains are the terrains that can appear on a domino.
func ScoringTerrains() []Terrain {
	return []Terrain{Wheat, Water, Forest, Cave, Wasteland, Sheep}
}

// TerrainFromString parses a terrain name (case-insensitive).
func TerrainFromString(s string) (Terrain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range terrainNames {
		if name == s {
			return Terrain(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTerrain, s)
}
