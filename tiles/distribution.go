package tiles

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotEnoughTiles = errors.New("not enough tiles in the box")

// A Distribution is a fixed, ordered catalog of dominoes.
type Distribution struct {
	Name     string
	Dominoes []Domino
}

type catalogEntry struct {
	aTerrain Terrain
	aCrowns  int
	bTerrain Terrain
	bCrowns  int
}

// The base game's 48 dominoes, in number order. Grassland is Sheep, swamp is
// Wasteland and mine is Cave.
var standardCatalog = [48]catalogEntry{
	{Wheat, 0, Wheat, 0},
	{Wheat, 0, Wheat, 0},
	{Forest, 0, Forest, 0},
	{Forest, 0, Forest, 0},
	{Forest, 0, Forest, 0},
	{Forest, 0, Forest, 0},
	{Water, 0, Water, 0},
	{Water, 0, Water, 0},
	{Water, 0, Water, 0},
	{Sheep, 0, Sheep, 0},
	{Sheep, 0, Sheep, 0},
	{Wasteland, 0, Wasteland, 0},
	{Wheat, 0, Forest, 0},
	{Wheat, 0, Water, 0},
	{Wheat, 0, Sheep, 0},
	{Wheat, 0, Wasteland, 0},
	{Forest, 0, Water, 0},
	{Forest, 0, Sheep, 0},
	{Wheat, 1, Forest, 0},
	{Wheat, 1, Water, 0},
	{Wheat, 1, Sheep, 0},
	{Wheat, 1, Wasteland, 0},
	{Wheat, 1, Cave, 0},
	{Forest, 1, Wheat, 0},
	{Forest, 1, Wheat, 0},
	{Forest, 1, Wheat, 0},
	{Forest, 1, Wheat, 0},
	{Forest, 1, Water, 0},
	{Forest, 1, Sheep, 0},
	{Water, 1, Wheat, 0},
	{Water, 1, Wheat, 0},
	{Water, 1, Forest, 0},
	{Water, 1, Forest, 0},
	{Water, 1, Forest, 0},
	{Water, 1, Forest, 0},
	{Wheat, 0, Sheep, 1},
	{Water, 0, Sheep, 1},
	{Wheat, 0, Wasteland, 1},
	{Sheep, 0, Wasteland, 1},
	{Cave, 1, Wheat, 0},
	{Wheat, 0, Sheep, 2},
	{Water, 0, Sheep, 2},
	{Wheat, 0, Wasteland, 2},
	{Sheep, 0, Wasteland, 2},
	{Cave, 2, Wheat, 0},
	{Wasteland, 0, Cave, 2},
	{Wasteland, 0, Cave, 2},
	{Wheat, 0, Cave, 3},
}

// StandardDistribution returns the full 48-domino catalog, numbered 1-48.
func StandardDistribution() *Distribution {
	ds := make([]Domino, len(standardCatalog))
	for i, e := range standardCatalog {
		ds[i] = NewDomino(MustNewSide(e.aCrowns, e.aTerrain),
			MustNewSide(e.bCrowns, e.bTerrain), i+1)
	}
	return &Distribution{Name: "standard", Dominoes: ds}
}

// LibrarySize is how many dominoes a game with this many players uses.
func LibrarySize(players int) (int, error) {
	switch players {
	case 4:
		return 48, nil
	case 3:
		return 36, nil
	case 2:
		return 24, nil
	}
	return 0, fmt.Errorf("unsupported number of players: %d", players)
}

// Find parses a domino written as two sides separated by a slash, e.g.
// "water:1/forest", and returns the first catalog domino with those sides.
func (d *Distribution) Find(s string) (Domino, error) {
	first, second, ok := strings.Cut(s, "/")
	if !ok {
		return Domino{}, fmt.Errorf("domino %q: want two sides separated by /", s)
	}
	a, err := ParseSide(first)
	if err != nil {
		return Domino{}, err
	}
	b, err := ParseSide(second)
	if err != nil {
		return Domino{}, err
	}
	want := NewDomino(a, b, 0)
	for _, dom := range d.Dominoes {
		if dom.Equal(want) {
			return dom, nil
		}
	}
	return Domino{}, fmt.Errorf("no domino %v|%v in %s distribution", a, b, d.Name)
}

// Numbered returns the domino with the given catalog number.
func (d *Distribution) Numbered(n int) (Domino, error) {
	for _, dom := range d.Dominoes {
		if dom.number == n {
			return dom, nil
		}
	}
	return Domino{}, fmt.Errorf("no domino numbered %d in %s distribution", n, d.Name)
}
