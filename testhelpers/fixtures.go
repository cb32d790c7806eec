// Package testhelpers has sides, dominoes and small kingdoms shared by the
// tests of several packages.
package testhelpers

import (
	"fmt"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/tiles"
)

var (
	Wheat0  = tiles.MustNewSide(0, tiles.Wheat)
	Wheat1  = tiles.MustNewSide(1, tiles.Wheat)
	Water0  = tiles.MustNewSide(0, tiles.Water)
	Water1  = tiles.MustNewSide(1, tiles.Water)
	Forest0 = tiles.MustNewSide(0, tiles.Forest)
	Forest1 = tiles.MustNewSide(1, tiles.Forest)
	Cave0   = tiles.MustNewSide(0, tiles.Cave)
	Cave2   = tiles.MustNewSide(2, tiles.Cave)
	Sheep0  = tiles.MustNewSide(0, tiles.Sheep)
	Sheep1  = tiles.MustNewSide(1, tiles.Sheep)
)

// BoardFromMoves plays the moves on a fresh board and panics if any of them
// is illegal.
func BoardFromMoves(moves ...move.Move) *board.Board {
	b := board.NewBoard()
	for _, m := range moves {
		if err := b.PlaceMove(m); err != nil {
			panic(fmt.Sprintf("fixture: %v", err))
		}
	}
	return b
}

// WaterRunMoves builds a wheat cell, a three-cell water run with three
// crowns, and two lone cells (forest and cave). The last move is anchored on
// its second side. The kingdom scores 9.
func WaterRunMoves() []move.Move {
	d1 := tiles.NewDomino(Wheat0, Water1, 20)
	d2 := tiles.NewDomino(Water1, Forest0, 32)
	d3 := tiles.NewDomino(Cave0, Water1, 31)
	return []move.Move{
		move.New(d1, false, 4, 3, 0, -1),
		move.New(d2, false, 3, 2, -1, 0),
		move.New(d3, true, 5, 2, 1, 0),
	}
}

// SplitWaterMoves leaves two water regions on either side of the castle:
// two cells with two crowns on the right, two cells with one crown on the
// left. MergingMove joins them.
func SplitWaterMoves() []move.Move {
	a := tiles.NewDomino(Water1, Water1, 99)
	b := tiles.NewDomino(Water1, Water0, 30)
	return []move.Move{
		move.New(a, false, 4, 5, -1, 0),
		move.New(b, false, 4, 3, -1, 0),
	}
}

// MergingMove puts a crownless water cell on (3,4), touching both regions
// of SplitWaterMoves, and a sheep above it.
func MergingMove() move.Move {
	return move.New(tiles.NewDomino(Water0, Sheep0, 37), false, 3, 4, -1, 0)
}

// SmallTileSet is two distinct dominoes, small enough to brute force.
func SmallTileSet() []tiles.Domino {
	return []tiles.Domino{
		tiles.NewDomino(Water1, Water0, 30),
		tiles.NewDomino(Wheat1, Water0, 20),
	}
}
