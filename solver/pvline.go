package solver

import (
	"fmt"
	"strings"

	"github.com/castlebuilder/kingmaker/move"
)

// PVLine is the best line of play found: the moves in the order they were
// placed and the score of the finished kingdom.
type PVLine struct {
	Moves []move.Move
	Score int
}

// record replaces the line with a copy of moves.
func (pvLine *PVLine) record(moves []move.Move, score int) {
	pvLine.Moves = append([]move.Move(nil), moves...)
	pvLine.Score = score
}

func (pvLine PVLine) format(sep string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; score %d%s", pvLine.Score, sep)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s%s", i+1, m.ShortDescription(), sep)
	}
	return sb.String()
}

// String prints one move per line.
func (pvLine PVLine) String() string {
	return pvLine.format("\n")
}

// NLBString is String with no line breaks, for logging.
func (pvLine PVLine) NLBString() string {
	return pvLine.format("; ")
}
