// Package engine implements the fixed-depth alpha-beta search and the
// material and centrality evaluator.
package engine

import (
	"github.com/hailam/bitchess/internal/board"
)

// Evaluation constants
const (
	MateScore = 1_000_000

	// openingMaterial is the combined material below which minor pieces and
	// pawns are drawn to the centre and heavy pieces kept away from it.
	openingMaterial = 6000

	minorCentralityWeight = 2
	heavyCentralityWeight = -5
)

// Evaluate scores p from perspective's point of view.
//
// A mated perspective scores -MateScore and a mated opponent +MateScore,
// whoever is nominally to move. Otherwise the score is the material
// difference plus the centrality difference.
func Evaluate(tb *board.Tables, p board.Position, perspective board.Color) int {
	opp := perspective.Other()

	if mated(tb, p, perspective) {
		return -MateScore
	}
	if mated(tb, p, opp) {
		return MateScore
	}

	material := p.Material(perspective) - p.Material(opp)
	return material + positional(p, perspective) - positional(p, opp)
}

// mated reports whether c's king is attacked and c has no legal move.
func mated(tb *board.Tables, p board.Position, c board.Color) bool {
	return tb.InCheck(p, p.KingSquare(c)) && !tb.HasLegalMoves(p, c)
}

// positional returns the centrality term for one colour.
func positional(p board.Position, c board.Color) int {
	score := 0

	if p.Material(board.White)+p.Material(board.Black) < openingMaterial {
		minors := p.Pieces(c, board.Pawn) | p.Pieces(c, board.Knight) | p.Pieces(c, board.Bishop)
		heavies := p.Pieces(c, board.Rook) | p.Pieces(c, board.Queen)
		for minors != 0 {
			score += minorCentralityWeight * minors.PopLSB().Centrality()
		}
		for heavies != 0 {
			score += heavyCentralityWeight * heavies.PopLSB().Centrality()
		}
		return score
	}

	all := p.Occupancy(c)
	for all != 0 {
		score += all.PopLSB().Centrality()
	}
	return score
}
