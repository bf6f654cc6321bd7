package engine

import (
	"github.com/hailam/bitchess/internal/board"
)

// Search constants
const (
	Infinity     = 2_000_000_000
	DefaultDepth = 3
)

// Searcher performs the fixed-depth alpha-beta search.
//
// Scores are always taken from one fixed perspective rather than negated per
// ply: maximizing nodes are the perspective side's turn and minimizing nodes
// its opponent's. Callers keep maximizing consistent with whose turn it is.
type Searcher struct {
	tables *board.Tables
	nodes  uint64
}

// NewSearcher creates a new searcher.
func NewSearcher(tb *board.Tables) *Searcher {
	return &Searcher{tables: tb}
}

// Reset clears the node count.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of positions visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// FindBestMove returns side's best move at the given depth, or board.NoMove
// when side has no legal moves.
func (s *Searcher) FindBestMove(p board.Position, depth int, side board.Color) board.Move {
	m, _ := s.Search(p, depth, side)
	return m
}

// Search is FindBestMove that also returns the chosen move's score.
//
// Moves are tried in generator order. One that mates at once is returned
// without searching further; otherwise every reply tree is searched with a
// fresh full window and the strictly greatest score wins, so the first of
// equal moves is kept.
func (s *Searcher) Search(p board.Position, depth int, side board.Color) (board.Move, int) {
	tb := s.tables
	opp := side.Other()

	best, bestScore := board.NoMove, -Infinity
	for i, m := range tb.LegalMoves(p, side) {
		next, err := tb.Apply(p, m, nil)
		if err != nil {
			continue
		}
		s.nodes++

		if tb.InCheck(next, next.KingSquare(opp)) && !tb.HasLegalMoves(next, opp) {
			return m, MateScore
		}

		score := s.AlphaBeta(next, depth-1, -Infinity, Infinity, false, side)
		if i == 0 || score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore
}

// AlphaBeta returns the score of p from perspective's point of view searched
// depth plies deep. The side to move is perspective when maximizing and its
// opponent otherwise.
//
// Leaves (depth <= 0 or no legal moves) are scored by Evaluate. A maximizing
// node raises alpha, a minimizing node lowers beta, and both stop once
// beta <= alpha.
func (s *Searcher) AlphaBeta(p board.Position, depth, alpha, beta int, maximizing bool, perspective board.Color) int {
	tb := s.tables

	toMove := perspective
	if !maximizing {
		toMove = perspective.Other()
	}

	if depth <= 0 {
		return Evaluate(tb, p, perspective)
	}
	moves := tb.LegalMoves(p, toMove)
	if len(moves) == 0 {
		return Evaluate(tb, p, perspective)
	}

	bestVal := 0
	for i, m := range moves {
		next, err := tb.Apply(p, m, nil)
		if err != nil {
			continue
		}
		s.nodes++

		val := s.AlphaBeta(next, depth-1, alpha, beta, !maximizing, perspective)

		if maximizing {
			if i == 0 || val > bestVal {
				bestVal = val
			}
			alpha = max(alpha, bestVal)
		} else {
			if i == 0 || val < bestVal {
				bestVal = val
			}
			beta = min(beta, bestVal)
		}

		if beta <= alpha {
			break
		}
	}

	return bestVal
}
