package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/bitchess/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Side  board.Color
	Depth int
	Move  board.Move
	Score int
	Nodes uint64
	Time  time.Duration
}

// Engine is the computer player: a Searcher with a configured depth.
type Engine struct {
	searcher *Searcher
	tables   *board.Tables
	depth    int
	log      zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine searching DefaultDepth plies.
func NewEngine(tb *board.Tables, log zerolog.Logger) *Engine {
	return &Engine{
		searcher: NewSearcher(tb),
		tables:   tb,
		depth:    DefaultDepth,
		log:      log.With().Str("component", "engine").Logger(),
	}
}

// SetDepth sets the search depth in plies. Depths below 1 are raised to 1.
func (e *Engine) SetDepth(depth int) {
	e.depth = max(depth, 1)
}

// Depth returns the search depth in plies.
func (e *Engine) Depth() int {
	return e.depth
}

// Search finds side's move in p. It returns board.NoMove when side has no
// legal moves.
func (e *Engine) Search(p board.Position, side board.Color) board.Move {
	e.searcher.Reset()

	start := time.Now()
	move, score := e.searcher.Search(p, e.depth, side)
	info := SearchInfo{
		Side:  side,
		Depth: e.depth,
		Move:  move,
		Score: score,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(start),
	}

	e.log.Debug().
		Stringer("side", side).
		Int("depth", info.Depth).
		Stringer("move", move).
		Int("score", score).
		Uint64("nodes", info.Nodes).
		Dur("elapsed", info.Time).
		Msg("search finished")

	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move
}

// Evaluate returns the static evaluation of p from perspective's side.
func (e *Engine) Evaluate(p board.Position, perspective board.Color) int {
	return Evaluate(e.tables, p, perspective)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= MateScore:
		return "Mate"
	case score <= -MateScore:
		return "Mated"
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
