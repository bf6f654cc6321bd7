package board

import "fmt"

// Move is a (source, destination) pair. Promotion, castling and en passant are
// worked out from the position when the move is applied.
type Move struct {
	From Square
	To   Square
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// String returns the coordinate form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses coordinate notation such as "e2e4". Source and destination
// must be distinct.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}

	if from == to {
		return NoMove, fmt.Errorf("%w: %q: source equals destination", ErrInvalidMove, s)
	}

	return NewMove(from, to), nil
}

// PromotionChooser picks the piece a human's pawn promotes to.
type PromotionChooser interface {
	ChoosePromotion() PieceType
}

// PromotionFunc adapts a function to PromotionChooser.
type PromotionFunc func() PieceType

// ChoosePromotion calls f.
func (f PromotionFunc) ChoosePromotion() PieceType {
	return f()
}
