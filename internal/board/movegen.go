package board

import "fmt"

// PseudoLegal returns the destinations the piece on sq can move to under the
// piece movement rules, without checking whether the move leaves its own king
// attacked.
func (t *Tables) PseudoLegal(p Position, sq Square) (Bitboard, error) {
	if !sq.IsValid() {
		return Empty, fmt.Errorf("%w: %d", ErrInvalidSquare, sq)
	}
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return Empty, fmt.Errorf("%w: %s", ErrEmptySquare, sq)
	}

	us := piece.Color()
	targets := p.empty | p.occupied[us.Other()]

	switch piece.Type() {
	case Pawn:
		return t.pawnMoves(p, sq, us) | t.EnPassant(p, sq), nil
	case Knight:
		return t.Knight[sq] & targets, nil
	case Bishop:
		return t.slider(p, sq, targets, bishopDirections), nil
	case Rook:
		return t.slider(p, sq, targets, rookDirections), nil
	case Queen:
		return t.slider(p, sq, targets, bishopDirections) | t.slider(p, sq, targets, rookDirections), nil
	default:
		return t.King[sq]&targets | t.Castling(p, sq), nil
	}
}

// pawnMoves returns pushes onto empty squares and captures onto enemy pieces.
// The double push needs the single-push square to be empty too.
func (t *Tables) pawnMoves(p Position, sq Square, us Color) Bitboard {
	moves := t.PawnPush[us][sq] & p.empty
	if moves != 0 && sq.Row() == pawnStartRow[us] {
		moves |= t.PawnDoublePush[us][sq] & p.empty
	}
	return moves | t.PawnCapture[us][sq]&p.occupied[us.Other()]
}

// slider returns the union of ray moves in the given directions.
func (t *Tables) slider(p Position, sq Square, targets Bitboard, dirs [4]Direction) Bitboard {
	var moves Bitboard
	for _, d := range dirs {
		moves |= t.rayMoves(p, sq, d, targets)
	}
	return moves
}

// rayMoves returns the squares along one ray up to and including the first
// occupied square, restricted to targets.
//
// The occupied squares on the ray are shifted one to six further steps along
// it; what remains inside the ray is everything beyond the first blocker.
// XOR with the full ray leaves the squares before it and the blocker itself.
func (t *Tables) rayMoves(p Position, sq Square, d Direction, targets Bitboard) Bitboard {
	ray := t.Ray[d][sq]
	blockers := ray & p.all
	if blockers == 0 {
		return ray & targets
	}

	step := d.Step()
	var beyond Bitboard
	for i := 1; i <= 6; i++ {
		beyond |= blockers.Shift(i * step)
	}
	beyond &= ray

	return (beyond ^ ray) & targets
}

// IsLegal reports whether side may play m: the source holds one of its
// pieces, the destination is a pseudo-legal target, and afterwards its king is
// not attacked.
func (t *Tables) IsLegal(p Position, side Color, m Move) bool {
	if !m.From.IsValid() || !m.To.IsValid() || p.PieceAt(m.From).Color() != side {
		return false
	}
	targets, err := t.PseudoLegal(p, m.From)
	if err != nil || targets&SquareBB(m.To) == 0 {
		return false
	}
	return t.keepsKingSafe(p, side, m)
}

// keepsKingSafe applies m as an automated move and reports whether side's king
// is left unattacked.
func (t *Tables) keepsKingSafe(p Position, side Color, m Move) bool {
	next, err := t.Apply(p, m, nil)
	if err != nil {
		return false
	}
	return !t.InCheck(next, next.KingSquare(side))
}

// LegalMoves returns every legal move of side, ordered by ascending source
// square and then ascending destination square.
func (t *Tables) LegalMoves(p Position, side Color) []Move {
	var moves []Move
	own := p.occupied[side]
	for own != 0 {
		from := own.PopLSB()
		targets, _ := t.PseudoLegal(p, from)
		for targets != 0 {
			m := NewMove(from, targets.PopLSB())
			if t.keepsKingSafe(p, side, m) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// HasLegalMoves reports whether side has at least one legal move.
func (t *Tables) HasLegalMoves(p Position, side Color) bool {
	own := p.occupied[side]
	for own != 0 {
		from := own.PopLSB()
		targets, _ := t.PseudoLegal(p, from)
		for targets != 0 {
			if t.keepsKingSafe(p, side, NewMove(from, targets.PopLSB())) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether side is in check with no legal moves.
func (t *Tables) IsCheckmate(p Position, side Color) bool {
	return t.InCheck(p, p.KingSquare(side)) && !t.HasLegalMoves(p, side)
}

// IsStalemate reports whether side is not in check but has no legal moves.
func (t *Tables) IsStalemate(p Position, side Color) bool {
	return !t.InCheck(p, p.KingSquare(side)) && !t.HasLegalMoves(p, side)
}
