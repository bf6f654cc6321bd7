package board

// InCheck reports whether the piece on sq is attacked by the other colour.
// The colour under attack is the one whose union holds sq; an empty or
// invalid square is never in check.
//
// Attacks are symmetric, so the square is treated in turn as each enemy piece
// type and its pattern from sq is tested against the real enemy pieces of that
// type. Pawns are the exception and use the defending colour's capture pattern.
func (t *Tables) InCheck(p Position, sq Square) bool {
	bb := SquareBB(sq)
	switch {
	case p.occupied[White]&bb != 0:
		return t.attacked(p, sq, White)
	case p.occupied[Black]&bb != 0:
		return t.attacked(p, sq, Black)
	default:
		return false
	}
}

// attacked reports whether sq, held by us, is attacked.
func (t *Tables) attacked(p Position, sq Square, us Color) bool {
	them := us.Other()
	enemy := &p.pieces[them]

	if t.PawnCapture[us][sq]&enemy[Pawn] != 0 {
		return true
	}
	if t.Knight[sq]&enemy[Knight] != 0 {
		return true
	}
	if t.King[sq]&enemy[King] != 0 {
		return true
	}

	targets := p.empty | p.occupied[them]
	if t.slider(p, sq, targets, bishopDirections)&(enemy[Bishop]|enemy[Queen]) != 0 {
		return true
	}
	return t.slider(p, sq, targets, rookDirections)&(enemy[Rook]|enemy[Queen]) != 0
}

// EnPassant returns the en passant destination available to the pawn on sq,
// or Empty. The previous move must have been a two-row pawn advance landing
// beside sq, and the capturing side's king must not already be in check.
func (t *Tables) EnPassant(p Position, sq Square) Bitboard {
	from, to := p.prevFrom, p.prevTo
	if !from.IsValid() || !to.IsValid() || !sq.IsValid() {
		return Empty
	}
	if abs(from.Row()-to.Row()) != 2 || sq.Row() != to.Row() || abs(sq.File()-to.File()) != 1 {
		return Empty
	}

	passed, capturer := p.PieceAt(to), p.PieceAt(sq)
	if passed.Type() != Pawn || capturer.Type() != Pawn || passed.Color() == capturer.Color() {
		return Empty
	}

	if t.InCheck(p, p.KingSquare(capturer.Color())) {
		return Empty
	}

	return SquareBB(Square((int(from) + int(to)) / 2))
}

// castle describes one castling move.
type castle struct {
	color    Color
	kingSide bool
	king     Square
	dest     Square
	rook     Square
	rookTo   Square
	between  Bitboard // must be empty
	notional Bitboard // king stand-ins while testing for attacks
	safe     [3]Square
}

var castles = [4]castle{
	{White, true, E1, G1, H1, F1, sqs(F1, G1), sqs(F1, G1), [3]Square{E1, F1, G1}},
	{White, false, E1, C1, A1, D1, sqs(B1, C1, D1), sqs(C1, D1), [3]Square{E1, D1, C1}},
	{Black, true, E8, G8, H8, F8, sqs(F8, G8), sqs(F8, G8), [3]Square{E8, F8, G8}},
	{Black, false, E8, C8, A8, D8, sqs(B8, C8, D8), sqs(C8, D8), [3]Square{E8, D8, C8}},
}

func sqs(squares ...Square) Bitboard {
	var bb Bitboard
	for _, sq := range squares {
		bb |= SquareBB(sq)
	}
	return bb
}

// castleFor returns the castling move of a king from one square to another.
func castleFor(from, to Square) (castle, bool) {
	for _, c := range castles {
		if c.king == from && c.dest == to {
			return c, true
		}
	}
	return castle{}, false
}

// Castling returns the castling destinations available to the king on
// kingSq. Each side is checked on its own: the right must remain, the king and
// rook must stand on their home squares, the squares between them must be
// empty, and neither the king's square nor any square it crosses or lands on
// may be attacked.
func (t *Tables) Castling(p Position, kingSq Square) Bitboard {
	var moves Bitboard
	for _, c := range castles {
		if kingSq != c.king || !p.castling.CanCastle(c.color, c.kingSide) {
			continue
		}
		if p.pieces[c.color][King]&SquareBB(c.king) == 0 || p.pieces[c.color][Rook]&SquareBB(c.rook) == 0 {
			continue
		}
		if p.all&c.between != 0 {
			continue
		}

		pieces := p.pieces
		pieces[c.color][King] |= c.notional
		probe := p.withPieces(pieces)

		safe := true
		for _, sq := range c.safe {
			if t.InCheck(probe, sq) {
				safe = false
				break
			}
		}
		if safe {
			moves |= SquareBB(c.dest)
		}
	}
	return moves
}
