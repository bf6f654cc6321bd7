package board

import (
	"fmt"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns the position and the side to move.
// Move counters are accepted but not kept. Castling rights are limited to
// those a king and rook on their home squares can support, and an en passant
// target is turned into the double pawn push that produced it.
func ParseFEN(fen string) (Position, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return Position{}, White, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrInvalidPosition, len(parts))
	}

	var pieces [2][6]Bitboard
	if err := parsePiecePlacement(&pieces, parts[0]); err != nil {
		return Position{}, White, err
	}

	var side Color
	switch parts[1] {
	case "w":
		side = White
	case "b":
		side = Black
	default:
		return Position{}, White, fmt.Errorf("%w: invalid side to move %q", ErrInvalidPosition, parts[1])
	}

	castling, err := parseCastlingRights(parts[2])
	if err != nil {
		return Position{}, White, err
	}

	p := newPosition(pieces, castling&homeCastling(pieces))

	if parts[3] != "-" {
		target, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, White, fmt.Errorf("%w: en passant: %w", ErrInvalidPosition, err)
		}
		// The side that just moved is the one not on move.
		mover := side.Other()
		var from, to Square
		switch {
		case mover == White && target.Row() == 5:
			from, to = target+8, target-8
		case mover == Black && target.Row() == 2:
			from, to = target-8, target+8
		default:
			return Position{}, White, fmt.Errorf("%w: en passant square %s", ErrInvalidPosition, target)
		}
		if p.PieceAt(to) != NewPiece(Pawn, mover) {
			return Position{}, White, fmt.Errorf("%w: no pawn passed %s", ErrInvalidPosition, target)
		}
		p.prevFrom, p.prevTo = from, to
	}

	if err := p.Validate(); err != nil {
		return Position{}, White, err
	}
	return p, side, nil
}

// parsePiecePlacement parses the piece placement field of a FEN string.
func parsePiecePlacement(pieces *[2][6]Bitboard, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidPosition, len(ranks))
	}

	for row, rankStr := range ranks {
		file := 0
		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidPosition, 8-row)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidPosition, c)
			}
			pieces[piece.Color()][piece.Type()] |= SquareBB(NewSquare(file, row))
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidPosition, 8-row, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling field of a FEN string.
func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return NoCastling, fmt.Errorf("%w: invalid castling character %q", ErrInvalidPosition, c)
		}
	}
	return cr, nil
}

// FEN returns the FEN representation of the position with side to move.
// The clocks are not tracked and are always written as "0 1".
func (p Position) FEN(side Color) string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, row))
			if piece == NoPiece {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteString(piece.String())
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	if side == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.enPassantTarget().String())
	sb.WriteString(" 0 1")

	return sb.String()
}

// enPassantTarget returns the square passed over by a double pawn push on the
// previous move, or NoSquare.
func (p Position) enPassantTarget() Square {
	from, to := p.prevFrom, p.prevTo
	if !from.IsValid() || !to.IsValid() || abs(from.Row()-to.Row()) != 2 {
		return NoSquare
	}
	if p.PieceAt(to).Type() != Pawn {
		return NoSquare
	}
	return Square((int(from) + int(to)) / 2)
}
