package board

import (
	"math/bits"
	"strings"
)

// Bitboard represents a set of squares: bit i is set when square i is a member.
// Bit 0 = a8, bit 7 = h8, bit 56 = a1, bit 63 = h1.
type Bitboard uint64

// Back-row masks (row 0 is rank 8).
const (
	Row8 Bitboard = 0x00000000000000FF
	Row1 Bitboard = 0xFF00000000000000
)

// Empty is the bitboard with no squares set.
const Empty Bitboard = 0

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	if sq >= NoSquare {
		return Empty
	}
	return 1 << sq
}

// Set sets a bit at the given square.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | SquareBB(sq)
}

// Clear clears a bit at the given square.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ SquareBB(sq)
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&SquareBB(sq) != 0
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest set square.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest set square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Shift moves every member step squares along the board index; negative
// steps shift toward a8. Bits falling off either end are dropped.
func (b Bitboard) Shift(step int) Bitboard {
	if step >= 0 {
		return b << uint(step)
	}
	return b >> uint(-step)
}

// String renders the set as an 8x8 grid of 1s and dots, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, row)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

// Squares returns the members in ascending order.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLSB())
	}
	return squares
}
