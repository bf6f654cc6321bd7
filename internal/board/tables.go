package board

// Direction identifies one of the eight sliding rays.
type Direction uint8

const (
	Right     Direction = iota // toward file h
	Left                       // toward file a
	Up                         // toward rank 8
	Down                       // toward rank 1
	UpRight                    // 45 degrees
	UpLeft                     // 135 degrees
	DownLeft                   // 225 degrees
	DownRight                  // 315 degrees
)

// Step is the square index delta of one move along the ray.
func (d Direction) Step() int {
	return directionStep[d]
}

var (
	directionStep  = [8]int{1, -1, -8, 8, -7, -9, 7, 9}
	directionDelta = [8][2]int{{1, 0}, {-1, 0}, {0, -1}, {0, 1}, {1, -1}, {-1, -1}, {-1, 1}, {1, 1}} // {file, row}

	rookDirections   = [4]Direction{Right, Left, Up, Down}
	bishopDirections = [4]Direction{UpRight, UpLeft, DownLeft, DownRight}
)

// Tables holds the per-square lookup masks used by move generation and check
// detection. A Tables value is read-only after construction and is passed to
// every operation that needs board geometry.
type Tables struct {
	SquareValue    [64]Bitboard    // single-bit mask of each square
	PawnPush       [2][64]Bitboard // [Color][Square] one step forward
	PawnDoublePush [2][64]Bitboard // [Color][Square] two steps forward, start row only
	PawnCapture    [2][64]Bitboard // [Color][Square] forward diagonals
	Knight         [64]Bitboard
	King           [64]Bitboard
	Ray            [8][64]Bitboard // [Direction][Square] squares strictly beyond the square
}

// NewTables computes the direction tables.
func NewTables() *Tables {
	t := &Tables{}
	for sq := A8; sq <= H1; sq++ {
		file, row := sq.File(), sq.Row()
		t.SquareValue[sq] = SquareBB(sq)

		t.PawnPush[White][sq] = offset(file, row, 0, -1)
		t.PawnPush[Black][sq] = offset(file, row, 0, 1)
		if row == pawnStartRow[White] {
			t.PawnDoublePush[White][sq] = offset(file, row, 0, -2)
		}
		if row == pawnStartRow[Black] {
			t.PawnDoublePush[Black][sq] = offset(file, row, 0, 2)
		}
		t.PawnCapture[White][sq] = offset(file, row, -1, -1) | offset(file, row, 1, -1)
		t.PawnCapture[Black][sq] = offset(file, row, -1, 1) | offset(file, row, 1, 1)

		for _, d := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			t.Knight[sq] |= offset(file, row, d[0], d[1])
		}
		for _, d := range directionDelta {
			t.King[sq] |= offset(file, row, d[0], d[1])
		}

		for dir, d := range directionDelta {
			var ray Bitboard
			for f, r := file+d[0], row+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
				ray |= SquareBB(NewSquare(f, r))
			}
			t.Ray[dir][sq] = ray
		}
	}
	return t
}

// pawnStartRow is the row each colour's pawns start on.
var pawnStartRow = [2]int{6, 1}

// promotionRow is the row on which each colour's pawns promote.
var promotionRow = [2]int{0, 7}

func onBoard(file, row int) bool {
	return file >= 0 && file < 8 && row >= 0 && row < 8
}

func offset(file, row, df, dr int) Bitboard {
	if !onBoard(file+df, row+dr) {
		return Empty
	}
	return SquareBB(NewSquare(file+df, row+dr))
}
