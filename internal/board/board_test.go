package board

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// checkUnions verifies the derived unions and material against the piece masks.
func checkUnions(t *testing.T, p Position) {
	t.Helper()
	var white, black Bitboard
	for pt := Pawn; pt <= King; pt++ {
		if white&p.Pieces(White, pt) != 0 || black&p.Pieces(Black, pt) != 0 {
			t.Fatalf("overlapping masks:\n%v", p)
		}
		white |= p.Pieces(White, pt)
		black |= p.Pieces(Black, pt)
	}
	if white&black != 0 {
		t.Fatalf("square held by both colours:\n%v", p)
	}
	if p.Occupancy(White) != white || p.Occupancy(Black) != black {
		t.Fatalf("colour unions stale:\n%v", p)
	}
	if p.Occupied() != white|black || p.Empty() != ^(white|black) {
		t.Fatalf("occupied/empty stale:\n%v", p)
	}
	if m := computeMaterial(p.pieces); m != p.material {
		t.Fatalf("material = %v, want %v", p.material, m)
	}
}

// walk returns the destinations of a slider on sq found by stepping square by
// square, stopping at the first piece and keeping it when it is an enemy.
func walk(p Position, sq Square, us Color, dirs [4]Direction) Bitboard {
	var moves Bitboard
	for _, d := range dirs {
		df, dr := directionDelta[d][0], directionDelta[d][1]
		for f, r := sq.File()+df, sq.Row()+dr; onBoard(f, r); f, r = f+df, r+dr {
			to := NewSquare(f, r)
			piece := p.PieceAt(to)
			if piece == NoPiece {
				moves |= SquareBB(to)
				continue
			}
			if piece.Color() != us {
				moves |= SquareBB(to)
			}
			break
		}
	}
	return moves
}

func TestRandomPlayoutInvariants(t *testing.T) {
	tb := NewTables()
	rng := rand.New(rand.NewSource(7))

	for g := 0; g < 20; g++ {
		pos, side := NewPosition(), White
		for ply := 0; ply < 150; ply++ {
			checkUnions(t, pos)

			own := pos.Occupancy(side)
			for own != 0 {
				sq := own.PopLSB()
				pt := pos.PieceAt(sq).Type()
				if pt != Bishop && pt != Rook && pt != Queen {
					continue
				}
				got, err := tb.PseudoLegal(pos, sq)
				if err != nil {
					t.Fatal(err)
				}
				var want Bitboard
				if pt != Rook {
					want |= walk(pos, sq, side, bishopDirections)
				}
				if pt != Bishop {
					want |= walk(pos, sq, side, rookDirections)
				}
				if got != want {
					t.Fatalf("%v on %v:\n got\n%v\nwant\n%v\nin\n%v", pt, sq, got, want, pos)
				}
			}

			moves := tb.LegalMoves(pos, side)
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				next := mustApply(t, tb, pos, m)
				if tb.InCheck(next, next.KingSquare(side)) {
					t.Fatalf("legal move %v leaves %v king attacked in\n%v", m, side, pos)
				}
			}

			pos = mustApply(t, tb, pos, moves[rng.Intn(len(moves))])
			side = side.Other()
		}
	}
}

func TestGridRoundTrip(t *testing.T) {
	tb := NewTables()
	rng := rand.New(rand.NewSource(3))

	pos, side := NewPosition(), White
	if pos.Grid() != StartGrid {
		t.Fatalf("start grid = %q", pos.Grid())
	}

	for ply := 0; ply < 80; ply++ {
		back, err := FromGrid(pos.Grid())
		if err != nil {
			t.Fatalf("FromGrid(%q): %v", pos.Grid(), err)
		}
		if back.pieces != pos.pieces {
			t.Fatalf("grid round trip changed pieces:\n%v\n%v", pos, back)
		}
		checkUnions(t, back)

		moves := tb.LegalMoves(pos, side)
		if len(moves) == 0 {
			break
		}
		pos = mustApply(t, tb, pos, moves[rng.Intn(len(moves))])
		side = side.Other()
	}
}

func TestFromGridErrors(t *testing.T) {
	tests := []struct {
		name string
		grid [8]string
	}{
		{"short row", [8]string{"rnbqkbn", "pppppppp", "", "", "", "", "PPPPPPPP", "RNBQKBNR"}},
		{"bad character", [8]string{"rnbqkbnx", "pppppppp", "        ", "        ", "        ", "        ", "PPPPPPPP", "RNBQKBNR"}},
		{"no white king", [8]string{"rnbqkbnr", "pppppppp", "        ", "        ", "        ", "        ", "PPPPPPPP", "RNBQ BNR"}},
		{"pawn on back rank", [8]string{"rnbqkbnP", "pppppppp", "        ", "        ", "        ", "        ", "PPPPPPP ", "RNBQKBNR"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromGrid(tc.grid); !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("FromGrid error = %v, want ErrInvalidPosition", err)
			}
		})
	}
}

func TestFENRoundTrip(t *testing.T) {
	tb := NewTables()

	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 1",
		"rnbqkbnr/pppp1ppp/8/8/3Pp3/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1",
		"8/8/8/8/8/8/8/k6K b - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			p, side := mustFEN(t, fen)
			if got := p.FEN(side); got != fen {
				t.Errorf("FEN() = %q, want %q", got, fen)
			}
			checkUnions(t, p)
		})
	}

	// The en passant target is written after a double push.
	p := mustApply(t, tb, NewPosition(), NewMove(E2, E4))
	if got := p.FEN(Black); !strings.Contains(got, " b KQkq e3 ") {
		t.Errorf("FEN after e4 = %q", got)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w kq - 0 1",
	}

	for _, fen := range tests {
		t.Run(fen, func(t *testing.T) {
			if _, _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("ParseFEN error = %v, want ErrInvalidPosition", err)
			}
		})
	}
}

func TestParseFENTrimsUnsupportedCastling(t *testing.T) {
	p, _ := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w KQkq - 0 1")
	if got := p.Castling(); got != WhiteQueenSideCastle {
		t.Errorf("castling = %v, want Q", got)
	}
}

func TestTablesRoundTrip(t *testing.T) {
	tb := NewTables()

	var buf bytes.Buffer
	n, err := tb.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}

	loaded, err := LoadTables(&buf)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if *loaded != *tb {
		t.Error("loaded tables differ from computed tables")
	}
}

func TestLoadTablesErrors(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewTables().WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	full := buf.String()
	lines := strings.Split(full, "\n")

	tests := []struct {
		name string
		src  string
	}{
		{"truncated", strings.Join(lines[:len(lines)/2], "\n")},
		{"bad binary", strings.Replace(full, "// knight\n", "// knight\n102\n", 1)},
		{"wrong square value", strings.Replace(full, "// square values\n1\n", "// square values\n3\n", 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadTables(strings.NewReader(tc.src)); !errors.Is(err, ErrInvalidTables) {
				t.Errorf("LoadTables error = %v, want ErrInvalidTables", err)
			}
		})
	}
}

func TestTablesGeometry(t *testing.T) {
	tb := NewTables()

	tests := []struct {
		name string
		got  Bitboard
		want Bitboard
	}{
		{"knight a8", tb.Knight[A8], sqs(B6, C7)},
		{"king h1", tb.King[H1], sqs(G1, G2, H2)},
		{"white push e2", tb.PawnPush[White][E2], sqs(E3)},
		{"white double push e2", tb.PawnDoublePush[White][E2], sqs(E4)},
		{"white double push e3", tb.PawnDoublePush[White][E3], Empty},
		{"black double push d7", tb.PawnDoublePush[Black][D7], sqs(D5)},
		{"black capture a7", tb.PawnCapture[Black][A7], sqs(B6)},
		{"right f4", tb.Ray[Right][F4], sqs(G4, H4)},
		{"up a6", tb.Ray[Up][A6], sqs(A7, A8)},
		{"45 degrees f6", tb.Ray[UpRight][F6], sqs(G7, H8)},
		{"225 degrees c3", tb.Ray[DownLeft][C3], sqs(B2, A1)},
		{"315 degrees h1", tb.Ray[DownRight][H1], Empty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got.Squares(), tc.want.Squares())
			}
		})
	}
}

func TestSAN(t *testing.T) {
	tb := NewTables()

	tests := []struct {
		fen   string
		move  Move
		promo PieceType
		want  string
	}{
		{StartFEN, NewMove(G1, F3), NoPieceType, "Nf3"},
		{StartFEN, NewMove(E2, E4), NoPieceType, "e4"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", NewMove(E1, G1), NoPieceType, "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", NewMove(E8, C8), NoPieceType, "O-O-O"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", NewMove(A1, D1), NoPieceType, "Rad1"},
		{"1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1", NewMove(A7, B8), Knight, "axb8=N"},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", NewMove(A7, A8), NoPieceType, "a8=Q+"},
		{"6k1/5ppp/8/8/8/8/8/R3K3 w Q - 0 1", NewMove(A1, A8), NoPieceType, "Ra8#"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			p, side := mustFEN(t, tc.fen)
			if got := tb.SAN(p, side, tc.move, tc.promo); got != tc.want {
				t.Errorf("SAN(%v) = %q, want %q", tc.move, got, tc.want)
			}

			m, promo, err := tb.ParseSAN(p, side, tc.want)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tc.want, err)
			}
			if m != tc.move {
				t.Errorf("ParseSAN(%q) = %v, want %v", tc.want, m, tc.move)
			}
			if tc.promo != NoPieceType && promo != tc.promo {
				t.Errorf("ParseSAN(%q) promotion = %v, want %v", tc.want, promo, tc.promo)
			}
		})
	}

	p, side := mustFEN(t, StartFEN)
	for _, bad := range []string{"Nf4", "Ke2", "O-O", "Xe4", "e"} {
		if _, _, err := tb.ParseSAN(p, side, bad); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseSAN(%q) error = %v, want ErrInvalidMove", bad, err)
		}
	}
}
