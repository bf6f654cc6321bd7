package board

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tableSection names one 64-entry array of the text format and its base.
type tableSection struct {
	name string
	base int
	data *[64]Bitboard
}

// sections lists the arrays in file order: square values (decimal), then the
// pawn, knight, king and ray masks (binary).
func (t *Tables) sections() []tableSection {
	return []tableSection{
		{"square values", 10, &t.SquareValue},
		{"white pawn push", 2, &t.PawnPush[White]},
		{"white pawn double push", 2, &t.PawnDoublePush[White]},
		{"white pawn capture", 2, &t.PawnCapture[White]},
		{"black pawn push", 2, &t.PawnPush[Black]},
		{"black pawn double push", 2, &t.PawnDoublePush[Black]},
		{"black pawn capture", 2, &t.PawnCapture[Black]},
		{"knight", 2, &t.Knight},
		{"king", 2, &t.King},
		{"right", 2, &t.Ray[Right]},
		{"left", 2, &t.Ray[Left]},
		{"up", 2, &t.Ray[Up]},
		{"down", 2, &t.Ray[Down]},
		{"45 degrees", 2, &t.Ray[UpRight]},
		{"135 degrees", 2, &t.Ray[UpLeft]},
		{"225 degrees", 2, &t.Ray[DownLeft]},
		{"315 degrees", 2, &t.Ray[DownRight]},
	}
}

// LoadTables reads direction tables in the text format written by WriteTo.
// Blank lines and lines starting with '/' are ignored.
func LoadTables(r io.Reader) (*Tables, error) {
	t := &Tables{}
	sections := t.sections()

	scanner := bufio.NewScanner(r)
	section, index := 0, 0
	for scanner.Scan() && section < len(sections) {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '/' {
			continue
		}

		s := sections[section]
		v, err := strconv.ParseUint(line, s.base, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrInvalidTables, s.name, index, err)
		}
		s.data[index] = Bitboard(v)

		index++
		if index == 64 {
			section, index = section+1, 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if section < len(sections) {
		return nil, fmt.Errorf("%w: truncated in %s at entry %d", ErrInvalidTables, sections[section].name, index)
	}

	for sq := A8; sq <= H1; sq++ {
		if t.SquareValue[sq] != SquareBB(sq) {
			return nil, fmt.Errorf("%w: square value %d is %d", ErrInvalidTables, sq, uint64(t.SquareValue[sq]))
		}
	}

	return t, nil
}

// LoadTablesFile reads direction tables from a file.
func LoadTablesFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := LoadTables(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// WriteTo writes the tables in the text format read by LoadTables.
func (t *Tables) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	for _, s := range t.sections() {
		c, err := fmt.Fprintf(bw, "// %s\n", s.name)
		n += int64(c)
		if err != nil {
			return n, err
		}
		for _, v := range s.data {
			if s.base == 10 {
				c, err = fmt.Fprintf(bw, "%d\n", uint64(v))
			} else {
				c, err = fmt.Fprintf(bw, "%064b\n", uint64(v))
			}
			n += int64(c)
			if err != nil {
				return n, err
			}
		}
	}

	return n, bw.Flush()
}
