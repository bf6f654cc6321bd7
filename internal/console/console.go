// Package console runs a game in a terminal: a human against the computer,
// or two humans sharing the keyboard.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/render"
	"github.com/hailam/bitchess/internal/storage"
)

// Game is one console game.
type Game struct {
	tables *board.Tables
	engine *engine.Engine
	store  *storage.Storage // nil disables persistence
	log    zerolog.Logger

	in  *bufio.Scanner
	out io.Writer

	computer board.Color // NoColor when nobody is the computer
	pos      board.Position
	side     board.Color
	startFEN string
	moves    []string
	san      []string
	started  time.Time
	last     engine.SearchInfo

	// Render is used by the svg and png commands.
	Render render.Options
}

// New creates a game from the starting position with the computer playing
// black. store may be nil.
func New(tb *board.Tables, eng *engine.Engine, store *storage.Storage, log zerolog.Logger, in io.Reader, out io.Writer) *Game {
	g := &Game{
		tables:   tb,
		engine:   eng,
		store:    store,
		log:      log.With().Str("component", "console").Logger(),
		in:       bufio.NewScanner(in),
		out:      out,
		computer: board.Black,
		pos:      board.NewPosition(),
		side:     board.White,
		startFEN: board.StartFEN,
		Render:   render.DefaultOptions(),
	}
	eng.OnInfo = func(info engine.SearchInfo) { g.last = info }
	return g
}

// SetComputer sets which side the computer plays: storage.ComputerWhite,
// storage.ComputerBlack or storage.ComputerNone.
func (g *Game) SetComputer(setting string) error {
	switch setting {
	case storage.ComputerWhite:
		g.computer = board.White
	case storage.ComputerBlack:
		g.computer = board.Black
	case storage.ComputerNone:
		g.computer = board.NoColor
	default:
		return fmt.Errorf("unknown computer setting %q", setting)
	}
	g.Render.Flip = g.computer == board.White
	return nil
}

// SetPosition starts the game from a FEN position instead.
func (g *Game) SetPosition(fen string) error {
	pos, side, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	if !g.tables.HasLegalMoves(pos, side) {
		return fmt.Errorf("%w: %s has no legal moves", board.ErrInvalidPosition, side)
	}
	g.pos, g.side, g.startFEN = pos, side, fen
	return nil
}

// Position returns the current position and the side to move.
func (g *Game) Position() (board.Position, board.Color) {
	return g.pos, g.side
}

func (g *Game) computerSetting() string {
	switch g.computer {
	case board.White:
		return storage.ComputerWhite
	case board.Black:
		return storage.ComputerBlack
	default:
		return storage.ComputerNone
	}
}

// Run plays until the game ends or the user quits. Only I/O and storage
// errors are returned.
func (g *Game) Run() (*storage.GameRecord, error) {
	g.started = time.Now()
	g.log.Info().
		Str("computer", g.computerSetting()).
		Int("depth", g.engine.Depth()).
		Str("fen", g.startFEN).
		Msg("game started")

	for {
		if g.side == g.computer {
			m := g.engine.Search(g.pos, g.side)
			san, err := g.play(m, board.NoPieceType, nil)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(g.out, "Computer plays %s (%s)\n", san, engine.ScoreToString(g.last.Score))
		} else {
			m, promo, quit, err := g.readMove()
			if err != nil {
				return nil, err
			}
			if quit {
				return g.finish("*", "quit")
			}
			if _, err := g.play(m, promo, g.promotionChooser(promo)); err != nil {
				return nil, err
			}
		}

		if !g.tables.HasLegalMoves(g.pos, g.side) {
			fmt.Fprint(g.out, g.pos.String())
			switch {
			case g.tables.IsCheckmate(g.pos, g.side) && g.side == board.White:
				fmt.Fprintln(g.out, "Checkmate! Black wins!")
				return g.finish("0-1", "checkmate")
			case g.tables.IsCheckmate(g.pos, g.side):
				fmt.Fprintln(g.out, "Checkmate! White wins!")
				return g.finish("1-0", "checkmate")
			default:
				fmt.Fprintln(g.out, "Draw from stalemate.")
				return g.finish("1/2-1/2", "stalemate")
			}
		}
	}
}

// play applies a legal move, records it and returns its SAN.
func (g *Game) play(m board.Move, promo board.PieceType, choose board.PromotionChooser) (string, error) {
	san := g.tables.SAN(g.pos, g.side, m, promo)
	next, err := g.tables.Apply(g.pos, m, choose)
	if err != nil {
		return "", fmt.Errorf("apply %v: %w", m, err)
	}
	g.pos = next
	g.side = g.side.Other()
	g.moves = append(g.moves, m.String())
	g.san = append(g.san, san)
	return san, nil
}

func (g *Game) promotionChooser(promo board.PieceType) board.PromotionChooser {
	if promo == board.NoPieceType {
		return nil
	}
	return board.PromotionFunc(func() board.PieceType { return promo })
}

// finish stores the game and updates the statistics.
func (g *Game) finish(result, reason string) (*storage.GameRecord, error) {
	elapsed := time.Since(g.started)
	rec := &storage.GameRecord{
		StartFEN: g.startFEN,
		Moves:    g.moves,
		SAN:      g.san,
		Result:   result,
		Reason:   reason,
		Computer: g.computerSetting(),
		Depth:    g.engine.Depth(),
		Played:   g.started,
		Duration: elapsed,
	}

	g.log.Info().
		Str("result", result).
		Str("reason", reason).
		Int("plies", len(g.moves)).
		Dur("duration", elapsed).
		Msg("game finished")

	if g.store == nil {
		return rec, nil
	}

	if err := g.store.SaveGame(rec); err != nil {
		return rec, err
	}

	// Outcomes are from the human's side; with two humans, from white's.
	human := "1-0"
	if g.computer == board.White {
		human = "0-1"
	}
	outcome := storage.GameResult{
		Won:       result == human,
		Draw:      result == "1/2-1/2",
		Abandoned: result == "*",
		Computer:  rec.Computer,
		Depth:     rec.Depth,
		Duration:  elapsed,
	}
	if err := g.store.RecordGame(outcome); err != nil {
		return rec, err
	}
	fmt.Fprintf(g.out, "Game saved as #%d.\n", rec.ID)
	return rec, nil
}

// readLine returns the next non-empty trimmed line, or io.EOF.
func (g *Game) readLine() (string, error) {
	for g.in.Scan() {
		if line := strings.TrimSpace(g.in.Text()); line != "" {
			return line, nil
		}
	}
	if err := g.in.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// readMove prompts until the user enters a legal move or quits. End of input
// counts as quitting.
func (g *Game) readMove() (board.Move, board.PieceType, bool, error) {
	for {
		fmt.Fprint(g.out, g.pos.String())
		fmt.Fprintf(g.out, "%s to move. Enter in the desired move: ", g.side)

		line, err := g.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(g.out)
			return board.NoMove, board.NoPieceType, true, nil
		}
		if err != nil {
			return board.NoMove, board.NoPieceType, false, err
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "0", "quit":
			return board.NoMove, board.NoPieceType, true, nil
		case "fen":
			fmt.Fprintln(g.out, g.pos.FEN(g.side))
			continue
		case "moves":
			g.listMoves()
			continue
		case "eval":
			fmt.Fprintf(g.out, "Evaluation for %s: %s\n", g.side, engine.ScoreToString(g.engine.Evaluate(g.pos, g.side)))
			continue
		case "svg", "png":
			g.writeDiagram(fields)
			continue
		case "games":
			g.listGames()
			continue
		case "game":
			g.showGame(fields)
			continue
		case "help":
			fmt.Fprintln(g.out, "Moves: e2e4 or SAN (e4, Nf3, O-O, e8=Q). Commands: fen, moves, eval, svg <file>, png <file>, games, game <id>, quit (or 0).")
			continue
		}

		m, promo, ok := g.checkMove(line)
		if !ok {
			continue
		}
		if promo == board.NoPieceType && g.promotes(m) {
			var err error
			if promo, err = g.askPromotion(); err != nil {
				if errors.Is(err, io.EOF) {
					return board.NoMove, board.NoPieceType, true, nil
				}
				return board.NoMove, board.NoPieceType, false, err
			}
		}
		return m, promo, false, nil
	}
}

// checkMove validates user input, printing the reason when it is rejected.
func (g *Game) checkMove(line string) (board.Move, board.PieceType, bool) {
	coord, promo := line, board.NoPieceType
	if len(line) == 5 {
		if pt, ok := board.PromotionTypeFromChar(line[4]); ok {
			coord, promo = line[:4], pt
		}
	}

	m, err := board.ParseMove(coord)
	if err != nil {
		m, promo, err := g.tables.ParseSAN(g.pos, g.side, line)
		if err != nil {
			fmt.Fprintln(g.out, "Invalid input. Please try again.")
			return board.NoMove, board.NoPieceType, false
		}
		return m, promo, true
	}

	if pc := g.pos.PieceAt(m.From); pc == board.NoPiece || pc.Color() != g.side {
		fmt.Fprintln(g.out, "Wrong colour.")
		return board.NoMove, board.NoPieceType, false
	}

	if g.tables.IsLegal(g.pos, g.side, m) {
		if !g.promotes(m) {
			promo = board.NoPieceType
		}
		return m, promo, true
	}

	fmt.Fprintln(g.out, "Illegal move.")
	if trial, err := g.tables.Apply(g.pos, m, nil); err == nil {
		for _, c := range []board.Color{board.White, board.Black} {
			if k := trial.KingSquare(c); k.IsValid() && g.tables.InCheck(trial, k) {
				fmt.Fprintf(g.out, "%s king is in check\n", c)
			}
		}
	}
	return board.NoMove, board.NoPieceType, false
}

// promotes reports whether m takes a pawn to its last rank.
func (g *Game) promotes(m board.Move) bool {
	if g.pos.PieceAt(m.From).Type() != board.Pawn {
		return false
	}
	row := m.To.Row()
	return row == 0 || row == 7
}

func (g *Game) askPromotion() (board.PieceType, error) {
	for {
		fmt.Fprint(g.out, "Enter what piece it should be promoted to (n, b, r, q are the options): ")
		line, err := g.readLine()
		if err != nil {
			return board.NoPieceType, err
		}
		if len(line) == 1 {
			if pt, ok := board.PromotionTypeFromChar(line[0]); ok {
				return pt, nil
			}
		}
	}
}

func (g *Game) listMoves() {
	legal := g.tables.LegalMoves(g.pos, g.side)
	names := make([]string, len(legal))
	for i, m := range legal {
		names[i] = m.String()
	}
	fmt.Fprintf(g.out, "%d legal moves: %s\n", len(legal), strings.Join(names, " "))
}

// listGames prints one line per stored game.
func (g *Game) listGames() {
	if g.store == nil {
		fmt.Fprintln(g.out, "Games are not being saved.")
		return
	}
	games, err := g.store.ListGames()
	if err != nil {
		g.log.Warn().Err(err).Msg("list games")
		fmt.Fprintf(g.out, "Could not list games: %v\n", err)
		return
	}
	if len(games) == 0 {
		fmt.Fprintln(g.out, "No saved games.")
		return
	}
	for _, rec := range games {
		fmt.Fprintf(g.out, "#%d  %s  %-7s  %-9s  %3d plies  computer %s\n",
			rec.ID, rec.Played.Format("2006-01-02 15:04"), rec.Result, rec.Reason, len(rec.Moves), rec.Computer)
	}
}

// showGame prints the moves of a stored game with move numbers.
func (g *Game) showGame(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(g.out, "Usage: game <id>")
		return
	}
	if g.store == nil {
		fmt.Fprintln(g.out, "Games are not being saved.")
		return
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "#"), 10, 64)
	if err != nil {
		fmt.Fprintln(g.out, "Usage: game <id>")
		return
	}
	rec, err := g.store.LoadGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(g.out, "No game #%d.\n", id)
		return
	}
	if err != nil {
		g.log.Warn().Err(err).Uint64("id", id).Msg("load game")
		fmt.Fprintf(g.out, "Could not load game #%d: %v\n", id, err)
		return
	}

	moves := rec.SAN
	if len(moves) != len(rec.Moves) {
		moves = rec.Moves
	}
	var sb strings.Builder
	for i, m := range moves {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	sb.WriteString(rec.Result)
	fmt.Fprintf(g.out, "Game #%d (%s): %s\n", rec.ID, rec.Reason, sb.String())
}

func (g *Game) writeDiagram(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintf(g.out, "Usage: %s <file>\n", fields[0])
		return
	}
	if err := g.saveDiagram(fields[0], fields[1]); err != nil {
		g.log.Warn().Err(err).Str("path", fields[1]).Msg("diagram not written")
		fmt.Fprintf(g.out, "Could not write %s: %v\n", fields[1], err)
		return
	}
	fmt.Fprintf(g.out, "Wrote %s\n", fields[1])
}

func (g *Game) saveDiagram(format, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == "png" {
		return render.WritePNG(f, g.pos, g.Render)
	}
	return render.WriteSVG(f, g.pos, g.Render)
}
