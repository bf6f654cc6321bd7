// Command perft counts move-generator leaf nodes, split by root move, to
// check the generator against published totals.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/cli"
)

var (
	fen        = flag.String("fen", board.StartFEN, "position to count from")
	depth      = flag.Int("depth", 4, "depth in plies")
	workers    = flag.Int("workers", runtime.GOMAXPROCS(0), "root moves counted in parallel")
	tablesPath = flag.String("tables", "", "direction table file (computed when empty)")
	logLevel   = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file (or set $"+cli.EnvCPUProfile+")")
)

func main() {
	flag.Parse()

	log, err := cli.NewLogger(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log); err != nil {
		log.Fatal().Err(err).Msg("perft failed")
	}
}

func run(ctx context.Context, log zerolog.Logger) error {
	if *depth < 1 {
		return fmt.Errorf("-depth must be at least 1")
	}

	stop, err := cli.StartCPUProfile(*cpuprofile, log)
	if err != nil {
		return err
	}
	defer stop()

	tables := board.NewTables()
	if *tablesPath != "" {
		if tables, err = board.LoadTablesFile(*tablesPath); err != nil {
			return err
		}
	}

	pos, side, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	log.Debug().Str("fen", *fen).Int("depth", *depth).Int("workers", *workers).Msg("perft started")

	start := time.Now()
	moves, counts, err := divide(ctx, tables, pos, side, *depth, *workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var total int64
	for i, m := range moves {
		fmt.Printf("%s: %d\n", m, counts[i])
		total += counts[i]
	}
	fmt.Printf("\nNodes: %d\n", total)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(total)/elapsed.Seconds())
	}
	return nil
}

// divide counts the leaves under each root move, at most workers at a time.
func divide(ctx context.Context, tables *board.Tables, pos board.Position, side board.Color, depth, workers int) ([]board.Move, []int64, error) {
	moves := tables.LegalMoves(pos, side)
	counts := make([]int64, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			next, err := tables.Apply(pos, m, nil)
			if err != nil {
				return fmt.Errorf("apply %v: %w", m, err)
			}
			counts[i] = tables.Perft(next, side.Other(), depth-1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return moves, counts, nil
}
