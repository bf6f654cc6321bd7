// Command gentables writes the direction tables in the text format read at
// start-up by chessplay.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/cli"
	"github.com/hailam/bitchess/internal/storage"
)

var (
	output   = flag.String("o", "", "output file, - for stdout (default: tables.txt in the data directory)")
	logLevel = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
)

func main() {
	flag.Parse()

	log, err := cli.NewLogger(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("gentables failed")
	}
}

func run(log zerolog.Logger) (err error) {
	tables := board.NewTables()

	if *output == "-" {
		_, err := tables.WriteTo(os.Stdout)
		return err
	}

	path := *output
	if path == "" {
		if path, err = storage.GetTablesPath(); err != nil {
			return fmt.Errorf("data directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	n, err := tables.WriteTo(f)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int64("bytes", n).Msg("tables written")
	return nil
}
