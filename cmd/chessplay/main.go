// Command chessplay plays chess in the terminal against the computer, or
// between two people at the same keyboard.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/cli"
	"github.com/hailam/bitchess/internal/console"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/storage"
)

var (
	depth      = flag.Int("depth", engine.DefaultDepth, "search depth in plies (stored preference unless set)")
	computer   = flag.String("computer", storage.ComputerBlack, "side the computer plays: white, black or none (stored preference unless set)")
	tablesPath = flag.String("tables", "", "direction table file (default: tables.txt in the data directory, computed when absent)")
	dataDir    = flag.String("data", "", "database directory (default: db in the data directory, see $"+storage.EnvDataDir+")")
	startFEN   = flag.String("fen", "", "start from this FEN position")
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

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("chessplay failed")
	}
}

func run(log zerolog.Logger) error {
	stop, err := cli.StartCPUProfile(*cpuprofile, log)
	if err != nil {
		return err
	}
	defer stop()

	tables, err := loadTables(log)
	if err != nil {
		return err
	}

	dir := *dataDir
	if dir == "" {
		if dir, err = storage.GetDatabaseDir(); err != nil {
			return fmt.Errorf("data directory: %w", err)
		}
	}
	store, err := storage.Open(dir, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	prefs, err := preferences(store)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(tables, log)
	eng.SetDepth(prefs.Depth)

	game := console.New(tables, eng, store, log, os.Stdin, os.Stdout)
	if err := game.SetComputer(prefs.Computer); err != nil {
		return err
	}
	if *startFEN != "" {
		if err := game.SetPosition(*startFEN); err != nil {
			return err
		}
	}

	if stats, err := store.LoadStats(); err == nil && stats.GamesPlayed > 0 {
		fmt.Printf("Welcome back, %s. %d games played, %.0f%% won.\n", prefs.Username, stats.GamesPlayed, stats.GetWinRate())
	}
	fmt.Println("Enter moves like e2e4 or Nf3. Type help for commands, 0 to quit.")

	_, err = game.Run()
	return err
}

// preferences loads the stored preferences, applies the flags given on the
// command line and saves the result.
func preferences(store *storage.Storage) (*storage.UserPreferences, error) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			prefs.Depth = *depth
		case "computer":
			if !storage.ValidComputer(*computer) {
				flagErr = fmt.Errorf("-computer must be white, black or none, not %q", *computer)
				return
			}
			prefs.Computer = *computer
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}

	if prefs.Depth < 1 {
		prefs.Depth = engine.DefaultDepth
	}
	if !storage.ValidComputer(prefs.Computer) {
		prefs.Computer = storage.ComputerBlack
	}

	if err := store.SavePreferences(prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

// loadTables reads the table file named by -tables, else the one in the data
// directory, else computes the tables.
func loadTables(log zerolog.Logger) (*board.Tables, error) {
	if *tablesPath != "" {
		return board.LoadTablesFile(*tablesPath)
	}

	path, err := storage.GetTablesPath()
	if err != nil {
		log.Debug().Err(err).Msg("no data directory, computing tables")
		return board.NewTables(), nil
	}

	tables, err := board.LoadTablesFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no table file, computing tables")
		return board.NewTables(), nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("tables loaded")
	return tables, nil
}
