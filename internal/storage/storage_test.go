package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func openMemory(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Depth != 3 {
			t.Errorf("Expected depth 3, got %d", prefs.Depth)
		}
		if prefs.Computer != ComputerBlack {
			t.Errorf("Expected computer to play black, got %q", prefs.Computer)
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})

	t.Run("ValidComputer", func(t *testing.T) {
		for _, s := range []string{"white", "black", "none"} {
			if !ValidComputer(s) {
				t.Errorf("ValidComputer(%q) = false", s)
			}
		}
		if ValidComputer("both") {
			t.Error(`ValidComputer("both") = true`)
		}
	})
}

func TestPreferences(t *testing.T) {
	s := openMemory(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences on empty db: %v", err)
	}
	if prefs.Depth != 3 {
		t.Errorf("default depth = %d", prefs.Depth)
	}

	prefs.Username = "tester"
	prefs.Depth = 4
	prefs.Computer = ComputerWhite
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "tester" || got.Depth != 4 || got.Computer != ComputerWhite {
		t.Errorf("loaded %+v", got)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed not set on save")
	}
}

func TestRecordGame(t *testing.T) {
	s := openMemory(t)

	results := []GameResult{
		{Won: true, Computer: ComputerBlack, Depth: 3, Duration: time.Minute},
		{Won: true, Computer: ComputerBlack, Depth: 2, Duration: time.Minute},
		{Draw: true, Computer: ComputerWhite, Depth: 3, Duration: time.Minute},
		{Computer: ComputerWhite, Depth: 3, Duration: time.Minute},
		{Won: true, Computer: ComputerNone, Duration: time.Minute},
		{Abandoned: true, Computer: ComputerBlack, Depth: 3, Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatalf("RecordGame(%+v): %v", r, err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}

	if stats.GamesPlayed != 6 || stats.Wins != 3 || stats.Draws != 1 || stats.Losses != 1 || stats.Abandoned != 1 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks: longest %d, current %d", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByMode["hvc"] != 2 || stats.WinsByMode["hvh"] != 1 {
		t.Errorf("wins by mode %v", stats.WinsByMode)
	}
	if stats.WinsByDepth["3"] != 1 || stats.WinsByDepth["2"] != 1 {
		t.Errorf("wins by depth %v", stats.WinsByDepth)
	}
	if stats.TotalPlayTime != 6*time.Minute {
		t.Errorf("total play time %v", stats.TotalPlayTime)
	}
}

func TestGameRecords(t *testing.T) {
	s := openMemory(t)

	if _, err := s.LoadGame(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadGame on empty db error = %v, want ErrNotFound", err)
	}

	games := []*GameRecord{
		{StartFEN: "start", Moves: []string{"f2f3", "e7e5", "g2g4", "d8h4"}, SAN: []string{"f3", "e5", "g4", "Qh4#"}, Result: "0-1", Reason: "checkmate", Computer: ComputerBlack, Depth: 3},
		{StartFEN: "start", Moves: []string{"e2e4"}, Result: "*", Reason: "quit", Computer: ComputerNone},
	}
	for _, g := range games {
		if err := s.SaveGame(g); err != nil {
			t.Fatal(err)
		}
	}
	if games[0].ID == 0 || games[1].ID <= games[0].ID {
		t.Fatalf("IDs not assigned in order: %d, %d", games[0].ID, games[1].ID)
	}

	got, err := s.LoadGame(games[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Result != "0-1" || len(got.Moves) != 4 || got.SAN[3] != "Qh4#" {
		t.Errorf("loaded %+v", got)
	}

	list, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != games[0].ID || list[1].Reason != "quit" {
		t.Errorf("ListGames = %+v", list)
	}

	// Saving again with an ID overwrites.
	games[1].Result = "1/2-1/2"
	if err := s.SaveGame(games[1]); err != nil {
		t.Fatal(err)
	}
	list, _ = s.ListGames()
	if len(list) != 2 || list[1].Result != "1/2-1/2" {
		t.Errorf("after overwrite ListGames = %+v", list)
	}
}

func TestPersistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame(&GameRecord{Result: "1-0"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	list, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Result != "1-0" {
		t.Fatalf("after reopen ListGames = %+v", list)
	}

	rec := &GameRecord{Result: "0-1"}
	if err := s.SaveGame(rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == list[0].ID {
		t.Errorf("reopened database reused game id %d", rec.ID)
	}
}

func TestDataPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(EnvDataDir, dir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != dir {
		t.Errorf("GetDataDir = %q, want %q", dataDir, dir)
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if dbDir != filepath.Join(dir, "db") {
		t.Errorf("GetDatabaseDir = %q", dbDir)
	}

	tables, err := GetTablesPath()
	if err != nil {
		t.Fatal(err)
	}
	if tables != filepath.Join(dir, "tables.txt") {
		t.Errorf("GetTablesPath = %q", tables)
	}

	t.Logf("Data directory: %s", dataDir)
}
