package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "game_seq"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Computer colour settings.
const (
	ComputerWhite = "white"
	ComputerBlack = "black"
	ComputerNone  = "none"
)

// ValidComputer reports whether s names a computer colour setting.
func ValidComputer(s string) bool {
	return s == ComputerWhite || s == ComputerBlack || s == ComputerNone
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username   string    `json:"username"`
	Depth      int       `json:"depth"`
	Computer   string    `json:"computer"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:   "Player",
		Depth:      3,
		Computer:   ComputerBlack,
		LastPlayed: time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	Abandoned      int            `json:"abandoned"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByDepth    map[string]int `json:"wins_by_depth"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode:  make(map[string]int),
		WinsByDepth: make(map[string]int),
	}
}

// GameResult represents the result of a completed game from the human's side.
// In two-player games Won means white won.
type GameResult struct {
	Won       bool
	Draw      bool
	Abandoned bool
	Computer  string
	Depth     int
	Duration  time.Duration
}

// GameRecord is a finished or abandoned game.
type GameRecord struct {
	ID       uint64        `json:"id"`
	StartFEN string        `json:"start_fen"`
	Moves    []string      `json:"moves"`
	SAN      []string      `json:"san"`
	Result   string        `json:"result"` // "1-0", "0-1", "1/2-1/2" or "*"
	Reason   string        `json:"reason"`
	Computer string        `json:"computer"`
	Depth    int           `json:"depth"`
	Played   time.Time     `json:"played"`
	Duration time.Duration `json:"duration"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
	log zerolog.Logger
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string, log zerolog.Logger) (*Storage, error) {
	log = log.With().Str("component", "storage").Logger()

	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", dir, err)
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("game sequence: %w", err)
	}

	log.Debug().Str("dir", dir).Bool("in_memory", dir == "").Msg("database opened")
	return &Storage{db: db, seq: seq, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
	}
	errs = append(errs, s.db.Close())
	s.db = nil
	s.log.Debug().Msg("database closed")
	return errors.Join(errs...)
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v, returning ErrNotFound if absent.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	if err := s.get(keyPreferences, prefs); err != nil && !errors.Is(err, ErrNotFound) {
		return prefs, err
	}
	return prefs, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if err := s.get(keyStats, stats); err != nil && !errors.Is(err, ErrNotFound) {
		return stats, err
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	modeKey := "hvc"
	if result.Computer == ComputerNone || result.Computer == "" {
		modeKey = "hvh"
	}
	depthKey := strconv.Itoa(result.Depth)

	switch {
	case result.Abandoned:
		stats.Abandoned++
		stats.CurrentStreak = 0
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByMode[modeKey]++
		if modeKey == "hvc" {
			stats.WinsByDepth[depthKey]++
		}
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func gameKey(id uint64) string {
	return fmt.Sprintf("%s%020d", prefixGame, id)
}

// SaveGame stores a game record, assigning it the next ID when it has none.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == 0 {
		id, err := s.seq.Next()
		if err != nil {
			return fmt.Errorf("next game id: %w", err)
		}
		// Sequences start at zero; IDs start at one so zero can mean unsaved.
		rec.ID = id + 1
	}
	if err := s.put(gameKey(rec.ID), rec); err != nil {
		return fmt.Errorf("save game %d: %w", rec.ID, err)
	}
	s.log.Debug().Uint64("id", rec.ID).Str("result", rec.Result).Int("moves", len(rec.Moves)).Msg("game saved")
	return nil
}

// LoadGame returns the game record with the given ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	if err := s.get(gameKey(id), rec); err != nil {
		return nil, fmt.Errorf("load game %d: %w", id, err)
	}
	return rec, nil
}

// ListGames returns every stored game, oldest first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}
