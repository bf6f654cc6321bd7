// Package cli holds the setup shared by the command-line tools.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
)

// EnvCPUProfile names the profile output file when -cpuprofile is not given.
const EnvCPUProfile = "CPUPROFILE"

// NewLogger returns a human-readable logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// StartCPUProfile starts CPU profiling to path, or to $CPUPROFILE when path is
// empty. The returned function stops profiling; it is a no-op when neither is
// set.
func StartCPUProfile(path string, log zerolog.Logger) (stop func(), err error) {
	if path == "" {
		path = os.Getenv(EnvCPUProfile)
	}
	if path == "" {
		return func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	log.Info().Str("path", path).Msg("CPU profiling enabled")

	return func() {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("CPU profile not saved")
			return
		}
		log.Info().Str("path", path).Msg("CPU profile saved")
	}, nil
}
