package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger routes badger's printf-style logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Infof is demoted to debug; badger is chatty at info.
func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
