package xell

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// SourceLogFieldName tags each log event with the subsystem that emitted it.
const SourceLogFieldName = "src"

// NewLogger builds a console logger writing to w at the named level. An
// empty level means "warn".
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func ParseLogLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("xell: invalid log level %q", level)
	}
	return lvl, nil
}

func subLogger(base zerolog.Logger, src string) zerolog.Logger {
	return base.With().Str(SourceLogFieldName, src).Logger()
}
