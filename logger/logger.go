package logger

import (
	"github.com/rs/zerolog"
	"os"
	"strings"
)

const LogLevelEnv = "MDL_COMN_LOGLEVEL"

var levels = map[string]zerolog.Level{
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
	"FATAL": zerolog.FatalLevel,
	"PANIC": zerolog.PanicLevel,
}

func SetupLogging() {
	zerolog.LevelFieldName = "level_name"
	zerolog.TimestampFieldName = "timestamp"
}

// ParseLevel maps the platform level names to zerolog levels; anything else is INFO.
func ParseLevel(name string) zerolog.Level {
	if level, ok := levels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return level
	}
	return zerolog.InfoLevel
}

// NewLogger returns a JSON logger writing to stderr with the component name attached to every record.
func NewLogger(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		With().
		Str("component", component).
		Timestamp().
		Logger().
		Level(ParseLevel(os.Getenv(LogLevelEnv)))
}
