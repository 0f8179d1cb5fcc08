package hashgraph

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

var log = zerolog.New(nil).Output(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.TimeOnly,
}).With().Timestamp().Logger()

// Log returns the package logger. Subpackages and commands share it so a
// single SetLogLevel call governs all output.
func Log() *zerolog.Logger {
	return &log
}

// ComponentLog tags every line with the component that wrote it.
func ComponentLog(component string) *zerolog.Logger {
	l := log.With().Str("component", component).Logger()
	return &l
}

func SetLogLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

func init() {
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
