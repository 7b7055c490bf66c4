package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
	// Caller adds file:line to every event.
	Caller bool `split_words:"true" default:"true"`
}

var DefaultConfig = Config{
	Debug:        false,
	PrettyFormat: false,
	Caller:       true,
}

func safe(opts ...Config) Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return opts[0]
}

// New builds a logger writing to w. Init uses it for the global logger.
func New(w io.Writer, opts ...Config) zerolog.Logger {
	conf := safe(opts...)

	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	ctx := zerolog.New(w).With().Timestamp()
	if conf.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	if conf.Debug {
		return logger.Level(zerolog.DebugLevel)
	}
	return logger.Level(zerolog.InfoLevel)
}

// Init replaces the global zerolog logger.
func Init(opts ...Config) {
	log.Logger = New(os.Stdout, opts...)
	zerolog.DefaultContextLogger = &log.Logger
}

// Quiet sends the global logger to stderr at warn level. The research REPL
// uses it so structured logs do not interleave with the conversation.
func Quiet() {
	log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).Level(zerolog.WarnLevel)
}
