package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

type Options struct {
	// Dev selects text output at debug level instead of JSON at info level.
	Dev bool
	// Level overrides the default level ("debug", "info", "warn", "error").
	Level string
	// SentryDSN enables error reporting to Sentry.
	SentryDSN   string
	Environment string
	// Output defaults to stdout.
	Output io.Writer
}

// Init configures the global logger and sets it as the slog default.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	lvl := slog.LevelInfo
	if opts.Dev {
		lvl = slog.LevelDebug
	}
	if parsed, ok := ParseLevel(opts.Level); ok {
		lvl = parsed
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	var base slog.Handler = slog.NewJSONHandler(out, handlerOpts)
	if opts.Dev {
		base = slog.NewTextHandler(out, handlerOpts)
	}

	handler := base
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			// Sentry only receives errors
			handler = slogmulti.Fanout(base, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		} else {
			slog.New(base).Warn("sentry disabled", "error", err)
		}
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, bool) {
	var lvl slog.Level
	s = strings.TrimSpace(s)
	if s == "" {
		return lvl, false
	}
	err := lvl.UnmarshalText([]byte(s))
	if err != nil {
		return lvl, false
	}
	return lvl, true
}
