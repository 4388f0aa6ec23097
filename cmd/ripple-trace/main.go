// Command ripple-trace replays a YAML publish/subscribe scenario
// against a ripple registry and prints what every subscriber observed, as JSON.
//
// Usage:
//
//	ripple-trace [-level debug] scenario.yaml
//
// The default log level is read from RIPPLE_LOG_LEVEL,
// which may also be set in a .env file in the working directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gordian-engine/ripple/internal/rscenario"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ripple-trace:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ripple-trace", flag.ContinueOnError)
	fs.SetOutput(stderr)

	levelName := os.Getenv("RIPPLE_LOG_LEVEL")
	if levelName == "" {
		levelName = "warn"
	}
	fs.StringVar(&levelName, "level", levelName, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("exactly one scenario file is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	log := newLogger(stderr, level)

	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read scenario: %w", err)
	}

	s, err := rscenario.Parse(b)
	if err != nil {
		return err
	}

	log.Info(
		"Replaying scenario",
		"file", fs.Arg(0),
		"subscribers", len(s.Subscribers),
		"publishes", len(s.Publish),
	)

	tr, err := rscenario.Run(log, s)
	if err != nil {
		return fmt.Errorf("failed to replay scenario: %w", err)
	}

	out, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	out = append(out, '\n')

	_, err = stdout.Write(out)
	return err
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}).
		With().Timestamp().Logger()

	return slog.New(zeroslog.NewHandler(zl, &zeroslog.HandlerOptions{Level: level}))
}
