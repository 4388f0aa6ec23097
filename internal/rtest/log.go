package rtest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a debug-level logger that writes through t.Log,
// so output is only shown for failing or verbose tests.
func NewLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slogt.New(t)
}
