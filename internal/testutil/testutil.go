// Package testutil provides shared fixtures and helpers for swparse tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/swparse/pkg/util"
)

// Context returns a context with a reasonable timeout for tests.
// The cancel function is registered via t.Cleanup.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// WriteFile writes content to name inside a per-test temp directory and
// returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// CaptureLog redirects util.Logger into a buffer at debug level for the
// duration of the test.
func CaptureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	out, level, formatter := util.Logger.Out, util.Logger.Level, util.Logger.Formatter
	t.Cleanup(func() {
		util.Logger.SetOutput(out)
		util.Logger.SetLevel(level)
		util.Logger.SetFormatter(formatter)
	})

	var buf bytes.Buffer
	util.Logger.SetOutput(&buf)
	util.Logger.SetLevel(logrus.DebugLevel)
	return &buf
}

// SilenceLog discards util.Logger output for the duration of the test.
func SilenceLog(t *testing.T) {
	t.Helper()
	out := util.Logger.Out
	t.Cleanup(func() { util.Logger.SetOutput(out) })
	util.Logger.SetOutput(io.Discard)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// Must takes a (value, error) result and returns a function that fails t
// when err is not nil and otherwise returns the value:
//
//	cfg := testutil.Must(runconfig.ParseString(text))(t)
func Must[T any](val T, err error) func(t *testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return val
	}
}
