// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"log"
	"log/slog"
	"strings"
	"testing"
)

type TestWriter struct {
	Entries []string
}

func NewTestWriter() *TestWriter {
	return &TestWriter{
		Entries: make([]string, 0),
	}
}

func (w *TestWriter) Write(p []byte) (n int, err error) {
	w.Entries = append(w.Entries, string(p))
	return len(p), nil
}

func (w *TestWriter) Contains(substr string) bool {
	for _, entry := range w.Entries {
		if strings.Contains(entry, substr) {
			return true
		}
	}

	return false
}

func TestLogging_DirectSlogInfo(t *testing.T) {
	writer := NewTestWriter()
	slog.SetDefault(slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})))

	slog.Info("test info")

	if !writer.Contains("test info") {
		t.Error("expected 'test info' in log entries")
	}
}

func TestLogging_LogProxyKeepsLevel(t *testing.T) {
	writer := NewTestWriter()
	slog.SetDefault(slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})))
	lw := &slogWriter{}
	log.SetOutput(lw)
	defer log.SetOutput(&slogWriter{})

	log.Print("ERROR: proxied error line")

	if !writer.Contains("proxied error line") {
		t.Error("expected proxied error line in log entries")
	}
	if !writer.Contains("level=ERROR") {
		t.Error("expected proxied line to keep its error level")
	}
}
