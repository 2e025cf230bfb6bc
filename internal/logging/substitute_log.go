// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"log/slog"
	"strings"
)

// slogWriter routes stdlib log output into slog, so dependencies that write
// through the default logger end up in the same handler chain. Lines with a
// recognizable level prefix keep their level; everything else lands at debug.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	line := string(p)
	trim := func(prefix string) string {
		return strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(line, prefix), ": "))
	}
	switch {
	case strings.HasPrefix(line, "ERROR"):
		slog.Error(trim("ERROR"))
	case strings.HasPrefix(line, "WARN"):
		slog.Warn(trim("WARN"))
	case strings.HasPrefix(line, "INFO"):
		slog.Info(trim("INFO"))
	default:
		slog.Debug(line)
	}

	return len(p), nil
}
