// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
)

// NewID generates a unique request ID via ksuid
func NewID() string {
	return ksuid.New().String()
}

func EnsureFileFolderHierarchy(path string) error {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		// No folder component, nothing to create.
		return nil
	}
	return EnsureFolderHierarchy(path[:idx])
}

func EnsureFolderHierarchy(path string) error {
	return os.MkdirAll(path, 0755)
}

func ExpandHomePath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("./", path[1:])
		}

		return filepath.Join(home, path[1:])
	}

	return path
}
