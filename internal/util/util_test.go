// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFileFolderHierarchy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "file.log")
	require.NoError(t, EnsureFileFolderHierarchy(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureFileFolderHierarchy_NoFolderComponent(t *testing.T) {
	// A bare filename (or an empty path) has nothing to create and must not
	// slice out of bounds.
	require.NoError(t, EnsureFileFolderHierarchy("file.log"))
	require.NoError(t, EnsureFileFolderHierarchy(""))
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pel", "fabrica"), ExpandHomePath("~/.pel/fabrica"))
	assert.Equal(t, "/absolute/path", ExpandHomePath("/absolute/path"))
}

func TestNewID(t *testing.T) {
	assert.NotEmpty(t, NewID())
	assert.NotEqual(t, NewID(), NewID())
}
