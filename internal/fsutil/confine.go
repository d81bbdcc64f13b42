// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fsutil keeps file writes inside a configured directory.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot is returned when a name resolves outside its directory.
var ErrEscapesRoot = errors.New("path escapes root")

// ConfineName checks that root/name stays physically underneath root, also
// after following an existing symlink at that location. name must be a single
// relative path element without backslashes. It returns the resolved path.
func ConfineName(root, name string) (string, error) {
	if strings.Contains(name, "\\") {
		return "", fmt.Errorf("name contains backslash: %q", name)
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean != filepath.Base(clean) || clean == "." || clean == ".." {
		return "", fmt.Errorf("name must be a single relative element: %q", name)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root path: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", err
	}

	full := filepath.Join(realRoot, clean)
	resolved := full
	if _, err := os.Lstat(full); err == nil {
		// Fail closed when an existing entry (or dangling link) cannot be resolved.
		if resolved, err = filepath.EvalSymlinks(full); err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
	}

	rel, err := filepath.Rel(realRoot, resolved)
	if err != nil {
		return "", fmt.Errorf("rel computation failed: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", resolved, ErrEscapesRoot)
	}
	return resolved, nil
}
