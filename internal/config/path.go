// Package config resolves spicefx settings from viper: defaults, the config
// file, SPICEFX_ environment variables and flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR style environment variables in a
// file path. An empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}
