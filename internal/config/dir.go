// Package config provides the configuration directory and the on-disk
// defaults layer for backstitch.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the backstitch configuration directory.
//
// Resolution:
//   - $BACKSTITCH_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/backstitch if set (respects XDG on any platform)
//   - %AppData%/backstitch on Windows
//   - ~/.config/backstitch on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("BACKSTITCH_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "backstitch")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "backstitch")
		}
	}

	// macOS and Linux: ~/.config/backstitch
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "backstitch")
}
