package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns the default config path and data directories.
//
// Each location is resolved from the first source that is set:
//
//	config_path  CLIPKEEP_CONFIG_PATH, $XDG_CONFIG_HOME/clipkeep.toml, ~/.config/clipkeep.toml
//	base_dir     CLIPKEEP_HOME, $XDG_DATA_HOME/clipkeep, ~/.local/share/clipkeep
//
// The XDG variables follow the XDG Base Directory layout, so a desktop session
// that relocates config or data moves clipkeep with it. An empty variable
// counts as unset. log_dir and data_dir are always "log" and "db" under base_dir.
func GetDefaults() (map[string]string, error) {
	configPath, err := resolveLocation("CLIPKEEP_CONFIG_PATH", "XDG_CONFIG_HOME", "clipkeep.toml", ".config")
	if err != nil {
		return nil, err
	}
	baseDir, err := resolveLocation("CLIPKEEP_HOME", "XDG_DATA_HOME", "clipkeep", ".local/share")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"data_dir":    filepath.Join(baseDir, "db"),
	}, nil
}

// resolveLocation returns $override verbatim when set, otherwise name under
// $xdgVar, otherwise name under homeRel in the user's home directory.
func resolveLocation(override, xdgVar, name, homeRel string) (string, error) {
	if path := os.Getenv(override); path != "" {
		return path, nil
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving %s: cannot determine home directory: %w", override, err)
	}
	return filepath.Join(home, filepath.FromSlash(homeRel), name), nil
}
