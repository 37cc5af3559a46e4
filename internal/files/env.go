package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the data folder created under the user's home directory.
	DefaultDirName = ".tudu"

	// HomeEnv overrides the data folder when set to a non-blank value.
	HomeEnv = "TUDU_HOME"
)

// ResolveBasePath determines where tudu keeps its lists, defaulting to ~/.tudu.
func ResolveBasePath() (string, error) {
	if override, ok := os.LookupEnv(HomeEnv); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return ExpandHome(override)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(input string) (string, error) {
	if !strings.HasPrefix(input, "~") {
		return input, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(input, "~")), nil
}
