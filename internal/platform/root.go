package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	dataDirName  = "buku"
	databaseName = "bookmarks.db"
)

// DefaultDatabasePath returns where buku keeps its database, so the host
// and buku share one library without extra configuration.
//
// Lookup order: $XDG_DATA_HOME, %APPDATA% on Windows, then ~/.local/share.
func DefaultDatabasePath() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, dataDirName, databaseName), nil
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, dataDirName, databaseName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve default database path: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName, databaseName), nil
}
