package util

import (
	"os"
	"path/filepath"
	"strings"
)

// BackupsDirName is the directory, relative to the working directory, that
// holds pre-write snapshots.
const BackupsDirName = ".sync_include-backups"

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ExpandPath expands a leading ~ to the home directory and resolves relative
// paths against baseDir. An empty baseDir leaves relative paths untouched.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}

	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}

	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// BackupsPath returns the backup directory below baseDir.
func BackupsPath(baseDir string) string {
	return filepath.Join(baseDir, BackupsDirName)
}
