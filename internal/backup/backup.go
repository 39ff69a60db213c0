// Package backup snapshots a file before syncinclude rewrites it.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DirPerm is the permission for backup directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for backup files (rw-r-----)
	FilePerm = 0o640
)

// Metadata describes a single snapshot.
type Metadata struct {
	ID         string    `json:"id"`          // Timestamp and hash prefix
	SourcePath string    `json:"source_path"` // File that was copied
	BackupPath string    `json:"backup_path"` // Where the copy lives
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"` // Source modification time
	Hash       string    `json:"hash"`        // SHA256 of the content
	Size       int64     `json:"size"`
}

// Create copies sourcePath into dir and returns the snapshot metadata.
// The copy is named <timestamp>-<hash prefix>-<base name> so snapshots of
// different files never collide.
func Create(sourcePath, dir string) (*Metadata, error) {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path %q: %w", sourcePath, err)
	}

	// #nosec G304 - sourcePath is the file about to be rewritten
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", sourcePath, err)
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	now := time.Now()
	id := now.Format("20060102-150405-") + hash[:8]
	name := id + "-" + filepath.Base(sourcePath)
	backupPath := filepath.Join(dir, name)

	if err := os.WriteFile(backupPath, content, FilePerm); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return &Metadata{
		ID:         id,
		SourcePath: sourcePath,
		BackupPath: backupPath,
		CreatedAt:  now,
		ModifiedAt: info.ModTime(),
		Hash:       hash,
		Size:       info.Size(),
	}, nil
}
