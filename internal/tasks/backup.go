package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/pdfparts/internal/fileutil"
)

// BackupName is the directory name of a backup taken at t, e.g. "backup-20240131154502123".
func BackupName(t time.Time) string {
	return fmt.Sprintf("backup-%s%03d", t.Format("20060102150405"), t.Nanosecond()/int(time.Millisecond))
}

// Backup copies outputRoot into a new timestamped directory under backupRoot and returns its path.
//
// An empty backupRoot or a missing outputRoot means there is nothing to do and returns "".
func Backup(outputRoot, backupRoot string, now time.Time) (string, error) {
	if backupRoot == "" || !fileutil.IsDir(outputRoot) {
		return "", nil
	}

	if fileutil.Within(outputRoot, backupRoot) {
		return "", fmt.Errorf("backup directory %s is inside the output directory %s", backupRoot, outputRoot)
	}

	if err := os.MkdirAll(backupRoot, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest := filepath.Join(backupRoot, BackupName(now))
	if _, err := fileutil.CopyDir(outputRoot, dest); err != nil {
		return dest, fmt.Errorf("failed to back up %s: %w", outputRoot, err)
	}
	return dest, nil
}
