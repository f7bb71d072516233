package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"marcenapp/internal/database"
)

const backupKeep = 7

// BackupJob writes a daily snapshot of the sqlite database and prunes old
// snapshots. VACUUM INTO produces a consistent copy without closing the
// live connection.
type BackupJob struct {
	db        *database.DB
	backupDir string
}

// NewBackupJob creates a new backup job
func NewBackupJob(db *database.DB, backupDir string) *BackupJob {
	return &BackupJob{db: db, backupDir: backupDir}
}

// Run executes one backup cycle
func (j *BackupJob) Run(ctx context.Context) error {
	if err := os.MkdirAll(j.backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	target := filepath.Join(j.backupDir,
		fmt.Sprintf("marcenapp-%s.db", time.Now().UTC().Format("2006-01-02")))

	// Re-running on the same day replaces that day's snapshot.
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace existing backup: %w", err)
	}

	if _, err := j.db.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat backup: %w", err)
	}
	log.Printf("💾 [BACKUP] Wrote %s (%d bytes)", target, info.Size())

	return j.prune()
}

// GetNextRunTime returns 03:00 UTC of the next day
func (j *BackupJob) GetNextRunTime() time.Time {
	now := time.Now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// prune keeps the most recent backupKeep snapshots.
func (j *BackupJob) prune() error {
	entries, err := os.ReadDir(j.backupDir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	var snapshots []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "marcenapp-") && strings.HasSuffix(name, ".db") {
			snapshots = append(snapshots, name)
		}
	}
	if len(snapshots) <= backupKeep {
		return nil
	}

	// Date-stamped names sort chronologically.
	sort.Strings(snapshots)
	for _, name := range snapshots[:len(snapshots)-backupKeep] {
		path := filepath.Join(j.backupDir, name)
		if err := os.Remove(path); err != nil {
			log.Printf("⚠️ [BACKUP] Failed to prune %s: %v", path, err)
			continue
		}
		log.Printf("🗑️ [BACKUP] Pruned old snapshot: %s", name)
	}
	return nil
}
