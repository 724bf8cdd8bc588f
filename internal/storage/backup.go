package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appLog "atlanend/internal/log"
)

const backupSuffix = ".backup"

// Backup copies every stored item into backupDir as
// <unix-timestamp>_<key>.json.backup and prunes older backups so at most keep
// remain per key. keep <= 0 disables pruning. It returns the written paths.
func (f *FileStorage) Backup(backupDir string, keep int, now time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(backupDir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create backup dir: %w", err)
	}

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, itemSuffix) || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.dir, name))
		if err != nil {
			return written, err
		}

		dst := filepath.Join(backupDir, fmt.Sprintf("%d_%s%s", now.Unix(), name, backupSuffix))
		if err := writeFileAtomic(dst, data); err != nil {
			return written, fmt.Errorf("storage: write backup: %w", err)
		}
		written = append(written, dst)

		if keep > 0 {
			if err := pruneBackups(backupDir, name, keep); err != nil {
				appLog.Error("backup prune failed", err, "dir", backupDir, "item", name)
			}
		}
	}

	appLog.Debug("storage backup completed", "dir", backupDir, "files", len(written))
	return written, nil
}

// pruneBackups keeps the newest keep backups of item.
func pruneBackups(backupDir, item string, keep int) error {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return err
	}

	suffix := "_" + item + backupSuffix
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}

	// Names start with a unix timestamp; pad-free compare is fine until 2286.
	sort.Strings(names)
	for _, n := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(backupDir, n)); err != nil {
			return err
		}
	}
	return nil
}
