package main

import (
	"time"

	"github.com/robfig/cron/v3"

	"atlanend/internal/config"
	appLog "atlanend/internal/log"
	"atlanend/internal/storage"
	"atlanend/internal/store"
)

// startBackups schedules periodic snapshot backups. It returns nil when
// backups are disabled.
func startBackups(conf *config.Config, fs *storage.FileStorage, planner *store.Store) (*cron.Cron, error) {
	if conf.BackupCron == "" {
		appLog.Info("backups disabled")
		return nil, nil
	}

	c := cron.New(cron.WithLocation(conf.Location()))
	_, err := c.AddFunc(conf.BackupCron, func() {
		// Flush first so the backup reflects the latest in-memory state.
		if err := planner.Save(); err != nil {
			appLog.Error("backup: save before backup failed", err)
		}
		written, err := fs.Backup(conf.BackupDir(), conf.BackupKeep, time.Now())
		if err != nil {
			appLog.Error("backup failed", err, "dir", conf.BackupDir())
			return
		}
		appLog.Info("backup complete", "files", len(written), "dir", conf.BackupDir())
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	appLog.Info("backups scheduled", "cron", conf.BackupCron, "keep", conf.BackupKeep)
	return c, nil
}
