package cli

import (
	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage"
)

type Context struct {
	Store storage.Provider
	Debug bool
}

// PerformAutomaticBackup snapshots the store before a mutation and silently
// handles errors; a failed backup never interrupts the user's workflow.
func (c *Context) PerformAutomaticBackup() {
	if storage.IsPostgresConnString(c.Store.GetConfigPath()) {
		// Remote stores are backed up server-side.
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
