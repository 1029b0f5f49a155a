package daemon

import (
	"fmt"
	"os"
)

// dirPerm is the permission for daemon-managed directories.
const dirPerm = 0750

// DirConfig holds the daemon directory layout.
type DirConfig struct {
	Inbox  string // incoming call-request files
	Outbox string // receipts
}

// EnsureDirs creates both directories. Idempotent.
func EnsureDirs(cfg DirConfig) error {
	for _, dir := range []string{cfg.Inbox, cfg.Outbox} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("daemon: create directory %s: %w", dir, err)
		}
	}
	return nil
}
