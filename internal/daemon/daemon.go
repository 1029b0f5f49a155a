package daemon

import (
	"context"
	"fmt"
	"os"
)

// Run services the inbox until ctx is cancelled: it ensures the
// directory layout, drains any requests that arrived while the daemon
// was down, then watches for new ones. Per-request failures are
// reported to stderr and do not stop the daemon.
func Run(ctx context.Context, p *Processor, dirs DirConfig) error {
	if err := EnsureDirs(dirs); err != nil {
		return err
	}

	handle := func(path string) {
		if err := p.Process(path); err != nil {
			fmt.Fprintf(os.Stderr, "daemon: %v\n", err)
		}
	}

	if err := ScanExisting(dirs.Inbox, handle); err != nil {
		return fmt.Errorf("daemon: scan inbox: %w", err)
	}

	return NewInboxWatcher(dirs.Inbox, handle).Run(ctx)
}
