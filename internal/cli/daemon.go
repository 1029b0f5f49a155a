package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/callrelay/internal/daemon"
)

var (
	daemonInbox  string
	daemonOutbox string
)

func init() {
	daemonCmd.Flags().StringVar(&daemonInbox, "inbox", "", "Inbox directory (default <data>/inbox)")
	daemonCmd.Flags().StringVar(&daemonOutbox, "outbox", "", "Outbox directory (default <data>/outbox)")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch an inbox directory for call requests",
	Long: `Watches the inbox for JSON call-request files, relays each through the
node in path order, and writes a receipt per request to the outbox.
Requests present at startup are processed first. Runs until SIGINT or
SIGTERM.`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	dirs := daemon.DirConfig{
		Inbox:  daemonInbox,
		Outbox: daemonOutbox,
	}
	if dirs.Inbox == "" {
		dirs.Inbox = filepath.Join(dataDir, "inbox")
	}
	if dirs.Outbox == "" {
		dirs.Outbox = filepath.Join(dataDir, "outbox")
	}

	n, err := openNode()
	if err != nil {
		return err
	}
	defer n.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("watching %s (receipts in %s)\n", dirs.Inbox, dirs.Outbox)
	return daemon.Run(ctx, daemon.NewProcessor(n, dirs), dirs)
}
