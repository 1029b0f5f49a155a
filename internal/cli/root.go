package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/callrelay/internal/node"
)

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "callrelay",
	Short: "Permissioned cross-contract call relay with a hash-chained audit log",
	Long: "Runs a local relay node: callers on the access whitelist submit tagged\n" +
		"call batches, the relay validates and dispatches them, and every outcome\n" +
		"lands in a tamper-evident audit log.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "Node data directory")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".callrelay"
	}
	return filepath.Join(home, ".callrelay")
}

// openNode attaches to the node in the data directory. Every command
// except init goes through here.
func openNode() (*node.Node, error) {
	return node.Open(dataDir)
}
