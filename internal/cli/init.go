package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/callrelay/internal/genesis"
	"github.com/ppiankov/callrelay/internal/node"
)

var initGenesis string

func init() {
	initCmd.Flags().StringVar(&initGenesis, "genesis", "", "Path to genesis YAML (omit for a single-admin default)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a relay node in the data directory",
	Long: `Creates the node state and runs the contract's one-time initialization:
the contract account and every genesis admin receive Admin permission,
and the trust policy starts at "trusted".

The genesis file names the contract identity, admin accounts, the
required tag schema, account balances, and local stub contracts. Run
again only against a fresh data directory.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	g := genesis.Default()
	if initGenesis != "" {
		loaded, err := genesis.Load(initGenesis)
		if err != nil {
			return err
		}
		g = loaded
	}

	n, err := node.Bootstrap(dataDir, g)
	if err != nil {
		return err
	}
	defer n.Close()

	fmt.Printf("Initialized node in %s\n", dataDir)
	fmt.Printf("  contract: %s\n", n.ContractID())
	fmt.Printf("  admins:   %d\n", len(g.Admins))
	if len(g.RequiredTags) > 0 {
		fmt.Printf("  tags:     %v\n", g.RequiredTags)
	}
	return nil
}
