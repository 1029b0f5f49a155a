package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var grantAs string

func init() {
	grantCmd.Flags().StringVar(&grantAs, "as", "", "Caller account (must hold Admin)")
	grantCmd.MarkFlagRequired("as")
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(levelCmd)
}

var grantCmd = &cobra.Command{
	Use:   "grant <level> <account> [account...]",
	Short: "Set the permission level of one or more accounts",
	Long: `Writes the given level (untrusted, trusted, or admin) for each account
into the access whitelist, overwriting any previous entry. The caller
named by --as must hold Admin; levels are checked by exact match, so
even Admin callers cannot pass checks that require Trusted.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGrant,
}

var levelCmd = &cobra.Command{
	Use:   "level <account>",
	Short: "Show the permission level of an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevel,
}

func runGrant(cmd *cobra.Command, args []string) error {
	n, err := openNode()
	if err != nil {
		return err
	}
	defer n.Close()

	level, accounts := args[0], args[1:]
	if err := n.Contract.GrantPermissionLevel(n.Env(grantAs), accounts, level); err != nil {
		return err
	}
	fmt.Printf("granted %s to %d account(s)\n", level, len(accounts))
	return nil
}

func runLevel(cmd *cobra.Command, args []string) error {
	n, err := openNode()
	if err != nil {
		return err
	}
	defer n.Close()

	level, err := n.Contract.GetPermissionLevel(n.Env(args[0]), args[0])
	if err != nil {
		return err
	}
	fmt.Println(level)
	return nil
}
