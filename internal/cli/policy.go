package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var policyAs string

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policySetCmd)
	policySetCmd.Flags().StringVar(&policyAs, "as", "", "Caller account (must hold Admin)")
	policySetCmd.MarkFlagRequired("as")
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Trust policy operations",
}

var policySetCmd = &cobra.Command{
	Use:   "set <trusted|all>",
	Short: "Set the trust policy for outgoing calls",
	Long: `"trusted" restricts relayed calls to targets whose whitelist level is
exactly Trusted. "all" disables the target check entirely; tag, shape,
and funds validation still apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runPolicySet,
}

func runPolicySet(cmd *cobra.Command, args []string) error {
	n, err := openNode()
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.Contract.SetTrustPolicy(n.Env(policyAs), args[0]); err != nil {
		return err
	}
	fmt.Printf("trust policy set to %s\n", args[0])
	return nil
}
