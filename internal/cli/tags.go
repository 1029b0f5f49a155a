package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/callrelay/internal/node"
)

var tagsAs string

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.PersistentFlags().StringVar(&tagsAs, "as", "", "Caller account (must hold Admin for writes)")
	tagsCmd.AddCommand(tagsSetCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsRemoveCmd)
	tagsCmd.AddCommand(tagsListCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Required tag schema operations",
	Long: "Every relayed call carries a tag payload. The schema names the exact\n" +
		"set of tags a payload must carry; payloads with extra or missing tags\n" +
		"are rejected before anything is scheduled.",
}

var tagsSetCmd = &cobra.Command{
	Use:   "set <name> [name...]",
	Short: "Replace the required tag schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tagsWrite(func(n *node.Node) error {
			return n.Contract.SetRequiredTags(n.Env(tagsAs), args)
		})
	},
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <name> [name...]",
	Short: "Add names to the required tag schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tagsWrite(func(n *node.Node) error {
			return n.Contract.AddRequiredTags(n.Env(tagsAs), args)
		})
	},
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove <name> [name...]",
	Short: "Remove names from the required tag schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tagsWrite(func(n *node.Node) error {
			return n.Contract.RemoveRequiredTags(n.Env(tagsAs), args)
		})
	},
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the required tag schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := openNode()
		if err != nil {
			return err
		}
		defer n.Close()

		names, err := n.Contract.GetRequiredTags(n.Env(""))
		if err != nil {
			return err
		}
		if names == "" {
			fmt.Println("(empty: tag payloads are not checked)")
			return nil
		}
		fmt.Println(names)
		return nil
	},
}

func tagsWrite(fn func(n *node.Node) error) error {
	n, err := openNode()
	if err != nil {
		return err
	}
	defer n.Close()

	if err := fn(n); err != nil {
		return err
	}
	fmt.Println("tag schema updated")
	return nil
}
