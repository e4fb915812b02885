package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check manifests for configuration errors",
	Long: `Populate the registry in strict mode and report configuration errors:
unreadable or unparseable manifests, entries missing keys or factory
references, and references to factories not linked into this binary.

Exits non-zero on the first configuration error.

Examples:
  kiln lint
  kiln lint -m ./manifests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService(true)
		if err != nil {
			return err
		}
		defer cleanup()
		defer svc.Close()

		if err := svc.Populate(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d entries\n", svc.Registry().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
