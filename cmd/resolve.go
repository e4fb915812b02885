package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/kiln/internal/domain/registry"
	"github.com/zjrosen/kiln/internal/presentation"
)

var (
	resolveLibrary string
	resolveLabel   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve KEY",
	Short: "Resolve a key to a single entry",
	Long: `Run the resolution rule for KEY and print the winning entry as JSON.

Keys match case-insensitively. When several entries share the key,
narrow the match with --library and --label; qualifiers match exactly.
Zero matches is a not-found error, more than one is an ambiguity error.

Examples:
  # Resolve an unambiguous key
  kiln resolve reader

  # Disambiguate by library
  kiln resolve writer --library pkg2
  kiln resolve writer -L pkg2

  # Disambiguate by label
  kiln resolve writer --label db_writer

  # Both qualifiers
  kiln resolve writer -L pkg2 -l db_writer`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService(false)
		if err != nil {
			return err
		}
		defer cleanup()
		defer svc.Close()

		if err := svc.Populate(cmd.Context()); err != nil {
			return err
		}

		var opts []registry.LookupOption
		if cmd.Flags().Changed("library") {
			opts = append(opts, registry.WithLibrary(resolveLibrary))
		}
		if cmd.Flags().Changed("label") {
			opts = append(opts, registry.WithLabel(resolveLabel))
		}

		entry, err := svc.Resolve(args[0], opts...)
		if err != nil {
			return err
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		return formatter.FormatEntry(presentation.FromDomainEntry(entry))
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveLibrary, "library", "L", "", "Require the entry's library qualifier to match")
	resolveCmd.Flags().StringVarP(&resolveLabel, "label", "l", "", "Require the entry's label qualifier to match")
	rootCmd.AddCommand(resolveCmd)
}
