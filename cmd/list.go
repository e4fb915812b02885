package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/kiln/internal/domain/registry"
	"github.com/zjrosen/kiln/internal/presentation"
)

var (
	listLibrary string
	listLabels  []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered entries",
	Long: `List every registered entry as JSON, populated from the configured
catalogs and manifest directories.

Listing runs with lenient factory binding: manifests referencing
factories not linked into this binary are still shown.

Examples:
  # List all entries
  kiln list

  # Filter by library
  kiln list --library pkg1
  kiln list -L pkg1

  # Filter by label
  kiln list --label db_writer
  kiln list -l db_writer

  # Parse specific fields with jq
  kiln list | jq '.[].key'`,
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

		var entries []*registry.Entry
		switch {
		case cmd.Flags().Changed("library"):
			entries = svc.GetByLibrary(listLibrary)
			if len(listLabels) > 0 {
				entries = filterByLabels(entries, listLabels)
			}
		case len(listLabels) > 0:
			entries = filterByLabels(svc.List(), listLabels)
		default:
			entries = svc.List()
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		return formatter.FormatEntries(presentation.FromDomainEntries(entries))
	},
}

func init() {
	listCmd.Flags().StringVarP(&listLibrary, "library", "L", "", "Filter by library qualifier")
	listCmd.Flags().StringArrayVarP(&listLabels, "label", "l", nil, "Filter by label (repeatable, entries matching any are kept)")
	rootCmd.AddCommand(listCmd)
}

// filterByLabels keeps entries whose label matches any of the given labels.
func filterByLabels(entries []*registry.Entry, labels []string) []*registry.Entry {
	result := make([]*registry.Entry, 0)
	for _, entry := range entries {
		if matchesAnyLabel(entry.Label(), labels) {
			result = append(result, entry)
		}
	}
	return result
}

func matchesAnyLabel(label string, labels []string) bool {
	for _, l := range labels {
		if label == l {
			return true
		}
	}
	return false
}
