package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-collection record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLLECTION\tACTIVE\tTRASHED")
			for _, c := range store.Schema().Collections() {
				active, err := store.Count(c)
				if err != nil {
					return err
				}
				trashed, err := store.Deleted(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\n", c.Name(), active, len(trashed))
			}
			return w.Flush()
		},
	}
}
