package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewTrashCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect, restore or purge soft-deleted records",
	}
	cmd.AddCommand(newTrashListCommand(opts))
	cmd.AddCommand(newTrashRestoreCommand(opts))
	cmd.AddCommand(newTrashPurgeCommand(opts))
	return cmd
}

func newTrashListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tombstoned records across all collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLLECTION\tID\tDELETED AT")
			for _, c := range store.Schema().Collections() {
				recs, err := store.Deleted(c)
				if err != nil {
					return err
				}
				for _, rec := range recs {
					fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name(), rec.ID(), rec.DeletedAt().Format("2006-01-02 15:04:05"))
				}
			}
			return w.Flush()
		},
	}
}

func newTrashRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <collection> <id>",
		Short: "Bring a tombstoned record back into the default views",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.Collection(args[0])
			if err != nil {
				return err
			}
			return store.Restore(c, args[1])
		},
	}
}

func newTrashPurgeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <collection> [id]",
		Short: "Permanently remove tombstoned records",
		Long:  "Permanently remove a tombstoned record, or every tombstoned record of the collection when no id is given. This cannot be undone.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.Collection(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				return store.HardDelete(c, args[1])
			}

			recs, err := store.Deleted(c)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				if err := store.HardDelete(c, rec.ID()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "purged %d records from %s\n", len(recs), c.Name())
			return nil
		},
	}
}
