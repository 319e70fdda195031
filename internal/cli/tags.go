package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewTagsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the tag vocabulary",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the tag vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tags, err := store.Tags()
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <tag>",
		Short: "Add a tag to the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.AddTag(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a tag, rewriting every record that references it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.RenameTag(args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <tag>",
		Short: "Delete a tag from the vocabulary and from every record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.DeleteTag(args[0])
		},
	})

	return cmd
}
