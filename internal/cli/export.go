package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreyvit/docstore"
)

func NewExportCommand(opts *RootOptions) *cobra.Command {
	var output string
	var tombstones bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all collections to a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := store.ExportJSON(w, docstore.ExportOptions{IncludeTombstones: tombstones}); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the snapshot to a file instead of stdout")
	cmd.Flags().BoolVar(&tombstones, "tombstones", false, "include soft-deleted records in the snapshot")
	return cmd
}

func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Restore collections from a previously exported snapshot",
		Long:  "Restore collections from a snapshot. Each collection present in the snapshot is cleared and replaced; collections absent from it are untouched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return store.ImportJSON(f)
		},
	}
}
