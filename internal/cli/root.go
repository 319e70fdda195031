// Package cli implements the operator command set of the admin records
// store: backup export/import, the trash view, tag vocabulary management
// and per-collection status.
package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/andreyvit/docstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB         string
	ConfigPath string
	Actor      string
	Verbose    bool
}

// Registry declares the fixed collection set of the admin records
// application. system_settings and audit_log come built in.
func Registry() *docstore.Schema {
	scm := docstore.NewSchema()
	docstore.AddCollection(scm, "employees", docstore.WithIndex("department"))
	docstore.AddCollection(scm, "tasks", docstore.WithIndex("status"), docstore.WithTagFields("tags"))
	docstore.AddCollection(scm, "correspondence", docstore.WithIndex("direction"), docstore.WithTagFields("tags"))
	docstore.AddCollection(scm, "attachments", docstore.WithIndex("moduleType"))
	return scm
}

// NewRootCommand creates the root command for the docstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "docstore",
		Short:         "Embedded document store of the admin records application",
		Long:          "Operator tooling for the embedded document store: backup, restore, trash and tag vocabulary management.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the store file (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a yaml config file")
	cmd.PersistentFlags().StringVar(&opts.Actor, "actor", "", "acting user recorded in the audit trail")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose store logging")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTrashCommand(opts))
	cmd.AddCommand(NewTagsCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

func (opts *RootOptions) openStore() (*docstore.Store, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	storeOpts := docstore.Options{
		Actor:   firstNonEmpty(opts.Actor, cfg.Actor, "cli"),
		Verbose: opts.Verbose,
	}
	if opts.Verbose {
		storeOpts.Logf = log.Printf
	}
	path := firstNonEmpty(opts.DB, cfg.DB, "docstore.db")
	return docstore.Open(path, Registry(), storeOpts)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
