package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/grob/internal/index"
	"github.com/harrison/grob/internal/logger"
)

// indexOptions holds the index command's flags.
type indexOptions struct {
	discoveryOptions
	dbPath string
}

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	opts := &indexOptions{}
	cmd := &cobra.Command{
		Use:   "index <directory>",
		Short: "Record grouped files in a SQLite index",
		Long: `Run the same discovery and grouping pass as find, but record the
grouped files in a SQLite database instead of formatting them. Each
invocation appends one run, identified by a generated run ID, so
downstream tooling can query or diff discovery runs.

Example:
  grob index data/ --spec grob.yaml --db .grob/index.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.dbPath, "db", ".grob/index.db",
		"path of the SQLite index database")

	return cmd
}

func runIndex(cmd *cobra.Command, root string, opts *indexOptions) error {
	log := logger.New(cmd.ErrOrStderr(), opts.logLevel)

	spec, err := opts.buildSpec()
	if err != nil {
		return err
	}

	grouped, _, err := discover(root, spec, log)
	if err != nil {
		return err
	}

	store, err := index.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.RecordRun(root, spec.TagNames(), grouped)
	if err != nil {
		return err
	}
	log.Infof("recorded run %s (%d groups) in %s", runID, len(grouped.Keys), opts.dbPath)
	return nil
}
