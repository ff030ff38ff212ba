package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/grob/internal/format"
	"github.com/harrison/grob/internal/logger"
)

// findOptions holds the find command's flags.
type findOptions struct {
	discoveryOptions
	format     string
	output     string
	relativeTo string
	squeeze    bool
	withKeys   bool
	only       []string
}

// NewFindCommand creates the find command.
func NewFindCommand() *cobra.Command {
	opts := &findOptions{}
	cmd := &cobra.Command{
		Use:   "find <directory>",
		Short: "Discover and group files under a directory",
		Long: `Discover files under a directory, route each file to the first tag
whose pattern matches it, join files sharing a key into groups, and
write the groups to stdout (or a file).

Examples:
  # Pair images with their captions by shared id
  grob find data/ --tag image='{id}.jpg' --tag caption='{id}.txt'

  # Several crops per image share one caption
  grob find data/ \
    --tag crop='{id}_{crop_index}.jpg' \
    --tag caption='{id}.txt' \
    --distribute caption=crop_index

  # Tags declared in a spec file, results as CSV
  grob find data/ --spec grob.yaml --format csv -o groups.csv

  # Only the caption paths, one JSON record per line
  grob find data/ --spec grob.yaml --only caption --format jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "",
		"output format (json, jsonl, csv, tsv)")
	flags.StringVarP(&opts.output, "output", "o", "",
		"write output to this file instead of stdout")
	flags.StringVar(&opts.relativeTo, "relative-to", "",
		"rewrite paths relative to this base before formatting")
	flags.BoolVar(&opts.squeeze, "squeeze", true,
		"collapse groups to the bare value when a single tag is requested")
	flags.BoolVar(&opts.withKeys, "with-keys", true,
		"include group keys in the output")
	flags.StringSliceVar(&opts.only, "only", nil,
		"restrict output to these tags (default: all tags in order)")

	return cmd
}

func runFind(cmd *cobra.Command, root string, opts *findOptions) error {
	log := logger.New(cmd.ErrOrStderr(), opts.logLevel)

	spec, err := opts.buildSpec()
	if err != nil {
		return err
	}

	formatName := spec.Format
	if opts.format != "" {
		formatName = opts.format
	}
	formatter, err := format.New(formatName)
	if err != nil {
		return err
	}

	squeeze := true
	if spec.Squeeze != nil {
		squeeze = *spec.Squeeze
	}
	if cmd.Flags().Changed("squeeze") {
		squeeze = opts.squeeze
	}
	withKeys := true
	if spec.WithKeys != nil {
		withKeys = *spec.WithKeys
	}
	if cmd.Flags().Changed("with-keys") {
		withKeys = opts.withKeys
	}
	relativeTo := spec.RelativeTo
	if opts.relativeTo != "" {
		relativeTo = opts.relativeTo
	}

	tagNames, err := selectTagNames(spec.TagNames(), opts.only)
	if err != nil {
		return err
	}

	grouped, _, err := discover(root, spec, log)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return formatter.Format(out, grouped, format.Options{
		TagNames:   tagNames,
		RelativeTo: relativeTo,
		Squeeze:    squeeze,
		WithKeys:   withKeys,
	})
}

// selectTagNames validates --only against the declared tags and returns
// the tag names to output, in declaration order.
func selectTagNames(declared, only []string) ([]string, error) {
	if len(only) == 0 {
		return declared, nil
	}
	known := make(map[string]bool, len(declared))
	for _, name := range declared {
		known[name] = true
	}
	for _, name := range only {
		if !known[name] {
			return nil, fmt.Errorf("--only names unknown tag %q", name)
		}
	}
	requested := make(map[string]bool, len(only))
	for _, name := range only {
		requested[name] = true
	}
	var names []string
	for _, name := range declared {
		if requested[name] {
			names = append(names, name)
		}
	}
	return names, nil
}
