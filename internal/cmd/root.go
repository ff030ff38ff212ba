// Package cmd implements the grob command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for grob.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grob",
		Short: "Group files by path patterns",
		Long: `Grob discovers files in a directory tree, extracts keys from their
paths with a small pattern language, and joins files sharing a key into
grouped records.

Patterns mix literal text, placeholders and regular expression syntax:

  {id}.jpg             captures "1" from "1.jpg"
  {id}_{crop}.png      captures two key parts per file
  images/*/{id}.txt    "*" matches exactly one directory level
  {id}.(mp3|aac|wav)   regex alternation passes through unchanged
  {name!g}-{take}.wav  "!g" makes a capture greedy

Tags are tried in declaration order; each file lands in the first tag
that matches it, so declare specific tags before general ones.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewFindCommand())
	cmd.AddCommand(NewIndexCommand())

	return cmd
}
