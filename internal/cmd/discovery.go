package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/grob/internal/config"
	"github.com/harrison/grob/internal/group"
	"github.com/harrison/grob/internal/logger"
	"github.com/harrison/grob/internal/tags"
	"github.com/harrison/grob/internal/walker"
)

// discoveryOptions collects the flags shared by the find and index
// commands: how tags are declared and which files are considered.
type discoveryOptions struct {
	tagFlags   []string
	specFile   string
	multiple   []string
	distribute []string
	include    []string
	exclude    []string
	logLevel   string
}

func (o *discoveryOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&o.tagFlags, "tag", "t", nil,
		"tag declaration as name=pattern (repeatable; order sets routing precedence)")
	flags.StringVar(&o.specFile, "spec", "",
		"YAML spec file declaring tags and output defaults")
	flags.StringSliceVar(&o.multiple, "multiple", nil,
		"tags allowed to collect several files per key")
	flags.StringArrayVar(&o.distribute, "distribute", nil,
		"distributable tag as tag=part[,part...] naming the key parts its matches are broadcast over")
	flags.StringSliceVar(&o.include, "include", nil,
		"only consider files matching these globs (doublestar syntax, relative to the root)")
	flags.StringSliceVar(&o.exclude, "exclude", nil,
		"drop files matching these globs")
	flags.StringVar(&o.logLevel, "log-level", "info",
		"log verbosity (debug, info, warn, error)")
}

// buildSpec merges the spec file (if any) with the tag flags. Flag-declared
// tags are appended after spec-file tags, preserving declaration order.
func (o *discoveryOptions) buildSpec() (*config.Spec, error) {
	spec := config.Default()
	if o.specFile != "" {
		loaded, err := config.Load(o.specFile)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}

	for _, decl := range o.tagFlags {
		name, pattern, ok := strings.Cut(decl, "=")
		if !ok || name == "" || pattern == "" {
			return nil, fmt.Errorf("invalid --tag %q: expected name=pattern", decl)
		}
		spec.Tags = append(spec.Tags, config.TagSpec{Name: name, Pattern: pattern})
	}

	for _, name := range o.multiple {
		if err := markMultiple(spec, name); err != nil {
			return nil, err
		}
	}
	for _, decl := range o.distribute {
		if err := markDistributable(spec, decl); err != nil {
			return nil, err
		}
	}

	if len(o.include) > 0 {
		spec.Include = o.include
	}
	if len(o.exclude) > 0 {
		spec.Exclude = o.exclude
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func markMultiple(spec *config.Spec, name string) error {
	for i := range spec.Tags {
		if spec.Tags[i].Name == name {
			spec.Tags[i].AllowMultiple = true
			return nil
		}
	}
	return fmt.Errorf("--multiple names unknown tag %q", name)
}

func markDistributable(spec *config.Spec, decl string) error {
	name, partList, ok := strings.Cut(decl, "=")
	if !ok || name == "" || partList == "" {
		return fmt.Errorf("invalid --distribute %q: expected tag=part[,part...]", decl)
	}
	parts := strings.Split(partList, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return fmt.Errorf("invalid --distribute %q: empty part name", decl)
		}
	}
	for i := range spec.Tags {
		if spec.Tags[i].Name == name {
			spec.Tags[i].DistributeOver = parts
			return nil
		}
	}
	return fmt.Errorf("--distribute names unknown tag %q", name)
}

// discover runs the full discovery and grouping pass for one root.
func discover(root string, spec *config.Spec, log *logger.Logger) (*group.Grouped, []tags.Tag, error) {
	tagList, err := spec.BuildTags()
	if err != nil {
		return nil, nil, err
	}

	files, err := walker.Walk(root, walker.Options{Include: spec.Include, Exclude: spec.Exclude})
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("found %d files under %s", len(files), root)

	collections, err := group.FindByTag(files, tagList)
	if err != nil {
		return nil, nil, err
	}
	matched := 0
	for _, c := range collections {
		matched += c.Files()
		log.Debugf("tag %q (%s): %d files, %d keys", c.Tag.Name, c.Tag.Kind(), c.Files(), c.Len())
	}

	grouped := group.ByKey(collections, group.DefaultFormatter(tagList))
	log.Infof("grouped %d of %d files into %d groups", matched, len(files), len(grouped.Keys))
	return grouped, tagList, nil
}
