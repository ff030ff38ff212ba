// Package config loads grob spec files declaring tags and output defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/grob/internal/tags"
)

// TagSpec declares one tag in a spec file.
type TagSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	// AllowMultiple collects a list of files per key instead of exactly one.
	AllowMultiple bool `yaml:"allow_multiple"`

	// DistributeOver marks the tag distributable: its matches are broadcast
	// into every group agreeing on all key parts except the listed ones.
	DistributeOver []string `yaml:"distribute_over"`
}

// Spec is a parsed grob spec file. Tags is an ordered list because tag
// order is the routing contract: most specific tags must come first.
type Spec struct {
	Tags []TagSpec `yaml:"tags"`

	// Output defaults. CLI flags override any of these.
	Format     string   `yaml:"format"`
	RelativeTo string   `yaml:"relative_to"`
	Squeeze    *bool    `yaml:"squeeze"`
	WithKeys   *bool    `yaml:"with_keys"`
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
}

// Default returns the built-in defaults applied before a spec file or CLI
// flags are consulted.
func Default() *Spec {
	return &Spec{Format: "json"}
}

// Load reads and validates a spec file at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	spec := Default()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("failed to parse spec file: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec file %s: %w", path, err)
	}
	return spec, nil
}

// Validate checks tag declarations for missing fields and duplicate names.
func (s *Spec) Validate() error {
	if len(s.Tags) == 0 {
		return fmt.Errorf("no tags declared")
	}
	seen := make(map[string]bool, len(s.Tags))
	for _, decl := range s.Tags {
		if decl.Name == "" {
			return fmt.Errorf("tag with pattern %q has no name", decl.Pattern)
		}
		if decl.Pattern == "" {
			return fmt.Errorf("tag %q has no pattern", decl.Name)
		}
		if seen[decl.Name] {
			return fmt.Errorf("duplicate tag name %q", decl.Name)
		}
		seen[decl.Name] = true
	}
	return nil
}

// BuildTags compiles the declared tags in declaration order.
func (s *Spec) BuildTags() ([]tags.Tag, error) {
	out := make([]tags.Tag, 0, len(s.Tags))
	for _, decl := range s.Tags {
		tag, err := tags.New(decl.Name, decl.Pattern)
		if err != nil {
			return nil, err
		}
		tag.AllowMultiple = decl.AllowMultiple
		tag.DistributeOver = decl.DistributeOver
		out = append(out, tag)
	}
	return out, nil
}

// TagNames returns the declared tag names in order.
func (s *Spec) TagNames() []string {
	names := make([]string, len(s.Tags))
	for i, decl := range s.Tags {
		names[i] = decl.Name
	}
	return names
}
