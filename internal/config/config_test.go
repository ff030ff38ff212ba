package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/grob/internal/tags"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grob.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPreservesTagOrder(t *testing.T) {
	path := writeSpec(t, `
tags:
  - name: thumb
    pattern: "{id}_thumb.jpg"
  - name: image
    pattern: "{id}.jpg"
  - name: caption
    pattern: "{id}.txt"
    distribute_over: [crop_index]
`)

	spec, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"thumb", "image", "caption"}, spec.TagNames())
	assert.Equal(t, []string{"crop_index"}, spec.Tags[2].DistributeOver)
	assert.Equal(t, "json", spec.Format, "default format survives unmarshal")
}

func TestLoadOutputDefaults(t *testing.T) {
	path := writeSpec(t, `
tags:
  - name: image
    pattern: "{id}.jpg"
    allow_multiple: true
format: csv
relative_to: /data
squeeze: false
with_keys: false
include: ["**/*.jpg"]
exclude: ["backup/**"]
`)

	spec, err := Load(path)
	require.NoError(t, err)

	assert.True(t, spec.Tags[0].AllowMultiple)
	assert.Equal(t, "csv", spec.Format)
	assert.Equal(t, "/data", spec.RelativeTo)
	require.NotNil(t, spec.Squeeze)
	assert.False(t, *spec.Squeeze)
	require.NotNil(t, spec.WithKeys)
	assert.False(t, *spec.WithKeys)
	assert.Equal(t, []string{"**/*.jpg"}, spec.Include)
	assert.Equal(t, []string{"backup/**"}, spec.Exclude)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read spec file")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeSpec(t, "tags: [not: valid: yaml")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse spec file")
}

func TestValidateRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{
			name: "no tags",
			spec: Spec{},
			want: "no tags declared",
		},
		{
			name: "missing name",
			spec: Spec{Tags: []TagSpec{{Pattern: "{id}.jpg"}}},
			want: "has no name",
		},
		{
			name: "missing pattern",
			spec: Spec{Tags: []TagSpec{{Name: "image"}}},
			want: "has no pattern",
		},
		{
			name: "duplicate names",
			spec: Spec{Tags: []TagSpec{
				{Name: "image", Pattern: "{id}.jpg"},
				{Name: "image", Pattern: "{id}.png"},
			}},
			want: "duplicate tag name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildTags(t *testing.T) {
	spec := &Spec{Tags: []TagSpec{
		{Name: "crop", Pattern: "{id}_{crop_index}.jpg"},
		{Name: "caption", Pattern: "{id}.txt", DistributeOver: []string{"crop_index"}},
	}}

	built, err := spec.BuildTags()
	require.NoError(t, err)
	require.Len(t, built, 2)
	assert.Equal(t, tags.MultiPart, built[0].Kind())
	assert.Equal(t, tags.Distributable, built[1].Kind())
}

func TestBuildTagsCompileError(t *testing.T) {
	spec := &Spec{Tags: []TagSpec{{Name: "broken", Pattern: "{unclosed"}}}
	_, err := spec.BuildTags()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tag "broken"`)
}
