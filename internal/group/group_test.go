package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/grob/internal/tags"
)

func groupFor(t *testing.T, grouped *Grouped, key string) Group {
	t.Helper()
	g, ok := grouped.Groups[key]
	require.True(t, ok, "missing group %q (have %v)", key, grouped.Keys)
	return g
}

func TestByKeyJoinsMatchingKeys(t *testing.T) {
	image := mustTag(t, "image", "{id}.jpg")
	caption := mustTag(t, "caption", "{id}.txt")
	tagList := []tags.Tag{image, caption}

	collections, err := FindByTag([]string{"1.jpg", "1.txt", "2.jpg"}, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	require.ElementsMatch(t, []string{"1", "2"}, grouped.Keys)

	one := groupFor(t, grouped, "1")
	assert.Equal(t, "1.jpg", one["image"].Single())
	assert.Equal(t, "1.txt", one["caption"].Single())

	two := groupFor(t, grouped, "2")
	assert.Equal(t, "2.jpg", two["image"].Single())
	_, hasCaption := two["caption"]
	assert.False(t, hasCaption, "incomplete groups are not an error")
}

func TestByKeyDistributableBroadcast(t *testing.T) {
	crop := mustTag(t, "crop", "{id}_{crop_index}.jpg")
	caption := mustTag(t, "caption", "{id}.txt")
	caption.DistributeOver = []string{"crop_index"}
	tagList := []tags.Tag{crop, caption}

	collections, err := FindByTag([]string{"1_0.jpg", "1_1.jpg", "1.txt"}, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	require.ElementsMatch(t, []string{"1_0", "1_1"}, grouped.Keys)
	for _, key := range grouped.Keys {
		g := groupFor(t, grouped, key)
		assert.Equal(t, "1.txt", g["caption"].Single(), "group %q", key)
	}
}

func TestByKeyDistributableLeavesUnrelatedGroupsAlone(t *testing.T) {
	crop := mustTag(t, "crop", "{id}_{crop_index}.jpg")
	caption := mustTag(t, "caption", "{id}.txt")
	caption.DistributeOver = []string{"crop_index"}
	tagList := []tags.Tag{crop, caption}

	collections, err := FindByTag([]string{"1_0.jpg", "2_0.jpg", "1.txt"}, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	one := groupFor(t, grouped, "1_0")
	assert.Equal(t, "1.txt", one["caption"].Single())

	two := groupFor(t, grouped, "2_0")
	_, hasCaption := two["caption"]
	assert.False(t, hasCaption)
}

func TestByKeyDistributableOrderAscendingPartCount(t *testing.T) {
	// Two distributable tags can write the same group entry name only if
	// they share it; here they use distinct names, but the narrower tag
	// (more key parts) must still be applied after the broader one.
	shot := mustTag(t, "shot", "{scene}_{shot}_{frame}.png")
	sceneNotes := mustTag(t, "notes", "{scene}.md")
	sceneNotes.DistributeOver = []string{"shot", "frame"}
	shotAudio := mustTag(t, "audio", "{scene}_{shot}.wav")
	shotAudio.DistributeOver = []string{"frame"}

	// Declare the narrower distributable first to prove processing order
	// comes from key-part count, not declaration order.
	tagList := []tags.Tag{shot, shotAudio, sceneNotes}

	files := []string{"s1_a_0.png", "s1_a_1.png", "s1_b_0.png", "s1.md", "s1_a.wav"}
	collections, err := FindByTag(files, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	require.Len(t, grouped.Keys, 3)

	a0 := groupFor(t, grouped, "s1_a_0")
	assert.Equal(t, "s1.md", a0["notes"].Single())
	assert.Equal(t, "s1_a.wav", a0["audio"].Single())

	b0 := groupFor(t, grouped, "s1_b_0")
	assert.Equal(t, "s1.md", b0["notes"].Single())
	_, hasAudio := b0["audio"]
	assert.False(t, hasAudio, "audio only exists for shot a")
}

func TestByKeySinglePartMergesLast(t *testing.T) {
	image := mustTag(t, "image", "{id}.jpg")
	manifest := mustTag(t, "manifest", `manifest\.json`)
	tagList := []tags.Tag{image, manifest}

	collections, err := FindByTag([]string{"1.jpg", "manifest.json"}, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	require.ElementsMatch(t, []string{"1", "manifest.json"}, grouped.Keys)
	m := groupFor(t, grouped, "manifest.json")
	assert.Equal(t, "manifest.json", m["manifest"].Single())
}

func TestByKeySinglePartJoinsExistingGroup(t *testing.T) {
	// A single-part tag whose native key collides with a formatted key
	// merges into that group instead of creating a new one.
	image := mustTag(t, "image", "{id}.jpg")
	marker := mustTag(t, "marker", "1")
	tagList := []tags.Tag{image, marker}

	collections, err := FindByTag([]string{"1.jpg", "1"}, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	require.Equal(t, []string{"1"}, grouped.Keys)
	g := groupFor(t, grouped, "1")
	assert.Equal(t, "1.jpg", g["image"].Single())
	assert.Equal(t, "1", g["marker"].Single())
}

func TestByKeyAllowMultipleMembers(t *testing.T) {
	frames := mustTag(t, "frames", "{id}_{n}.png")
	frames.AllowMultiple = true
	caption := mustTag(t, "caption", "{id}_{n}.txt")
	tagList := []tags.Tag{frames, caption}

	collections, err := FindByTag([]string{"1_0.png", "1_0.txt"}, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))

	g := groupFor(t, grouped, "1_0")
	assert.True(t, g["frames"].Multiple)
	assert.Equal(t, []string{"1_0.png"}, g["frames"].Paths)
	assert.False(t, g["caption"].Multiple)
}

func TestByKeyDeterministicOrder(t *testing.T) {
	image := mustTag(t, "image", "{id}.jpg")
	tagList := []tags.Tag{image}

	files := []string{"b.jpg", "a.jpg", "c.jpg"}
	collections, err := FindByTag(files, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))
	assert.Equal(t, []string{"b", "a", "c"}, grouped.Keys, "insertion order is preserved")
}

func TestDefaultFormatterPartOrder(t *testing.T) {
	crop := mustTag(t, "crop", "{id}_{crop_index}.jpg")
	tagList := []tags.Tag{crop}
	formatter := DefaultFormatter(tagList)

	key, ok := crop.Parser.Match("7_3.jpg")
	require.True(t, ok)
	assert.Equal(t, "7_3", formatter(key))
}

func TestByKeyEmptyCollections(t *testing.T) {
	image := mustTag(t, "image", "{id}.jpg")
	tagList := []tags.Tag{image}

	collections, err := FindByTag(nil, tagList)
	require.NoError(t, err)

	grouped := ByKey(collections, DefaultFormatter(tagList))
	assert.Empty(t, grouped.Keys)
	assert.Empty(t, grouped.Groups)
}
