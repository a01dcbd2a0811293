package content

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestParseDataset_SlugFromName(t *testing.T) {
	projects, err := ParseDataset([]byte(`[{"name": "Demo Plant"}]`), NewAssetResolver(""))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "demo-plant", projects[0].Slug)
	assert.Equal(t, "PRJ-001", projects[0].Metadata.InternalID)
	assert.Equal(t, StatusPublished, projects[0].Metadata.Status)
	assert.True(t, projects[0].IsActive)
}

func TestParseDataset_SlugAlwaysProcessable(t *testing.T) {
	doc := `[
		{"name": "  Mixed CASE, punctuation!! "},
		{"name": ""},
		{"name": "???"},
		{"slug": "Given Slug"},
		{"name": "Mixed case punctuation"}
	]`
	projects, err := ParseDataset([]byte(doc), NewAssetResolver(""))
	require.NoError(t, err)
	require.Len(t, projects, 5)

	assert.Equal(t, "mixed-case-punctuation", projects[0].Slug)
	assert.Equal(t, "project-2", projects[1].Slug)
	assert.Equal(t, "project-3", projects[2].Slug)
	assert.Equal(t, "given-slug", projects[3].Slug)
	assert.Equal(t, "mixed-case-punctuation-2", projects[4].Slug, "collisions get a suffix")
	for _, p := range projects {
		assert.Regexp(t, slugPattern, p.Slug)
	}
}

func TestParseDataset_TopLevelShapes(t *testing.T) {
	_, err := ParseDataset([]byte(`{"projects": [{"name": "A"}]}`), NewAssetResolver(""))
	require.NoError(t, err)

	_, err = ParseDataset([]byte(`{"items": []}`), NewAssetResolver(""))
	assert.Error(t, err)

	_, err = ParseDataset([]byte(`"nope"`), NewAssetResolver(""))
	assert.Error(t, err)

	_, err = ParseDataset([]byte(`{`), NewAssetResolver(""))
	assert.Error(t, err)

	projects, err := ParseDataset([]byte(`[1, "x", {"name": "Only"}]`), NewAssetResolver(""))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "only", projects[0].Slug)
}

func TestParseDataset_FlatRecord(t *testing.T) {
	doc := `[{
		"name": "Flat One",
		"year": "2018",
		"metadata.internalId": "PRJ-042",
		"metadata.status": "archived",
		"metadata.tags.0": "b",
		"metadata.tags.1": "",
		"metadata.tags.2": "a",
		"metadata.isActive": "false",
		"description.1": "second",
		"description.0": "first",
		"gallery.1.src": "https://x.test/1.jpg",
		"gallery.0.path": "p/0.jpg",
		"gallery.0.bucket": "media"
	}]`
	projects, err := ParseDataset([]byte(doc), NewAssetResolver("https://cdn.test"))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	p := projects[0]

	assert.Equal(t, "flat-one", p.Slug)
	require.NotNil(t, p.Year)
	assert.Equal(t, 2018, *p.Year)
	assert.Equal(t, "PRJ-042", p.Metadata.InternalID)
	assert.Equal(t, StatusArchived, p.Metadata.Status)
	assert.Equal(t, []string{"b", "a"}, p.Metadata.Tags)
	assert.False(t, p.IsActive)
	assert.Equal(t, []string{"<p>first</p>", "<p>second</p>"}, p.Description)
	require.Len(t, p.Gallery, 2)
	assert.Equal(t, "https://cdn.test/media/p/0.jpg", p.Gallery[0].Src)
	require.NotNil(t, p.Gallery[0].Storage)
	assert.Equal(t, "p/0.jpg", p.Gallery[0].Storage.Path)
	assert.Equal(t, "https://x.test/1.jpg", p.Gallery[1].Src)
	assert.Equal(t, p.Gallery[0].Src, p.HeroImage.Src)
}

func TestParseDataset_StatusAndRelations(t *testing.T) {
	doc := `[
		{"slug": "a", "status": "bogus", "relatedSlugs": ["b", "a", "b", "ghost"]},
		{"slug": "b", "metadata": {"status": "Published"}, "relatedSlugs": "a"}
	]`
	projects, err := ParseDataset([]byte(doc), NewAssetResolver(""))
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, projects[0].Metadata.Status, "unrecognized status is draft")
	assert.Equal(t, []string{"b"}, projects[0].RelatedSlugs)
	assert.Equal(t, StatusPublished, projects[1].Metadata.Status)
	assert.Equal(t, []string{"a"}, projects[1].RelatedSlugs)
}

func TestParseDataset_HeroAndGalleryOrder(t *testing.T) {
	doc := `[{
		"name": "Ordered",
		"heroImage": "https://x.test/hero.jpg",
		"gallery": [
			{"src": "https://x.test/b.jpg", "orderIndex": 1},
			{"src": "https://x.test/a.jpg", "orderIndex": 0},
			{"caption": "no source"}
		]
	}]`
	projects, err := ParseDataset([]byte(doc), NewAssetResolver(""))
	require.NoError(t, err)
	p := projects[0]

	assert.Equal(t, "https://x.test/hero.jpg", p.HeroImage.Src)
	assert.Equal(t, "Ordered", p.HeroImage.Alt)
	require.Len(t, p.Gallery, 2)
	assert.Equal(t, "https://x.test/a.jpg", p.Gallery[0].Src)
	assert.Equal(t, "https://x.test/b.jpg", p.Gallery[1].Src)
}

func TestParseDataset_DescriptionAsString(t *testing.T) {
	projects, err := ParseDataset([]byte(`[{"name": "S", "description": "Tom & Jerry"}]`), NewAssetResolver(""))
	require.NoError(t, err)
	assert.Equal(t, []string{"<p>Tom &amp; Jerry</p>"}, projects[0].Description)
}

func TestFallbackLoader_LoadsOnce(t *testing.T) {
	calls := 0
	loader := NewFallbackLoader(func() ([]byte, error) {
		calls++
		return []byte(`[{"name": "Cached"}]`), nil
	}, NewAssetResolver(""))

	first, err := loader.Load()
	require.NoError(t, err)
	first[0].Slug = "mutated"

	second, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "cached", second[0].Slug, "callers get copies")
}

func TestFallbackLoader_CachesError(t *testing.T) {
	calls := 0
	loader := NewFallbackLoader(func() ([]byte, error) {
		calls++
		return nil, errors.New("boom")
	}, NewAssetResolver(""))

	_, err := loader.Load()
	assert.Error(t, err)
	_, err = loader.Load()
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestEmbeddedDataset(t *testing.T) {
	loader := NewFallbackLoader(EmbeddedDataset(), NewAssetResolver("https://cdn.test"))
	projects, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, projects, 4)

	byslug := map[string]Project{}
	for _, p := range projects {
		assert.Regexp(t, slugPattern, p.Slug)
		assert.NotContains(t, p.RelatedSlugs, p.Slug)
		byslug[p.Slug] = p
	}

	harbor := byslug["harbor-desalination-plant"]
	assert.Equal(t, []string{"solar-farm-retrofit"}, harbor.RelatedSlugs)
	assert.Equal(t, []string{"water", "energy"}, harbor.Metadata.Tags)
	assert.Equal(t, "Intake structure", harbor.Gallery[0].Caption)

	solar, ok := byslug["solar-farm-retrofit"]
	require.True(t, ok)
	assert.Equal(t, "PRJ-002", solar.Metadata.InternalID)
	assert.Equal(t, "https://images.example.com/solar/row.jpg", solar.HeroImage.Src)

	heating := byslug["district-heating-network"]
	assert.Equal(t, []string{"heating", "municipal"}, heating.Metadata.Tags)
	assert.Len(t, heating.Description, 2)

	assert.Equal(t, StatusDraft, byslug["riverside-lab-concept"].Metadata.Status)
}
