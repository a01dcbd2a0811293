package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRelations(t *testing.T) {
	projects := []Project{
		{ID: "1", Slug: "one", RelatedIDs: []string{"2", "1", "3", "2", "missing"}},
		{ID: "2", Slug: "two", RelatedIDs: []string{"1"}},
		{ID: "3", Slug: "three"},
	}

	got := ResolveRelations(projects, nil)

	assert.Equal(t, []string{"two", "three"}, got[0].RelatedSlugs)
	assert.Equal(t, []string{"one"}, got[1].RelatedSlugs)
	assert.Equal(t, []string{}, got[2].RelatedSlugs)
	for _, p := range got {
		assert.NotContains(t, p.RelatedSlugs, p.Slug)
		assert.Nil(t, p.RelatedIDs)
	}
}

func TestResolveRelations_DropsIdOutsideBatch(t *testing.T) {
	projects := []Project{
		{ID: "1", Slug: "one", RelatedIDs: []string{"2", "9"}},
		{ID: "2", Slug: "two"},
	}

	got := ResolveRelations(projects, nil)

	assert.Len(t, got[0].RelatedSlugs, len(projects[0].RelatedIDs)-1)
	assert.Equal(t, []string{"two"}, got[0].RelatedSlugs)
}

func TestResolveRelations_UsesExtraLookup(t *testing.T) {
	projects := []Project{{ID: "1", Slug: "one", RelatedIDs: []string{"7", "8"}}}

	got := ResolveRelations(projects, map[string]string{"7": "seven", "8": "one"})

	assert.Equal(t, []string{"seven"}, got[0].RelatedSlugs, "a slug equal to the owner's is dropped")
}

func TestSelectRelated(t *testing.T) {
	all := []Project{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}, {Slug: "d"}}

	t.Run("explicit relations", func(t *testing.T) {
		got := SelectRelated(Project{Slug: "a", RelatedSlugs: []string{"d", "x", "b"}}, all, 0)
		assert.Equal(t, []string{"d", "b"}, slugsOf(got))
	})

	t.Run("falls back to load order", func(t *testing.T) {
		got := SelectRelated(Project{Slug: "b"}, all, 2)
		assert.Equal(t, []string{"a", "c"}, slugsOf(got))
	})

	t.Run("unresolvable explicit relations fall back", func(t *testing.T) {
		got := SelectRelated(Project{Slug: "a", RelatedSlugs: []string{"gone"}}, all, 10)
		assert.Equal(t, []string{"b", "c", "d"}, slugsOf(got))
	})

	t.Run("alone", func(t *testing.T) {
		got := SelectRelated(Project{Slug: "a"}, []Project{{Slug: "a"}}, 3)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
}

func slugsOf(projects []Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Slug)
	}
	return out
}

func TestPruneRelated(t *testing.T) {
	in := []Project{
		{Slug: "a", RelatedSlugs: []string{"b", "hidden"}},
		{Slug: "b", RelatedSlugs: []string{"hidden"}},
	}
	got := PruneRelated(in)
	assert.Equal(t, []string{"b"}, got[0].RelatedSlugs)
	assert.Equal(t, []string{}, got[1].RelatedSlugs)
	assert.Equal(t, []string{"b", "hidden"}, in[0].RelatedSlugs, "input is not modified")
}
