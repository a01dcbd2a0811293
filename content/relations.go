package content

// ResolveRelations replaces each project's raw RelatedIDs with slugs. The
// lookup is built from the batch itself; extra may add id->slug pairs for
// projects outside the batch (single-entity lookups). Unknown ids and
// self-references are dropped, order is kept and duplicates removed.
func ResolveRelations(projects []Project, extra map[string]string) []Project {
	lookup := make(map[string]string, len(projects)+len(extra))
	for id, slug := range extra {
		lookup[id] = slug
	}
	for _, p := range projects {
		if p.ID != "" {
			lookup[p.ID] = p.Slug
		}
	}

	out := make([]Project, len(projects))
	for i, p := range projects {
		slugs := make([]string, 0, len(p.RelatedIDs))
		for _, id := range p.RelatedIDs {
			if id == p.ID {
				continue
			}
			if slug, ok := lookup[id]; ok {
				slugs = append(slugs, slug)
			}
		}
		p.RelatedSlugs = cleanRelatedSlugs(p.Slug, slugs, nil)
		p.RelatedIDs = nil
		out[i] = p
	}
	return out
}

// cleanRelatedSlugs drops empties, the owner's slug and duplicates. When
// known is non-nil, slugs outside it are dropped too.
func cleanRelatedSlugs(self string, slugs []string, known map[string]struct{}) []string {
	out := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		if s == "" || s == self {
			continue
		}
		if known != nil {
			if _, ok := known[s]; !ok {
				continue
			}
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SelectRelated picks the projects to show next to p: its explicit relations
// found in all, or, when none resolve, the other projects of all in order.
// limit <= 0 means no cap.
func SelectRelated(p Project, all []Project, limit int) []Project {
	bySlug := make(map[string]Project, len(all))
	for _, candidate := range all {
		bySlug[candidate.Slug] = candidate
	}

	var picked []Project
	for _, slug := range p.RelatedSlugs {
		if slug == p.Slug {
			continue
		}
		if candidate, ok := bySlug[slug]; ok {
			picked = append(picked, candidate)
		}
	}
	if len(picked) == 0 {
		for _, candidate := range all {
			if candidate.Slug != p.Slug {
				picked = append(picked, candidate)
			}
		}
	}
	if limit > 0 && len(picked) > limit {
		picked = picked[:limit]
	}
	if picked == nil {
		picked = []Project{}
	}
	return picked
}

// PruneRelated drops related slugs that point outside projects, so a
// filtered batch never links to entities it does not contain.
func PruneRelated(projects []Project) []Project {
	known := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		known[p.Slug] = struct{}{}
	}
	out := make([]Project, len(projects))
	for i, p := range projects {
		p.RelatedSlugs = cleanRelatedSlugs(p.Slug, p.RelatedSlugs, known)
		out[i] = p
	}
	return out
}
