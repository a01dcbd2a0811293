package content

// Visibility is the filter a read applies to projects from either source.
type Visibility struct {
	IncludeDrafts bool
	ActiveOnly    bool
}

// ListVisibility is used by listings: public lists hide drafts and inactive
// projects, privileged lists show everything.
func ListVisibility(includeDrafts bool) Visibility {
	return Visibility{IncludeDrafts: includeDrafts, ActiveOnly: !includeDrafts}
}

// LookupVisibility is used by direct slug/id lookups, which ignore isActive.
func LookupVisibility(includeDrafts bool) Visibility {
	return Visibility{IncludeDrafts: includeDrafts}
}

// Allows reports whether p passes the filter.
func (v Visibility) Allows(p Project) bool {
	if !v.IncludeDrafts && p.Metadata.Status != StatusPublished {
		return false
	}
	if v.ActiveOnly && !p.IsActive {
		return false
	}
	return true
}

// Filter returns the projects that pass, in order.
func (v Visibility) Filter(projects []Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if v.Allows(p) {
			out = append(out, p)
		}
	}
	return out
}
