// Package content resolves the normalized Project entity graph from the
// relational store rows and from the bundled fallback dataset.
package content

import (
	"fmt"
	"strings"
	"time"
)

// Status is the publication state of a project.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ParseStatus maps free text onto a Status. Unrecognized values become draft.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPublished:
		return StatusPublished
	case StatusArchived:
		return StatusArchived
	default:
		return StatusDraft
	}
}

// Priority ranks a project in curated listings. The zero value means unset.
type Priority string

const (
	PriorityFlagship  Priority = "flagship"
	PriorityPortfolio Priority = "portfolio"
	PriorityStandard  Priority = "standard"
)

// ParsePriority returns the empty Priority for anything it does not recognize.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityFlagship, PriorityPortfolio, PriorityStandard:
		return p
	default:
		return ""
	}
}

// Metadata is the structured bag attached to every project.
type Metadata struct {
	InternalID     string   `json:"internalId"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority,omitempty"`
	ProjectManager string   `json:"projectManager,omitempty"`
	Tags           []string `json:"tags"`
	IsActive       bool     `json:"isActive"`
}

// StorageDescriptor keeps the storage coordinates of an image so editing
// tools can round-trip it.
type StorageDescriptor struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	Label     string `json:"label,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"`
}

// ProjectImage is a renderable image. An empty Src is the valid "no image" state.
type ProjectImage struct {
	Src        string             `json:"src"`
	Alt        string             `json:"alt"`
	Caption    string             `json:"caption,omitempty"`
	OrderIndex int                `json:"orderIndex"`
	Storage    *StorageDescriptor `json:"storage,omitempty"`
	AssetID    string             `json:"assetId,omitempty"`
}

// ProjectAsset is a storage-backed file record.
type ProjectAsset struct {
	ID        string    `json:"id"`
	Bucket    string    `json:"bucket"`
	Path      string    `json:"path"`
	PublicURL string    `json:"publicUrl"`
	Label     string    `json:"label,omitempty"`
	AltText   string    `json:"altText,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
	SizeBytes *int64    `json:"sizeBytes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Project is the normalized entity handed to every consumer regardless of
// which source produced it.
type Project struct {
	ID               string         `json:"id,omitempty"`
	Slug             string         `json:"slug"`
	Name             string         `json:"name"`
	ShortDescription string         `json:"shortDescription"`
	Client           string         `json:"client"`
	Category         string         `json:"category"`
	Year             *int           `json:"year,omitempty"`
	Description      []string       `json:"description"`
	HeroImage        ProjectImage   `json:"heroImage"`
	Gallery          []ProjectImage `json:"gallery"`
	RelatedSlugs     []string       `json:"relatedSlugs"`
	Metadata         Metadata       `json:"metadata"`
	IsActive         bool           `json:"isActive"`

	// RelatedIDs holds raw relation keys until ResolveRelations runs.
	RelatedIDs []string `json:"-"`
}

// InternalCodeFor returns the generated PRJ-### code for the n-th project (1-based).
func InternalCodeFor(n int) string {
	return fmt.Sprintf("PRJ-%03d", n)
}

// NormalizeTags trims tags, drops empties and removes duplicates keeping the
// first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
