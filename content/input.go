package content

import (
	"io"
	"strings"
)

// GalleryInput is one gallery entry of a write payload.
type GalleryInput struct {
	AssetID    string `json:"assetId"`
	Caption    string `json:"caption,omitempty"`
	OrderIndex *int   `json:"orderIndex,omitempty"`
}

// ProjectInput is the write payload for create and update. A nil field is
// left untouched by an update; a non-nil empty slice clears the collection.
type ProjectInput struct {
	Slug              *string         `json:"slug,omitempty"`
	Name              *string         `json:"name,omitempty"`
	ShortDescription  *string         `json:"shortDescription,omitempty"`
	Client            *string         `json:"client,omitempty"`
	Category          *string         `json:"category,omitempty"`
	Year              *int            `json:"year,omitempty"`
	InternalCode      *string         `json:"internalCode,omitempty"`
	Status            *string         `json:"status,omitempty"`
	Priority          *string         `json:"priority,omitempty"`
	ProjectManager    *string         `json:"projectManager,omitempty"`
	IsActive          *bool           `json:"isActive,omitempty"`
	HeroAssetID       *string         `json:"heroAssetId,omitempty"`
	Description       *[]string       `json:"description,omitempty"`
	Gallery           *[]GalleryInput `json:"gallery,omitempty"`
	Tags              *[]string       `json:"tags,omitempty"`
	RelatedProjectIDs *[]string       `json:"relatedProjectIds,omitempty"`
}

// Trimmed returns the value of s without surrounding blanks, or "" when nil.
func Trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// AssetFilter narrows ListProjectAssets to one project folder. Both fields
// are required.
type AssetFilter struct {
	InternalCode string
	Slug         string
}

// AssetUpload describes one file to store under a project folder.
type AssetUpload struct {
	Filename     string
	Body         io.Reader
	ContentType  string
	InternalCode string
	Slug         string
	Label        string
	AltText      string
}
