package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectAsset is a file stored in object storage. (bucket, path) is unique.
type ProjectAsset struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Bucket    string    `json:"bucket" db:"bucket" gorm:"type:text;not null;uniqueIndex:idx_project_assets_bucket_path,priority:1"`
	Path      string    `json:"path" db:"path" gorm:"type:text;not null;uniqueIndex:idx_project_assets_bucket_path,priority:2"`
	Label     *string   `json:"label,omitempty" db:"label" gorm:"type:text"`
	AltText   *string   `json:"alt_text,omitempty" db:"alt_text" gorm:"column:alt_text;type:text"`
	MimeType  *string   `json:"mime_type,omitempty" db:"mime_type" gorm:"column:mime_type;type:text"`
	SizeBytes *int64    `json:"size_bytes,omitempty" db:"size_bytes" gorm:"column:size_bytes;type:bigint"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (ProjectAsset) TableName() string { return "project_assets" }
