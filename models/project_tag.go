package models

import "github.com/google/uuid"

// ProjectTag represents a tag associated with a project
type ProjectTag struct {
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;primaryKey;not null;index:idx_project_tag_project_id"`
	Tag       string    `json:"tag" db:"tag" gorm:"type:text;primaryKey;not null"`
}

func (ProjectTag) TableName() string { return "project_tags" }
