package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a row of the projects table together with its joined children.
// IsActive is optional in the live schema; queries may omit it.
type Project struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Slug             string     `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_projects_slug"`
	InternalCode     *string    `json:"internal_code,omitempty" db:"internal_code" gorm:"column:internal_code;type:text"`
	Name             string     `json:"name" db:"name" gorm:"type:text;not null"`
	ShortDescription *string    `json:"short_description,omitempty" db:"short_description" gorm:"column:short_description;type:text"`
	Client           *string    `json:"client,omitempty" db:"client" gorm:"column:client;type:text"`
	Category         *string    `json:"category,omitempty" db:"category" gorm:"column:category;type:text"`
	Status           string     `json:"status" db:"status" gorm:"column:status;type:text;not null;default:'draft'"`
	Priority         *string    `json:"priority,omitempty" db:"priority" gorm:"column:priority;type:text"`
	ProjectManager   *string    `json:"project_manager,omitempty" db:"project_manager" gorm:"column:project_manager;type:text"`
	Year             *int       `json:"year,omitempty" db:"year" gorm:"column:year;type:integer"`
	IsActive         *bool      `json:"is_active,omitempty" db:"is_active" gorm:"column:is_active;type:boolean;default:true"`
	HeroAssetID      *uuid.UUID `json:"hero_asset_id,omitempty" db:"hero_asset_id" gorm:"column:hero_asset_id;type:uuid"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at" gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`

	// CreationRank is the 1-based position of the row in creation order. It is
	// computed by reads and never stored.
	CreationRank int `json:"-" db:"creation_rank" gorm:"->;-:migration;column:creation_rank"`

	HeroAsset    *ProjectAsset        `json:"hero_asset,omitempty" gorm:"foreignKey:HeroAssetID;references:ID;constraint:OnDelete:SET NULL"`
	Descriptions []ProjectDescription `json:"descriptions,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	GalleryItems []ProjectGalleryItem `json:"gallery_items,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tags         []ProjectTag         `json:"tags,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Relations    []ProjectRelation    `json:"relations,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string { return "projects" }

// ProjectDescription is one paragraph of a project's long description.
type ProjectDescription struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_descriptions_project_id"`
	OrderIndex int       `json:"order_index" db:"order_index" gorm:"column:order_index;type:integer;not null;default:0"`
	Paragraph  string    `json:"paragraph" db:"paragraph" gorm:"type:text;not null"`
}

func (ProjectDescription) TableName() string { return "project_descriptions" }

// ProjectGalleryItem places an asset in a project's gallery at OrderIndex.
type ProjectGalleryItem struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_gallery_items_project_id"`
	AssetID    uuid.UUID `json:"asset_id" db:"asset_id" gorm:"type:uuid;not null"`
	Caption    *string   `json:"caption,omitempty" db:"caption" gorm:"type:text"`
	OrderIndex int       `json:"order_index" db:"order_index" gorm:"column:order_index;type:integer;not null;default:0"`

	Asset *ProjectAsset `json:"asset,omitempty" gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProjectGalleryItem) TableName() string { return "project_gallery_items" }

// ProjectRelation links a project to another project it should be shown next to.
type ProjectRelation struct {
	ProjectID        uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;primaryKey;not null"`
	RelatedProjectID uuid.UUID `json:"related_project_id" db:"related_project_id" gorm:"type:uuid;primaryKey;not null"`
}

func (ProjectRelation) TableName() string { return "project_relations" }
