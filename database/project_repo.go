package database

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// ColumnIsActive is the optional projects column guarded by the schema probe.
const ColumnIsActive = "is_active"

var baseProjectColumns = []string{
	"id", "slug", "internal_code", "name", "short_description", "client",
	"category", "status", "priority", "project_manager", "year",
	"hero_asset_id", "created_at", "updated_at",
}

// ProjectColumns returns the projects columns a read selects.
func ProjectColumns(withIsActive bool) []string {
	cols := append([]string{}, baseProjectColumns...)
	if withIsActive {
		cols = append(cols, ColumnIsActive)
	}
	return cols
}

// creationRankColumn ranks a row among all projects, whatever the read filters.
const creationRankColumn = `(SELECT COUNT(*) FROM projects AS earlier WHERE (earlier.created_at, earlier.slug) <= (projects.created_at, projects.slug)) AS creation_rank`

// ProjectQuery shapes a project read.
type ProjectQuery struct {
	// IncludeDrafts lifts the status = 'published' restriction.
	IncludeDrafts bool
	// WithIsActive selects the optional is_active column.
	WithIsActive bool
	// Primary forces the read onto the primary even when replicas exist.
	Primary bool
}

// ProjectWrite carries the column values and child collections of a write.
// Columns uses database column names; is_active must be left out when the
// column is known to be missing.
type ProjectWrite struct {
	Columns  map[string]any
	Children ProjectChildren
}

// ProjectChildren lists the child collections to replace. A nil pointer
// leaves the collection untouched; a non-nil empty slice clears it.
type ProjectChildren struct {
	Descriptions *[]string
	Gallery      *[]models.ProjectGalleryItem
	Tags         *[]string
	RelatedIDs   *[]uuid.UUID
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// baseQuery selects project rows without their children.
func (r *ProjectRepo) baseQuery(ctx context.Context, q ProjectQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Project{}).Select(append(ProjectColumns(q.WithIsActive), creationRankColumn))
	if !q.IncludeDrafts {
		tx = tx.Where("status = ?", "published")
	}
	if q.Primary {
		tx = tx.Clauses(dbresolver.Write)
	}
	return tx
}

func orderByIndex(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

func withChildren(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("HeroAsset").
		Preload("Descriptions", orderByIndex).
		Preload("GalleryItems", orderByIndex).
		Preload("GalleryItems.Asset").
		Preload("Tags").
		Preload("Relations")
}

// ListProjects returns the visible projects in creation order with their
// children joined.
func (r *ProjectRepo) ListProjects(ctx context.Context, q ProjectQuery) ([]models.Project, error) {
	var rows []models.Project
	err := withChildren(r.baseQuery(ctx, q)).Order("created_at ASC").Order("slug ASC").Find(&rows).Error
	return rows, err
}

// FindProjectBySlug returns nil when no visible project has slug.
func (r *ProjectRepo) FindProjectBySlug(ctx context.Context, slug string, q ProjectQuery) (*models.Project, error) {
	return r.findOne(withChildren(r.baseQuery(ctx, q)).Where("slug = ?", slug))
}

// FindProjectByID returns nil when no visible project has id.
func (r *ProjectRepo) FindProjectByID(ctx context.Context, id uuid.UUID, q ProjectQuery) (*models.Project, error) {
	return r.findOne(withChildren(r.baseQuery(ctx, q)).Where("id = ?", id))
}

func (r *ProjectRepo) findOne(tx *gorm.DB) (*models.Project, error) {
	var rows []models.Project
	if err := tx.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// SlugsByID maps the given project ids to slugs. Drafts are left out unless
// includeDrafts is set; unknown ids are simply absent from the result.
func (r *ProjectRepo) SlugsByID(ctx context.Context, ids []uuid.UUID, includeDrafts bool) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID   uuid.UUID
		Slug string
	}
	tx := r.db.WithContext(ctx).Model(&models.Project{}).Select("id", "slug").Where("id IN ?", ids)
	if !includeDrafts {
		tx = tx.Where("status = ?", "published")
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID.String()] = row.Slug
	}
	return out, nil
}

// CountProjects counts every project regardless of status.
func (r *ProjectRepo) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Clauses(dbresolver.Write).Count(&n).Error
	return n, err
}

// CreateProject inserts the project and its children in one transaction and
// returns the new id.
func (r *ProjectRepo) CreateProject(ctx context.Context, w ProjectWrite) (uuid.UUID, error) {
	id := uuid.New()
	cols := make(map[string]any, len(w.Columns)+1)
	for k, v := range w.Columns {
		cols[k] = v
	}
	cols["id"] = id

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Create(cols).Error; err != nil {
			return err
		}
		return replaceChildren(tx, id, w.Children)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// UpdateProject changes only the given columns and replaces only the given
// child collections, all in one transaction.
func (r *ProjectRepo) UpdateProject(ctx context.Context, id uuid.UUID, w ProjectWrite) error {
	cols := make(map[string]any, len(w.Columns)+1)
	for k, v := range w.Columns {
		cols[k] = v
	}
	cols["updated_at"] = time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return replaceChildren(tx, id, w.Children)
	})
}

// DeleteProject removes the project, its children and every relation that
// points at it.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDescription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectGalleryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ? OR related_project_id = ?", id, id).Delete(&models.ProjectRelation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return nil
	})
}

// replaceChildren deletes and reinserts each child collection present in c.
func replaceChildren(tx *gorm.DB, projectID uuid.UUID, c ProjectChildren) error {
	if c.Descriptions != nil {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectDescription{}).Error; err != nil {
			return err
		}
		rows := make([]models.ProjectDescription, 0, len(*c.Descriptions))
		for i, p := range *c.Descriptions {
			if strings.TrimSpace(p) == "" {
				continue
			}
			rows = append(rows, models.ProjectDescription{ID: uuid.New(), ProjectID: projectID, OrderIndex: i, Paragraph: p})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if c.Gallery != nil {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectGalleryItem{}).Error; err != nil {
			return err
		}
		rows := make([]models.ProjectGalleryItem, 0, len(*c.Gallery))
		for _, item := range *c.Gallery {
			item.ID = uuid.New()
			item.ProjectID = projectID
			item.Asset = nil
			rows = append(rows, item)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if c.Tags != nil {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		rows := make([]models.ProjectTag, 0, len(*c.Tags))
		for _, tag := range *c.Tags {
			rows = append(rows, models.ProjectTag{ProjectID: projectID, Tag: tag})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if c.RelatedIDs != nil {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectRelation{}).Error; err != nil {
			return err
		}
		rows := make([]models.ProjectRelation, 0, len(*c.RelatedIDs))
		for _, related := range *c.RelatedIDs {
			rows = append(rows, models.ProjectRelation{ProjectID: projectID, RelatedProjectID: related})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
