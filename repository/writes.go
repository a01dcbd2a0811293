package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
)

// CreateProject inserts a project. A missing slug is derived from the name
// and a missing internal code is generated from the project count.
func (r *ProjectRepository) CreateProject(ctx context.Context, in content.ProjectInput) (content.Project, error) {
	if r.projects == nil {
		return content.Project{}, r.primaryUnavailable()
	}

	name := content.Trimmed(in.Name)
	if name == "" {
		return content.Project{}, errs.NewMissingRequiredFieldError("name")
	}
	if content.Trimmed(in.Slug) == "" {
		in.Slug = &name
	}
	if content.Trimmed(in.Status) == "" {
		draft := string(content.StatusDraft)
		in.Status = &draft
	}

	cols, err := projectColumns(in)
	if err != nil {
		return content.Project{}, err
	}
	if _, ok := cols["internal_code"]; !ok {
		n, err := r.projects.CountProjects(ctx)
		if err != nil {
			return content.Project{}, err
		}
		cols["internal_code"] = content.InternalCodeFor(int(n) + 1)
	}

	children, err := projectChildren(in, uuid.Nil)
	if err != nil {
		return content.Project{}, err
	}

	var id uuid.UUID
	err = r.writeWithDriftRetry(cols, func(cols map[string]any) error {
		var err error
		id, err = r.projects.CreateProject(ctx, database.ProjectWrite{Columns: cols, Children: children})
		return err
	})
	if err != nil {
		return content.Project{}, err
	}
	return r.reload(ctx, id)
}

// UpdateProject changes only the fields present in in. Child collections
// present in in are replaced as a whole; an empty list clears them.
func (r *ProjectRepository) UpdateProject(ctx context.Context, id string, in content.ProjectInput) (content.Project, error) {
	if r.projects == nil {
		return content.Project{}, r.primaryUnavailable()
	}
	projectID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return content.Project{}, errs.NewInvalidFieldError("id", "must be a UUID")
	}
	if in.Name != nil && content.Trimmed(in.Name) == "" {
		return content.Project{}, errs.NewInvalidFieldError("name", "must not be empty")
	}

	cols, err := projectColumns(in)
	if err != nil {
		return content.Project{}, err
	}
	children, err := projectChildren(in, projectID)
	if err != nil {
		return content.Project{}, err
	}

	err = r.writeWithDriftRetry(cols, func(cols map[string]any) error {
		return r.projects.UpdateProject(ctx, projectID, database.ProjectWrite{Columns: cols, Children: children})
	})
	if err != nil {
		return content.Project{}, err
	}
	return r.reload(ctx, projectID)
}

// DeleteProject removes a project and everything that hangs off it.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	if r.projects == nil {
		return r.primaryUnavailable()
	}
	projectID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return errs.NewInvalidFieldError("id", "must be a UUID")
	}
	return r.projects.DeleteProject(ctx, projectID)
}

// writeWithDriftRetry leaves the optional column out when it is known to be
// missing and retries once without it when the write discovers that.
func (r *ProjectRepository) writeWithDriftRetry(cols map[string]any, write func(map[string]any) error) error {
	probe := r.caps.IsActive
	if !probe.ShouldInclude() {
		delete(cols, probe.Column())
	}

	err := write(cols)
	if err == nil {
		return nil
	}
	if _, ok := cols[probe.Column()]; !ok || !database.IsMissingColumn(err, probe.Column()) {
		return err
	}

	r.demote(probe)
	delete(cols, probe.Column())
	return write(cols)
}

// reload reads a just-written project back from the primary, drafts included.
func (r *ProjectRepository) reload(ctx context.Context, id uuid.UUID) (content.Project, error) {
	row, err := r.findRow(true, true, func(q database.ProjectQuery) (*models.Project, error) {
		return r.projects.FindProjectByID(ctx, id, q)
	})
	if err != nil {
		return content.Project{}, err
	}
	if row == nil {
		return content.Project{}, errs.NewNotFound("project")
	}
	return r.resolveOne(ctx, *row, true), nil
}

// projectColumns turns the present fields of in into column values.
func projectColumns(in content.ProjectInput) (map[string]any, error) {
	cols := make(map[string]any)

	if in.Name != nil {
		cols["name"] = content.Trimmed(in.Name)
	}
	if in.Slug != nil {
		slug := content.Slugify(*in.Slug)
		if slug == "" {
			return nil, errs.NewInvalidFieldError("slug", "must contain letters or digits")
		}
		cols["slug"] = slug
	}
	if in.InternalCode != nil {
		if code := content.NormalizeInternalCode(*in.InternalCode); code != "" {
			cols["internal_code"] = code
		}
	}
	setOptional(cols, "short_description", in.ShortDescription)
	setOptional(cols, "client", in.Client)
	setOptional(cols, "category", in.Category)
	setOptional(cols, "project_manager", in.ProjectManager)

	if in.Year != nil {
		cols["year"] = *in.Year
	}
	if in.Status != nil {
		cols["status"] = string(content.ParseStatus(*in.Status))
	}
	if in.Priority != nil {
		raw := content.Trimmed(in.Priority)
		priority := content.ParsePriority(raw)
		switch {
		case raw == "":
			cols["priority"] = nil
		case priority == "":
			return nil, errs.NewInvalidFieldError("priority", "must be flagship, portfolio or standard")
		default:
			cols["priority"] = string(priority)
		}
	}
	if in.IsActive != nil {
		cols[database.ColumnIsActive] = *in.IsActive
	}
	if in.HeroAssetID != nil {
		raw := content.Trimmed(in.HeroAssetID)
		if raw == "" {
			cols["hero_asset_id"] = nil
		} else {
			heroID, err := uuid.Parse(raw)
			if err != nil {
				return nil, errs.NewInvalidFieldError("heroAssetId", "must be a UUID")
			}
			cols["hero_asset_id"] = heroID
		}
	}
	return cols, nil
}

// setOptional stores a trimmed value, or NULL for an empty one.
func setOptional(cols map[string]any, column string, value *string) {
	if value == nil {
		return
	}
	if v := strings.TrimSpace(*value); v != "" {
		cols[column] = v
	} else {
		cols[column] = nil
	}
}

// projectChildren converts the child collections present in in. self, when
// set, is dropped from the relations.
func projectChildren(in content.ProjectInput, self uuid.UUID) (database.ProjectChildren, error) {
	var c database.ProjectChildren

	if in.Description != nil {
		paragraphs := make([]string, 0, len(*in.Description))
		for _, p := range *in.Description {
			if p = strings.TrimSpace(p); p != "" {
				paragraphs = append(paragraphs, p)
			}
		}
		c.Descriptions = &paragraphs
	}

	if in.Gallery != nil {
		items := make([]models.ProjectGalleryItem, 0, len(*in.Gallery))
		for i, g := range *in.Gallery {
			assetID, err := uuid.Parse(strings.TrimSpace(g.AssetID))
			if err != nil {
				return c, errs.NewInvalidFieldError("gallery.assetId", "must be a UUID")
			}
			item := models.ProjectGalleryItem{AssetID: assetID, OrderIndex: i}
			if g.OrderIndex != nil {
				item.OrderIndex = *g.OrderIndex
			}
			if caption := strings.TrimSpace(g.Caption); caption != "" {
				item.Caption = &caption
			}
			items = append(items, item)
		}
		c.Gallery = &items
	}

	if in.Tags != nil {
		tags := content.NormalizeTags(*in.Tags)
		c.Tags = &tags
	}

	if in.RelatedProjectIDs != nil {
		related := make([]uuid.UUID, 0, len(*in.RelatedProjectIDs))
		seen := make(map[uuid.UUID]struct{}, len(*in.RelatedProjectIDs))
		for _, raw := range *in.RelatedProjectIDs {
			relatedID, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return c, errs.NewInvalidFieldError("relatedProjectIds", "must be UUIDs")
			}
			if _, dup := seen[relatedID]; dup || relatedID == self {
				continue
			}
			seen[relatedID] = struct{}{}
			related = append(related, relatedID)
		}
		c.RelatedIDs = &related
	}
	return c, nil
}

// isConflict reports whether err is a unique-key race worth recovering from.
func isConflict(err error) bool {
	return database.IsUniqueViolation(err) || errs.IsAlreadyExists(err)
}
