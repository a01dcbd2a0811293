// Package repository is the single entry point for project content. Reads
// go to the relational store and degrade to the bundled dataset; writes go to
// the relational store only.
package repository

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rpupo63/portfolio-content-backend/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ProjectStore is the relational side of project reads and writes.
type ProjectStore interface {
	ListProjects(ctx context.Context, q database.ProjectQuery) ([]models.Project, error)
	FindProjectBySlug(ctx context.Context, slug string, q database.ProjectQuery) (*models.Project, error)
	FindProjectByID(ctx context.Context, id uuid.UUID, q database.ProjectQuery) (*models.Project, error)
	SlugsByID(ctx context.Context, ids []uuid.UUID, includeDrafts bool) (map[string]string, error)
	CountProjects(ctx context.Context) (int64, error)
	CreateProject(ctx context.Context, w database.ProjectWrite) (uuid.UUID, error)
	UpdateProject(ctx context.Context, id uuid.UUID, w database.ProjectWrite) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// AssetStore keeps the asset records.
type AssetStore interface {
	ListAssets(ctx context.Context, prefix string) ([]models.ProjectAsset, error)
	FindAssetByPath(ctx context.Context, bucket, path string) (*models.ProjectAsset, error)
	CreateAsset(ctx context.Context, asset *models.ProjectAsset) error
	SetAltText(ctx context.Context, id uuid.UUID, altText string) error
}

// ObjectStore holds the asset bytes.
type ObjectStore interface {
	Bucket() string
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

var (
	_ ProjectStore = (*database.ProjectRepo)(nil)
	_ AssetStore   = (*database.ProjectAssetRepo)(nil)
	_ ObjectStore  = (*storage.S3Store)(nil)
)

// Options wires a ProjectRepository. Projects, Assets and Objects may be nil
// when the backend is not configured.
type Options struct {
	Projects     ProjectStore
	Assets       AssetStore
	Objects      ObjectStore
	Fallback     *content.FallbackLoader
	Resolver     content.AssetResolver
	Capabilities *content.Capabilities
	RelatedLimit int
	Metrics      *Metrics
	Logger       zerolog.Logger
}

// ProjectRepository owns one logical session: its schema probes live as long
// as the repository does.
type ProjectRepository struct {
	projects     ProjectStore
	assetStore   AssetStore
	objects      ObjectStore
	fallback     *content.FallbackLoader
	assets       content.AssetResolver
	caps         *content.Capabilities
	relatedLimit int
	metrics      *Metrics
	logger       zerolog.Logger
	uploads      singleflight.Group
}

const defaultRelatedLimit = 3

func New(opts Options) *ProjectRepository {
	caps := opts.Capabilities
	if caps == nil {
		caps = content.NewCapabilities()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = content.NewFallbackLoader(content.EmbeddedDataset(), opts.Resolver)
	}
	limit := opts.RelatedLimit
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	return &ProjectRepository{
		projects:     opts.Projects,
		assetStore:   opts.Assets,
		objects:      opts.Objects,
		fallback:     fallback,
		assets:       opts.Resolver,
		caps:         caps,
		relatedLimit: limit,
		metrics:      opts.Metrics,
		logger:       opts.Logger.With().Str("component", "projectRepository").Logger(),
	}
}

// Capabilities exposes the schema probes of this repository.
func (r *ProjectRepository) Capabilities() *content.Capabilities {
	return r.caps
}

// withDriftRetry runs query with the columns the probe allows. When the
// optional column turns out to be missing it is demoted and the query is
// re-issued once without it.
func (r *ProjectRepository) withDriftRetry(q database.ProjectQuery, query func(database.ProjectQuery) error) error {
	probe := r.caps.IsActive
	q.WithIsActive = probe.ShouldInclude()

	err := query(q)
	if err == nil {
		if q.WithIsActive {
			probe.MarkPresent()
		}
		return nil
	}
	if !q.WithIsActive || !database.IsMissingColumn(err, probe.Column()) {
		return err
	}

	r.demote(probe)
	q.WithIsActive = false
	return query(q)
}

func (r *ProjectRepository) demote(probe *content.ColumnProbe) {
	if probe.Demote() {
		r.logger.Warn().Str("column", probe.Column()).Msg("optional column missing from primary store; omitting it from now on")
		r.metrics.demoted(probe.Column())
	}
}

// loadFallback serves the bundled dataset after a failed read. Reads that
// asked for drafts get the original error instead.
func (r *ProjectRepository) loadFallback(operation string, includeDrafts bool, cause error) ([]content.Project, error) {
	if includeDrafts {
		return nil, cause
	}
	projects, err := r.fallback.Load()
	if err != nil {
		return nil, errors.Join(cause, err)
	}
	r.logger.Warn().Err(cause).Str("operation", operation).Msg("primary store read failed; serving fallback dataset")
	r.metrics.fallbackRead(operation)
	return projects, nil
}

func (r *ProjectRepository) primaryUnavailable() error {
	return errs.NewStoreUnavailableError("primary store")
}

// FetchProjects lists projects. Without drafts only published, active
// projects are returned.
func (r *ProjectRepository) FetchProjects(ctx context.Context, includeDrafts bool) ([]content.Project, error) {
	vis := content.ListVisibility(includeDrafts)

	rows, err := r.listRows(ctx, includeDrafts)
	if err != nil {
		projects, ferr := r.loadFallback("fetchProjects", includeDrafts, err)
		if ferr != nil {
			return nil, ferr
		}
		return content.PruneRelated(vis.Filter(projects)), nil
	}

	projects := vis.Filter(content.MapRows(rows, r.assets))
	return content.ResolveRelations(projects, nil), nil
}

func (r *ProjectRepository) listRows(ctx context.Context, includeDrafts bool) ([]models.Project, error) {
	if r.projects == nil {
		return nil, r.primaryUnavailable()
	}
	var rows []models.Project
	err := r.withDriftRetry(database.ProjectQuery{IncludeDrafts: includeDrafts}, func(q database.ProjectQuery) error {
		var err error
		rows, err = r.projects.ListProjects(ctx, q)
		return err
	})
	return rows, err
}

// FetchProjectBySlug returns nil when no visible project has slug.
func (r *ProjectRepository) FetchProjectBySlug(ctx context.Context, slug string, includeDrafts bool) (*content.Project, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return r.fetchOne(ctx, "fetchProjectBySlug", includeDrafts,
		func(q database.ProjectQuery) (*models.Project, error) {
			return r.projects.FindProjectBySlug(ctx, slug, q)
		},
		func(p content.Project) bool { return p.Slug == slug },
	)
}

// FetchProjectByID returns nil when no visible project has id.
func (r *ProjectRepository) FetchProjectByID(ctx context.Context, id string, includeDrafts bool) (*content.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return r.fetchOne(ctx, "fetchProjectById", includeDrafts,
		func(q database.ProjectQuery) (*models.Project, error) {
			projectID, err := uuid.Parse(id)
			if err != nil {
				return nil, nil
			}
			return r.projects.FindProjectByID(ctx, projectID, q)
		},
		func(p content.Project) bool { return p.ID == id },
	)
}

func (r *ProjectRepository) fetchOne(
	ctx context.Context,
	operation string,
	includeDrafts bool,
	find func(database.ProjectQuery) (*models.Project, error),
	match func(content.Project) bool,
) (*content.Project, error) {
	vis := content.LookupVisibility(includeDrafts)

	row, err := r.findRow(includeDrafts, false, find)
	if err != nil {
		projects, ferr := r.loadFallback(operation, includeDrafts, err)
		if ferr != nil {
			return nil, ferr
		}
		visible := content.PruneRelated(vis.Filter(projects))
		for i := range visible {
			if match(visible[i]) {
				return &visible[i], nil
			}
		}
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}

	p := r.resolveOne(ctx, *row, includeDrafts)
	if !vis.Allows(p) {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepository) findRow(includeDrafts, primary bool, find func(database.ProjectQuery) (*models.Project, error)) (*models.Project, error) {
	if r.projects == nil {
		return nil, r.primaryUnavailable()
	}
	var row *models.Project
	err := r.withDriftRetry(database.ProjectQuery{IncludeDrafts: includeDrafts, Primary: primary}, func(q database.ProjectQuery) error {
		var err error
		row, err = find(q)
		return err
	})
	return row, err
}

// resolveOne maps a single row. Its relations point outside the batch, so
// their slugs are looked up separately; a failed lookup only drops them.
func (r *ProjectRepository) resolveOne(ctx context.Context, row models.Project, includeDrafts bool) content.Project {
	p := content.MapRow(row, 1, r.assets)

	if len(row.Relations) == 0 {
		return content.ResolveRelations([]content.Project{p}, nil)[0]
	}
	ids := make([]uuid.UUID, 0, len(row.Relations))
	for _, rel := range row.Relations {
		ids = append(ids, rel.RelatedProjectID)
	}
	extra, err := r.projects.SlugsByID(ctx, ids, includeDrafts)
	if err != nil {
		r.logger.Warn().Err(err).Str("slug", p.Slug).Msg("could not resolve related project slugs")
		extra = nil
	}
	return content.ResolveRelations([]content.Project{p}, extra)[0]
}

// FetchRelatedProjects returns the public projects to show next to slug:
// its explicit relations, or other projects in load order when it has none.
// limit <= 0 uses the configured default.
func (r *ProjectRepository) FetchRelatedProjects(ctx context.Context, slug string, limit int) ([]content.Project, error) {
	p, err := r.FetchProjectBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NewNotFound("project")
	}
	all, err := r.FetchProjects(ctx, false)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = r.relatedLimit
	}
	return content.SelectRelated(*p, all, limit), nil
}
