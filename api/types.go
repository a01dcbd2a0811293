package api

import (
	"context"

	"github.com/rpupo63/portfolio-content-backend/content"
)

// ContentRepository is what the handlers need from the project repository.
type ContentRepository interface {
	FetchProjects(ctx context.Context, includeDrafts bool) ([]content.Project, error)
	FetchProjectBySlug(ctx context.Context, slug string, includeDrafts bool) (*content.Project, error)
	FetchProjectByID(ctx context.Context, id string, includeDrafts bool) (*content.Project, error)
	FetchRelatedProjects(ctx context.Context, slug string, limit int) ([]content.Project, error)
	CreateProject(ctx context.Context, in content.ProjectInput) (content.Project, error)
	UpdateProject(ctx context.Context, id string, in content.ProjectInput) (content.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjectAssets(ctx context.Context, filter content.AssetFilter) ([]content.ProjectAsset, error)
	UploadProjectAsset(ctx context.Context, up content.AssetUpload) (content.ProjectAsset, error)
}

// Pinger reports whether the primary store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	assetHandler   assetHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is the body of project listings.
type ProjectCollection struct {
	Projects []content.Project `json:"projects"`
	Total    int               `json:"total"`
}

// AssetCollection is the body of asset listings.
type AssetCollection struct {
	Assets []content.ProjectAsset `json:"assets"`
	Total  int                    `json:"total"`
}
