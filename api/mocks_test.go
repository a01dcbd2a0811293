package api

import (
	"context"

	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/stretchr/testify/mock"
)

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) FetchProjects(ctx context.Context, includeDrafts bool) ([]content.Project, error) {
	args := m.Called(ctx, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Project), args.Error(1)
}

func (m *MockContentRepository) FetchProjectBySlug(ctx context.Context, slug string, includeDrafts bool) (*content.Project, error) {
	args := m.Called(ctx, slug, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Project), args.Error(1)
}

func (m *MockContentRepository) FetchProjectByID(ctx context.Context, id string, includeDrafts bool) (*content.Project, error) {
	args := m.Called(ctx, id, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Project), args.Error(1)
}

func (m *MockContentRepository) FetchRelatedProjects(ctx context.Context, slug string, limit int) ([]content.Project, error) {
	args := m.Called(ctx, slug, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Project), args.Error(1)
}

func (m *MockContentRepository) CreateProject(ctx context.Context, in content.ProjectInput) (content.Project, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(content.Project), args.Error(1)
}

func (m *MockContentRepository) UpdateProject(ctx context.Context, id string, in content.ProjectInput) (content.Project, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(content.Project), args.Error(1)
}

func (m *MockContentRepository) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepository) ListProjectAssets(ctx context.Context, filter content.AssetFilter) ([]content.ProjectAsset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.ProjectAsset), args.Error(1)
}

func (m *MockContentRepository) UploadProjectAsset(ctx context.Context, up content.AssetUpload) (content.ProjectAsset, error) {
	args := m.Called(ctx, up)
	return args.Get(0).(content.ProjectAsset), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
