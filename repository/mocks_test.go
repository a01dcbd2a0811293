package repository

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rpupo63/portfolio-content-backend/storage"
	"github.com/stretchr/testify/mock"
)

// MockProjectStore is a mock implementation of ProjectStore
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) ListProjects(ctx context.Context, q database.ProjectQuery) ([]models.Project, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockProjectStore) FindProjectBySlug(ctx context.Context, slug string, q database.ProjectQuery) (*models.Project, error) {
	args := m.Called(ctx, slug, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectStore) FindProjectByID(ctx context.Context, id uuid.UUID, q database.ProjectQuery) (*models.Project, error) {
	args := m.Called(ctx, id, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectStore) SlugsByID(ctx context.Context, ids []uuid.UUID, includeDrafts bool) (map[string]string, error) {
	args := m.Called(ctx, ids, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockProjectStore) CountProjects(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectStore) CreateProject(ctx context.Context, w database.ProjectWrite) (uuid.UUID, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProjectStore) UpdateProject(ctx context.Context, id uuid.UUID, w database.ProjectWrite) error {
	args := m.Called(ctx, id, w)
	return args.Error(0)
}

func (m *MockProjectStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memAssetStore keeps asset records in memory and enforces (bucket, path)
// uniqueness like the real table.
type memAssetStore struct {
	mu        sync.Mutex
	rows      []models.ProjectAsset
	createErr error
	creates   int
}

func (s *memAssetStore) ListAssets(_ context.Context, prefix string) ([]models.ProjectAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProjectAsset
	for _, row := range s.rows {
		if len(row.Path) > len(prefix) && row.Path[:len(prefix)+1] == prefix+"/" {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *memAssetStore) FindAssetByPath(_ context.Context, bucket, path string) (*models.ProjectAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Bucket == bucket && row.Path == path {
			found := row
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memAssetStore) CreateAsset(_ context.Context, asset *models.ProjectAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	for _, row := range s.rows {
		if row.Bucket == asset.Bucket && row.Path == asset.Path {
			return errDuplicate
		}
	}
	asset.ID = uuid.New()
	s.rows = append(s.rows, *asset)
	return nil
}

func (s *memAssetStore) SetAltText(_ context.Context, id uuid.UUID, altText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].AltText = &altText
		}
	}
	return nil
}

// memObjectStore is a create-only object store.
type memObjectStore struct {
	mu      sync.Mutex
	objects map[string]string // key -> content type
	puts    int
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string]string{}}
}

func (s *memObjectStore) Bucket() string { return "project-media" }

func (s *memObjectStore) Put(_ context.Context, key string, body io.Reader, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return storage.ErrObjectExists
	}
	_, _ = io.Copy(io.Discard, body)
	s.objects[key] = contentType
	s.puts++
	return nil
}
