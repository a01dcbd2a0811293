package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockDB runs gorm against sqlmock so every statement has to be expected.
func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func sqlPrefix(s string) string {
	return regexp.QuoteMeta(s)
}

func TestUpdateProject_TagsOmittedVsEmpty(t *testing.T) {
	id := uuid.New()
	write := ProjectWrite{Columns: map[string]any{"name": "Demo Plant"}}

	t.Run("omitted tags are untouched", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`UPDATE "projects" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewProjectRepo(db).UpdateProject(context.Background(), id, write))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty tags clear the collection", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`UPDATE "projects" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sqlPrefix(`DELETE FROM "project_tags" WHERE project_id = $1`)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		cleared := write
		cleared.Children.Tags = &[]string{}
		require.NoError(t, NewProjectRepo(db).UpdateProject(context.Background(), id, cleared))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("new tags replace the old ones", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`UPDATE "projects" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sqlPrefix(`DELETE FROM "project_tags"`)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(sqlPrefix(`INSERT INTO "project_tags"`)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		replaced := write
		replaced.Children.Tags = &[]string{"iot", "energy"}
		require.NoError(t, NewProjectRepo(db).UpdateProject(context.Background(), id, replaced))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateProject_NotFound(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(sqlPrefix(`UPDATE "projects" SET`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tags := []string{"iot"}
	err := NewProjectRepo(db).UpdateProject(context.Background(), uuid.New(), ProjectWrite{
		Columns:  map[string]any{"name": "Ghost"},
		Children: ProjectChildren{Tags: &tags},
	})
	assert.True(t, errs.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProject_ChildFailureRollsBack(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(sqlPrefix(`UPDATE "projects" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlPrefix(`DELETE FROM "project_relations"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlPrefix(`INSERT INTO "project_relations"`)).WillReturnError(errDuplicateRelation)
	mock.ExpectRollback()

	related := []uuid.UUID{uuid.New()}
	err := NewProjectRepo(db).UpdateProject(context.Background(), uuid.New(), ProjectWrite{
		Children: ProjectChildren{RelatedIDs: &related},
	})
	assert.ErrorIs(t, err, errDuplicateRelation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var errDuplicateRelation = &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "project_relations_pkey"`}

func TestCreateProject_WritesChildrenInOneTransaction(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(sqlPrefix(`INSERT INTO "projects"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))
	mock.ExpectExec(sqlPrefix(`DELETE FROM "project_descriptions"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlPrefix(`INSERT INTO "project_descriptions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(sqlPrefix(`DELETE FROM "project_tags"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(sqlPrefix(`INSERT INTO "project_tags"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	descriptions := []string{"<p>One</p>", "  ", "<p>Two</p>"}
	tags := []string{"iot"}
	id, err := NewProjectRepo(db).CreateProject(context.Background(), ProjectWrite{
		Columns: map[string]any{"name": "Demo Plant", "slug": "demo-plant", "status": "draft"},
		Children: ProjectChildren{
			Descriptions: &descriptions,
			Tags:         &tags,
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProject_InsertFailureRollsBack(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(sqlPrefix(`INSERT INTO "projects"`)).WillReturnError(errDuplicateRelation)
	mock.ExpectRollback()

	id, err := NewProjectRepo(db).CreateProject(context.Background(), ProjectWrite{
		Columns: map[string]any{"name": "Demo Plant", "slug": "demo-plant"},
	})
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, uuid.Nil, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProject(t *testing.T) {
	id := uuid.New()

	t.Run("removes children and inbound relations", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlPrefix(`DELETE FROM "project_descriptions"`)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(sqlPrefix(`DELETE FROM "project_gallery_items"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(sqlPrefix(`DELETE FROM "project_tags"`)).WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(sqlPrefix(`DELETE FROM "project_relations" WHERE project_id = $1 OR related_project_id = $2`)).
			WithArgs(id, id).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(sqlPrefix(`DELETE FROM "projects" WHERE id = $1`)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewProjectRepo(db).DeleteProject(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing project", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectBegin()
		for _, table := range []string{"project_descriptions", "project_gallery_items", "project_tags", "project_relations", "projects"} {
			mock.ExpectExec(sqlPrefix(`DELETE FROM "` + table + `"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectRollback()

		err := NewProjectRepo(db).DeleteProject(context.Background(), id)
		assert.True(t, errs.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSlugsByID(t *testing.T) {
	first, second := uuid.New(), uuid.New()

	db, mock := mockDB(t)
	mock.ExpectQuery(sqlPrefix(`FROM "projects" WHERE id IN ($1,$2) AND status = $3`)).
		WithArgs(first, second, "published").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(first.String(), "demo-plant"))

	slugs, err := NewProjectRepo(db).SlugsByID(context.Background(), []uuid.UUID{first, second}, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{first.String(): "demo-plant"}, slugs)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := NewProjectRepo(db).SlugsByID(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateAsset_UniqueViolation(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(sqlPrefix(`INSERT INTO "project_assets"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "idx_project_assets_bucket_path"`})
	mock.ExpectRollback()

	asset := &models.ProjectAsset{Bucket: "project-media", Path: "projects/PRJ-001/demo-plant/hero.jpg"}
	err := NewProjectAssetRepo(db).CreateAsset(context.Background(), asset)
	assert.True(t, errs.IsAlreadyExists(err))
	assert.NotEqual(t, uuid.Nil, asset.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
