package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("failed to connect to host: connection refused")

func refusingOpener(calls *int) func(config.Database) (database.Database, error) {
	return func(config.Database) (database.Database, error) {
		*calls++
		return database.Database{}, errRefused
	}
}

func testOptions() repository.Options {
	dataset := content.BytesDataset([]byte(`[{"slug":"demo-plant","name":"Demo Plant","status":"published"}]`))
	return repository.Options{
		Fallback: content.NewFallbackLoader(dataset, content.NewAssetResolver("")),
		Logger:   zerolog.Nop(),
	}
}

func TestConnectPrimaryStore_UnreachableServesFallback(t *testing.T) {
	var calls int
	opts := testOptions()
	settings := config.Settings{Database: config.Database{Type: config.DBTypePostgres, DSN: "postgres://nowhere"}}

	pinger, exit, err := connectPrimaryStore(settings, &opts, refusingOpener(&calls))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Nil(t, pinger)
	assert.Nil(t, opts.Projects)
	assert.Nil(t, opts.Assets)
	assert.Equal(t, 1, calls)

	repo := repository.New(opts)
	projects, err := repo.FetchProjects(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "demo-plant", projects[0].Slug)

	_, err = repo.FetchProjects(context.Background(), true)
	assert.True(t, errs.IsStoreUnavailable(err))
	_, err = repo.CreateProject(context.Background(), content.ProjectInput{})
	assert.True(t, errs.IsStoreUnavailable(err))
}

func TestConnectPrimaryStore_MaintenanceNeedsDatabase(t *testing.T) {
	for _, settings := range []config.Settings{
		{Database: config.Database{Type: config.DBTypePostgres}, AutoMigrate: true},
		{Database: config.Database{Type: config.DBTypePostgres}, GenerateSchemaReport: true},
	} {
		var calls int
		opts := testOptions()
		_, _, err := connectPrimaryStore(settings, &opts, refusingOpener(&calls))
		assert.ErrorIs(t, err, errRefused)
	}
}

func TestConnectPrimaryStore_None(t *testing.T) {
	var calls int
	opts := testOptions()
	settings := config.Settings{Database: config.Database{Type: config.DBTypeNone}}

	pinger, exit, err := connectPrimaryStore(settings, &opts, refusingOpener(&calls))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Nil(t, pinger)
	assert.Zero(t, calls)
}
