package models

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestProjectSchema(t *testing.T) {
	s, err := schema.Parse(&Project{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.Equal(t, "projects", s.Table)
	assert.Contains(t, s.DBNames, "is_active")
	assert.Contains(t, s.DBNames, "internal_code")
	assert.Contains(t, s.DBNames, "hero_asset_id")
	assert.NotContains(t, s.DBNames, "hero_asset")
	assert.Contains(t, storedColumns(s), "is_active")
	assert.NotContains(t, storedColumns(s), "creation_rank")
	assert.Contains(t, s.Relationships.Relations, "GalleryItems")
	assert.Contains(t, s.Relationships.Relations, "Tags")
}

func TestFindColumnMismatches(t *testing.T) {
	assert.Equal(t, []string{"legacy", "notes"}, findColumnMismatches(
		[]string{"id", "notes", "slug", "legacy"},
		[]string{"id", "slug"},
	))
	assert.Nil(t, findColumnMismatches([]string{"id"}, []string{"id", "is_active"}))
}

func TestWriteDriftReport(t *testing.T) {
	var buf bytes.Buffer
	WriteDriftReport(&buf, []TableDrift{
		{Table: "projects", MissingInDatabase: []string{"is_active"}},
		{Table: "project_tags"},
		{Table: "project_relations", TableMissing: true},
	})

	out := buf.String()
	assert.Contains(t, out, "--- Table: projects ---\nMissing in database: is_active\n")
	assert.Contains(t, out, "--- Table: project_tags ---\nIn sync.\n")
	assert.Contains(t, out, "Table does not exist yet.")
	assert.Contains(t, out, "Drifted columns across all tables: 1\n")
}
