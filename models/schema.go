package models

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Schema drift report usage:

Set GENERATE_SCHEMA_REPORT=true and start the binary. For every content table
it prints the columns the live database has that the Go model does not map,
and the model columns the database lacks. Optional columns such as
projects.is_active show up in the second list on older databases; the
repository copes with that at runtime, the report only makes it visible.

Example output:
=== SCHEMA DRIFT REPORT ===
--- Table: projects ---
Missing in database: is_active
--- Table: project_tags ---
In sync.
=== SUMMARY ===
Drifted columns across all tables: 1
*/

// All returns every content model in dependency order.
func All() []any {
	return []any{
		&ProjectAsset{},
		&Project{},
		&ProjectDescription{},
		&ProjectGalleryItem{},
		&ProjectTag{},
		&ProjectRelation{},
	}
}

// Migrate creates or extends the content tables.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{SkipDefaultTransaction: true})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto-migrate content tables: %w", err)
	}
	return nil
}

// TableDrift lists the column differences of one table.
type TableDrift struct {
	Table             string
	MissingInModel    []string
	MissingInDatabase []string
	TableMissing      bool
}

// Drifted counts the differing columns.
func (d TableDrift) Drifted() int {
	return len(d.MissingInModel) + len(d.MissingInDatabase)
}

// DetectDrift compares every content model with the live database.
func DetectDrift(db *gorm.DB) ([]TableDrift, error) {
	cache := &sync.Map{}
	var out []TableDrift
	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		drift := TableDrift{Table: s.Table}

		dbColumns, err := getTableColumns(db, s.Table)
		if err != nil {
			return nil, err
		}
		if len(dbColumns) == 0 {
			drift.TableMissing = true
			out = append(out, drift)
			continue
		}
		columns := storedColumns(s)
		drift.MissingInModel = findColumnMismatches(dbColumns, columns)
		drift.MissingInDatabase = findColumnMismatches(columns, dbColumns)
		out = append(out, drift)
	}
	return out, nil
}

// WriteDriftReport renders drift in the report format described above.
func WriteDriftReport(w io.Writer, drift []TableDrift) {
	fmt.Fprintln(w, "=== SCHEMA DRIFT REPORT ===")
	total := 0
	for _, d := range drift {
		fmt.Fprintf(w, "--- Table: %s ---\n", d.Table)
		switch {
		case d.TableMissing:
			fmt.Fprintln(w, "Table does not exist yet.")
		case d.Drifted() == 0:
			fmt.Fprintln(w, "In sync.")
		default:
			if len(d.MissingInModel) > 0 {
				fmt.Fprintf(w, "Missing in model: %s\n", strings.Join(d.MissingInModel, ", "))
			}
			if len(d.MissingInDatabase) > 0 {
				fmt.Fprintf(w, "Missing in database: %s\n", strings.Join(d.MissingInDatabase, ", "))
			}
		}
		total += d.Drifted()
	}
	fmt.Fprintln(w, "=== SUMMARY ===")
	fmt.Fprintf(w, "Drifted columns across all tables: %d\n", total)
}

// storedColumns lists the model columns that exist in the table, leaving out
// computed read-only ones.
func storedColumns(s *schema.Schema) []string {
	columns := make([]string, 0, len(s.DBNames))
	for _, name := range s.DBNames {
		if f := s.LookUpField(name); f != nil && f.IgnoreMigration {
			continue
		}
		columns = append(columns, name)
	}
	return columns
}

// getTableColumns retrieves column names from a database table. A missing
// table yields no columns.
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	return columns, nil
}

// findColumnMismatches returns the entries of have that want lacks, sorted.
func findColumnMismatches(have, want []string) []string {
	set := make(map[string]bool, len(want))
	for _, c := range want {
		set[c] = true
	}
	var mismatches []string
	for _, c := range have {
		if !set[c] {
			mismatches = append(mismatches, c)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
