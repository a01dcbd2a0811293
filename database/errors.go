package database

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	codeUndefinedColumn = "42703"
	codeUniqueViolation = "23505"
)

// missingColumn matches Postgres and PostgREST phrasings such as
// `column projects.is_active does not exist` and
// `column "is_active" of relation "projects" does not exist`.
var missingColumn = regexp.MustCompile(`column "?(?:[A-Za-z0-9_]+\.)?([A-Za-z0-9_]+)"?(?: of relation "?[A-Za-z0-9_.]+"?)? does not exist`)

// IsMissingColumn reports whether err says that column is absent from the schema.
func IsMissingColumn(err error, column string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != codeUndefinedColumn {
			return false
		}
		return missingColumnName(pgErr.Message) == column
	}
	return missingColumnName(err.Error()) == column
}

func missingColumnName(msg string) string {
	m := missingColumn.FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
