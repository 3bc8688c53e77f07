// Package store holds the mutation executors: the gorm-backed writes the
// pipeline runs after authorization, plus their integrity pre-checks.
package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"carelink-backend/shared/pipeline"
)

// DependentsMessage is the single user-facing message for every integrity
// failure, whether caught by a pre-check or reported by the database.
const DependentsMessage = "Related records exist. Remove dependents first."

// TranslateError converts a raw database error into a typed pipeline failure.
// Referential-integrity violations the pre-checks missed surface as the same
// "remove dependents first" message the pre-checks use; everything else is a
// generic backend failure with the detail logged server-side.
func TranslateError(op string, err error) *pipeline.Failure {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			return pipeline.Integrity(DependentsMessage)
		case pgerrcode.UniqueViolation:
			return pipeline.Validation("", "A record with the same unique value already exists")
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pipeline.Validation("", "Record not found")
	}

	return pipeline.Backend(op, err)
}
