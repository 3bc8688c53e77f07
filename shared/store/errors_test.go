package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carelink-backend/shared/pipeline"
)

func TestTranslateError_ForeignKeyViolation(t *testing.T) {
	err := fmt.Errorf("delete failed: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	failure := TranslateError("delete organization", err)
	require.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureIntegrity, failure.Kind)
	assert.Equal(t, DependentsMessage, failure.Message)
}

func TestTranslateError_UniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	failure := TranslateError("create item", err)
	require.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureValidation, failure.Kind)
}

func TestTranslateError_RecordNotFound(t *testing.T) {
	failure := TranslateError("load invite", gorm.ErrRecordNotFound)
	require.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureValidation, failure.Kind)
}

func TestTranslateError_UnknownErrorIsGenericBackend(t *testing.T) {
	failure := TranslateError("create invite", errors.New("connection reset by peer"))
	require.NotNil(t, failure)
	assert.Equal(t, pipeline.FailureBackend, failure.Kind)
	// Raw database detail never reaches the caller
	assert.NotContains(t, failure.Message, "connection reset")
}
