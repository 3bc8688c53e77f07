package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUIDArrayLiteral(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	// One bind parameter holding a Postgres array literal, never a
	// parenthesized value list
	literal := uuidArrayLiteral([]uuid.UUID{a, b})
	assert.Equal(t, "{11111111-1111-1111-1111-111111111111,22222222-2222-2222-2222-222222222222}", literal)
	assert.NotContains(t, literal, "(")

	assert.Equal(t, "{11111111-1111-1111-1111-111111111111}", uuidArrayLiteral([]uuid.UUID{a}))
	assert.Equal(t, "{}", uuidArrayLiteral(nil))
}
