package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/pipeline"
)

// uuidArrayLiteral renders a Postgres array literal ("{id1,id2}") so the ids
// bind as one uuid[] parameter. Passing the slice itself would make gorm
// expand it into a parenthesized value list, which does not cast to uuid[].
func uuidArrayLiteral(ids []uuid.UUID) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	b.WriteByte('}')
	return b.String()
}

// AssignMembershipRoles calls the backend role-assignment procedure. The
// procedure replaces the membership's active role set: missing grants are
// revoked, new ones inserted, unchanged ones kept. Idempotent.
func AssignMembershipRoles(ctx context.Context, db *gorm.DB, membershipID uuid.UUID, roleIDs []uuid.UUID, grantedBy uuid.UUID) *pipeline.Failure {
	err := db.WithContext(ctx).
		Exec("SELECT assign_membership_roles(?::uuid, ?::uuid[], ?::uuid)",
			membershipID, uuidArrayLiteral(roleIDs), grantedBy).Error
	if err != nil {
		return TranslateError("assign membership roles", err)
	}
	return nil
}

// RefreshProfileClaims calls the backend claims-refresh procedure so the next
// token issued for the profile reflects its current grants. Idempotent.
func RefreshProfileClaims(ctx context.Context, db *gorm.DB, profileID uuid.UUID) *pipeline.Failure {
	err := db.WithContext(ctx).
		Exec("SELECT refresh_profile_claims(?::uuid)", profileID).Error
	if err != nil {
		return TranslateError("refresh profile claims", err)
	}
	return nil
}
