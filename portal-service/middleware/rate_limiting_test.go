package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExempt(t *testing.T) {
	assert.True(t, isExempt("/health"))
	assert.True(t, isExempt("/swagger/index.html"))

	assert.False(t, isExempt("/api/admin/organizations"))
	assert.False(t, isExempt("/"))
}

func TestRequestKey_ScopesPerSurface(t *testing.T) {
	ip := "203.0.113.7"

	opsKey := requestKey("/api/ops/admin/organizations", ip)
	adminKey := requestKey("/api/admin/organizations", ip)
	appKey := requestKey("/api/app-admin/organizations", ip)

	assert.Equal(t, "ratelimit:http:ops-admin:203.0.113.7", opsKey)
	assert.Equal(t, "ratelimit:http:admin:203.0.113.7", adminKey)
	assert.Equal(t, "ratelimit:http:app-admin:203.0.113.7", appKey)

	// The same IP gets an independent budget on each surface
	assert.NotEqual(t, opsKey, adminKey)
	assert.NotEqual(t, adminKey, appKey)

	// Anything outside the admin surfaces shares the portal bucket
	assert.Equal(t, "ratelimit:http:portal:203.0.113.7", requestKey("/api/activity/ws", ip))
}
