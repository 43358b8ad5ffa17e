package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/permissions"
)

func TestGet_EmbeddedFile(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.NotEmpty(t, data.Endpoints)

	analytics := data.FindPermissions("/v1/admin/analytics", "GET")
	assert.True(t, analytics.Allows("admin"))
	assert.False(t, analytics.Allows("user"))

	booking := data.FindPermissions("/v1/bookings", "POST")
	assert.True(t, booking.Allows("user"))
}

func TestFindPermissions(t *testing.T) {
	data, err := permissions.Parse([]byte(`{
		"endpoints": [
			{"path": "/v1/admin/rooms", "method": "POST", "permissions": ["admin"]},
			{"path": "/v1/admin/rooms/{id}", "method": "delete", "permissions": ["superadmin"]},
			{"path": "/v1/admin/settings", "method": "GET", "skip": true}
		]
	}`))
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		method  string
		role    string
		allowed bool
	}{
		{name: "exact match", path: "/v1/admin/rooms", method: "POST", role: "admin", allowed: true},
		{name: "trailing slash", path: "/v1/admin/rooms/", method: "POST", role: "admin", allowed: true},
		{name: "role not listed", path: "/v1/admin/rooms", method: "POST", role: "user", allowed: false},
		{name: "method case", path: "/v1/admin/rooms/{id}", method: "DELETE", role: "admin", allowed: false},
		{name: "skipped route", path: "/v1/admin/settings", method: "GET", role: "user", allowed: true},
		{name: "unlisted route", path: "/v1/admin/guests", method: "GET", role: "user", allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, data.FindPermissions(tt.path, tt.method).Allows(tt.role))
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints": [`))
	assert.Error(t, err)
}
