package permissions_test

import (
	"estatehub/permissions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data, err := permissions.Parse([]byte(`{
		"skip": false,
		"endpoints": [
			{"path": "/api/Fees/", "method": "POST", "permissions": ["admin"]},
			{"path": "/health", "method": "GET", "skip": true}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, data.Endpoints, 2)

	tests := []struct {
		name      string
		path      string
		method    string
		wantRoles []string
		wantSkip  bool
	}{
		{name: "trailing slash on both sides", path: "/api/Fees/", method: "POST", wantRoles: []string{"admin"}},
		{name: "trailing slash stored only", path: "/api/Fees", method: "POST", wantRoles: []string{"admin"}},
		{name: "method is case insensitive", path: "/api/Fees", method: "post", wantRoles: []string{"admin"}},
		{name: "skip entry", path: "/health", method: "GET", wantSkip: true},
		{name: "unknown method", path: "/api/Fees", method: "DELETE"},
		{name: "unknown path", path: "/api/Nope", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)
			assert.Equal(t, tt.wantRoles, permission.Permissions)
			assert.Equal(t, tt.wantSkip, permission.Skip)
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints": [`))
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)

	tests := []struct {
		path    string
		method  string
		allowed []string
		denied  []string
	}{
		{path: "/api/Bookings/sport", method: "POST", allowed: []string{"resident", "admin"}},
		{path: "/api/Bookings/update-status/{id}", method: "PUT", allowed: []string{"admin", "superadmin", "resident"}},
		{path: "/api/Bookings/facilities", method: "POST", allowed: []string{"admin"}, denied: []string{"resident"}},
		{path: "/api/Reports/assign/{id}", method: "PUT", allowed: []string{"admin"}, denied: []string{"resident"}},
		{path: "/api/Bookings/export", method: "GET", allowed: []string{"admin"}, denied: []string{"resident"}},
		{path: "/api/Fees", method: "POST", allowed: []string{"admin"}, denied: []string{"resident"}},
		{path: "/api/Fees/pay/{id}", method: "PUT", allowed: []string{"resident"}},
		{path: "/api/Announcements/feed", method: "GET", allowed: []string{"resident", "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)
			for _, role := range tt.allowed {
				assert.Contains(t, permission.Permissions, role)
			}

			for _, role := range tt.denied {
				assert.NotContains(t, permission.Permissions, role)
			}
		})
	}
}
