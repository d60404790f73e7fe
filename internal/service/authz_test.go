package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowPolicyTable(t *testing.T) {
	tests := []struct {
		cap      Capability
		client   bool
		incharge bool
		admin    bool
	}{
		{CapReadOwnBookings, true, true, true},
		{CapReadAllBookings, false, true, true},
		{CapWriteBookings, false, true, true},
		{CapManageRooms, false, false, true},
		{CapManageCategories, false, false, true},
		{CapReadCategories, false, true, true},
		{CapManageUsers, false, false, true},
		{CapReadClients, false, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.client, Allow(RoleClient, tt.cap))
			assert.Equal(t, tt.incharge, Allow(RoleIncharge, tt.cap))
			assert.Equal(t, tt.admin, Allow(RoleAdmin, tt.cap))
		})
	}
}

func TestAllowUnknownCapability(t *testing.T) {
	assert.False(t, Allow(RoleAdmin, Capability("launch-missiles")))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(RoleAdmin, CapManageUsers))

	err := Require(RoleClient, CapManageUsers)
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)
	assert.Equal(t, CapManageUsers, fb.Capability)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"Admin", "Incharge", "Client"} {
		r, ok := ParseRole(s)
		assert.True(t, ok)
		assert.Equal(t, s, r.String())
	}
	r, ok := ParseRole("Superuser")
	assert.False(t, ok)
	assert.Equal(t, RoleClient, r)
}

func TestStaff(t *testing.T) {
	assert.True(t, RoleAdmin.Staff())
	assert.True(t, RoleIncharge.Staff())
	assert.False(t, RoleClient.Staff())
}
