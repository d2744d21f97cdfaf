package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdom "caterhub/internal/domain/user"
)

func TestProfileDocDataIsMapData(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	data := profileDocData(&userdom.Profile{
		UID:           "u1",
		Email:         " asha@example.com ",
		Name:          "Asha",
		Phone:         "9876543210",
		Address:       "Pune",
		Role:          userdom.RoleSeller,
		RequestedRole: "",
		IsActive:      true,
		IsVerified:    true,
		CreatedAt:     created,
		UpdatedAt:     updated,
	})

	require.NotNil(t, data)
	assert.Equal(t, "asha@example.com", data["email"])
	assert.Equal(t, "Asha", data["name"])
	assert.Equal(t, "9876543210", data["phone"])
	assert.Equal(t, "Pune", data["address"])
	assert.Equal(t, "seller", data["role"])
	assert.Equal(t, "", data["requestedRole"])
	assert.Equal(t, true, data["isActive"])
	assert.Equal(t, true, data["isVerified"])
	assert.Equal(t, created, data["createdAt"])
	assert.Equal(t, updated, data["updatedAt"])
}

func TestProfileDocDataOmitsUnsetOptionals(t *testing.T) {
	data := profileDocData(&userdom.Profile{
		UID:   "u1",
		Email: "asha@example.com",
		Role:  userdom.RoleUser,
	})

	// merge-set must not clobber fields the caller never touched
	_, hasPhone := data["phone"]
	_, hasAddress := data["address"]
	_, hasCreated := data["createdAt"]
	assert.False(t, hasPhone)
	assert.False(t, hasAddress)
	assert.False(t, hasCreated)
}
