package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdom "caterhub/internal/domain/user"
)

func TestUserEnsureCreatesProfile(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecaseWithClock(repo, nil, fixedClock{t: testNow})

	p, err := uc.Ensure(context.Background(), "u1", "a@example.com", "Asha", true, userdom.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, userdom.RoleUser, p.Role)
	assert.True(t, p.IsActive)
	assert.True(t, p.IsVerified)
	assert.Equal(t, testNow, p.CreatedAt)
}

func TestUserEnsureKeepsExistingRoleAndStickyVerified(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecaseWithClock(repo, nil, fixedClock{t: testNow})

	_, err := uc.Ensure(context.Background(), "u1", "a@example.com", "Asha", true, userdom.RoleSeller)
	require.NoError(t, err)

	// a later sign-in with an unverified token must not demote either flag
	p, err := uc.Ensure(context.Background(), "u1", "a@example.com", "Asha", false, userdom.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, userdom.RoleSeller, p.Role)
	assert.True(t, p.IsVerified)
}

func TestUserUpdateProfileStripsPrivilegedFields(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecaseWithClock(repo, nil, fixedClock{t: testNow})
	_, err := uc.Ensure(context.Background(), "u1", "a@example.com", "Asha", true, userdom.RoleUser)
	require.NoError(t, err)

	err = uc.UpdateProfile(context.Background(), "u1", map[string]any{
		"phone":    "9999",
		"role":     "admin",
		"isActive": false,
	})
	require.NoError(t, err)

	p, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "9999", p.Phone)
	assert.Equal(t, userdom.RoleUser, p.Role)
	assert.True(t, p.IsActive)
}

func TestApproveSellerRole(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := NewUserUsecaseWithClock(repo, mailer, fixedClock{t: testNow})
	_, err := uc.Ensure(context.Background(), "u1", "a@example.com", "Asha", true, userdom.RoleUser)
	require.NoError(t, err)
	require.NoError(t, uc.RequestSellerRole(context.Background(), "u1"))

	pending, err := uc.ListSellerRequests(context.Background(), userdom.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, uc.ApproveSellerRole(context.Background(), "u1", userdom.RoleAdmin))

	p, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, userdom.RoleSeller, p.Role)
	assert.Empty(t, p.RequestedRole)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "seller-approved", mailer.sent[0].kind)
}

func TestApproveSellerRoleRequiresAdmin(t *testing.T) {
	uc := NewUserUsecaseWithClock(newFakeUserRepo(), nil, fixedClock{t: testNow})
	err := uc.ApproveSellerRole(context.Background(), "u1", userdom.RoleSeller)
	assert.ErrorIs(t, err, ErrUserForbidden)
}

func TestAdminListingsRequireAdmin(t *testing.T) {
	uc := NewUserUsecaseWithClock(newFakeUserRepo(), nil, fixedClock{t: testNow})

	_, err := uc.ListAll(context.Background(), userdom.RoleUser)
	assert.ErrorIs(t, err, ErrUserForbidden)
	_, err = uc.ListSellerRequests(context.Background(), userdom.RoleSeller)
	assert.ErrorIs(t, err, ErrUserForbidden)
}

func TestSetActiveTogglesFlag(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecaseWithClock(repo, nil, fixedClock{t: testNow})
	_, err := uc.Ensure(context.Background(), "u1", "a@example.com", "Asha", true, userdom.RoleUser)
	require.NoError(t, err)

	require.NoError(t, uc.SetActive(context.Background(), "u1", false, userdom.RoleAdmin))
	p, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, p.IsActive)
}

func TestUserGetNotFound(t *testing.T) {
	uc := NewUserUsecaseWithClock(newFakeUserRepo(), nil, fixedClock{t: testNow})
	_, err := uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
