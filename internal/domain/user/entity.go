package user

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidUser = errors.New("user: invalid")
	ErrInvalidRole = errors.New("user: invalid role")
)

// Role is the marketplace role stored on users/{uid}.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleUser, "":
		return RoleUser, nil
	case RoleSeller:
		return RoleSeller, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrInvalidRole
}

// Profile is the users/{uid} document.
type Profile struct {
	UID     string `json:"uid" firestore:"-"`
	Email   string `json:"email" firestore:"email"`
	Name    string `json:"name" firestore:"name"`
	Phone   string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Address string `json:"address,omitempty" firestore:"address,omitempty"`

	Role Role `json:"role" firestore:"role"`

	// RequestedRole is non-empty while a seller-role request is pending
	// admin approval.
	RequestedRole string `json:"requestedRole,omitempty" firestore:"requestedRole"`

	IsActive   bool `json:"isActive" firestore:"isActive"`
	IsVerified bool `json:"isVerified" firestore:"isVerified"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// MergeEnsure folds the identity-provider view into an existing profile with
// ensure-document semantics: existing role and isActive win, isVerified is
// sticky once true, requestedRole is preserved.
func (p *Profile) MergeEnsure(email, name string, emailVerified bool, now time.Time) {
	if p == nil {
		return
	}
	if e := strings.TrimSpace(email); e != "" {
		p.Email = e
	}
	if n := strings.TrimSpace(name); n != "" && p.Name == "" {
		p.Name = n
	}
	p.IsVerified = p.IsVerified || emailVerified
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		p.IsActive = true
	}
	p.UpdatedAt = now
}
