package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	userdom "caterhub/internal/domain/user"
)

var (
	ErrUserInvalidArgument = errors.New("user_usecase: invalid argument")
	ErrUserNotFound        = errors.New("user_usecase: not found")
	ErrUserForbidden       = errors.New("user_usecase: forbidden")
)

// UserUsecase serves profiles, role requests and admin approvals.
type UserUsecase struct {
	repo   userdom.Repository
	mailer Mailer
	clock  Clock
}

func NewUserUsecase(repo userdom.Repository, mailer Mailer) *UserUsecase {
	return &UserUsecase{repo: repo, mailer: mailer, clock: systemClock{}}
}

func NewUserUsecaseWithClock(repo userdom.Repository, mailer Mailer, clock Clock) *UserUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &UserUsecase{repo: repo, mailer: mailer, clock: clock}
}

// Ensure upserts the users/{uid} document with merge semantics: an existing
// role and isActive win, isVerified is sticky once true. Safe to call on
// every sign-in.
func (uc *UserUsecase) Ensure(ctx context.Context, uid, email, name string, emailVerified bool, role userdom.Role) (*userdom.Profile, error) {
	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, ErrUserInvalidArgument
	}

	p, err := uc.repo.GetByUID(ctx, id)
	if err != nil {
		// ensure-read failure is non-fatal: fall through with a fresh doc
		log.Printf("[user_uc] ensure read failed uid=%s err=%v", id, err)
		p = nil
	}
	if p == nil {
		p = &userdom.Profile{UID: id, Role: role}
	}
	p.MergeEnsure(email, name, emailVerified, uc.clock.Now())

	if err := uc.repo.Ensure(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[user_uc] ensure uid=%s role=%s", id, p.Role)
	return p, nil
}

// Get returns one profile.
func (uc *UserUsecase) Get(ctx context.Context, uid string) (*userdom.Profile, error) {
	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, ErrUserInvalidArgument
	}
	p, err := uc.repo.GetByUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}

// UpdateProfile patches profile fields owned by the user (name, phone,
// address). Role and activation flags are not patchable here.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, uid string, fields map[string]any) error {
	id := strings.TrimSpace(uid)
	if id == "" {
		return ErrUserInvalidArgument
	}
	for _, k := range []string{"role", "requestedRole", "isActive", "isVerified"} {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil
	}
	return uc.repo.Update(ctx, id, fields)
}

// RequestSellerRole marks the profile as awaiting seller approval.
func (uc *UserUsecase) RequestSellerRole(ctx context.Context, uid string) error {
	id := strings.TrimSpace(uid)
	if id == "" {
		return ErrUserInvalidArgument
	}
	if err := uc.repo.Update(ctx, id, map[string]any{"requestedRole": string(userdom.RoleSeller)}); err != nil {
		return err
	}
	log.Printf("[user_uc] seller-role requested uid=%s", id)
	return nil
}

// ApproveSellerRole promotes uid to seller and clears the pending request
// (admin only). The approval mail is best-effort.
func (uc *UserUsecase) ApproveSellerRole(ctx context.Context, uid string, actorRole userdom.Role) error {
	if actorRole != userdom.RoleAdmin {
		return ErrUserForbidden
	}
	p, err := uc.Get(ctx, uid)
	if err != nil {
		return err
	}

	if err := uc.repo.Update(ctx, p.UID, map[string]any{
		"role":          string(userdom.RoleSeller),
		"requestedRole": nil,
	}); err != nil {
		return err
	}
	log.Printf("[user_uc] seller approved uid=%s", p.UID)

	if uc.mailer != nil && strings.TrimSpace(p.Email) != "" {
		if err := uc.mailer.SendSellerApproved(ctx, p.Email, p.Name); err != nil {
			log.Printf("[user_uc] WARN: approval mail failed uid=%s err=%v", p.UID, err)
		}
	}
	return nil
}

// ListSellerRequests returns pending seller-role requests, newest first
// (admin only). A storage failure degrades to an empty list.
func (uc *UserUsecase) ListSellerRequests(ctx context.Context, actorRole userdom.Role) ([]*userdom.Profile, error) {
	if actorRole != userdom.RoleAdmin {
		return nil, ErrUserForbidden
	}
	out, err := uc.repo.ListSellerRequests(ctx)
	if err != nil {
		log.Printf("[user_uc] list-seller-requests degraded to empty err=%v", err)
		return []*userdom.Profile{}, nil
	}
	return out, nil
}

// ListAll returns every profile (admin only).
func (uc *UserUsecase) ListAll(ctx context.Context, actorRole userdom.Role) ([]*userdom.Profile, error) {
	if actorRole != userdom.RoleAdmin {
		return nil, ErrUserForbidden
	}
	out, err := uc.repo.ListAll(ctx)
	if err != nil {
		log.Printf("[user_uc] list-all degraded to empty err=%v", err)
		return []*userdom.Profile{}, nil
	}
	return out, nil
}

// SetActive toggles account activation (admin only). Deactivated accounts are
// rejected at sign-in.
func (uc *UserUsecase) SetActive(ctx context.Context, uid string, active bool, actorRole userdom.Role) error {
	if actorRole != userdom.RoleAdmin {
		return ErrUserForbidden
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return ErrUserInvalidArgument
	}
	return uc.repo.Update(ctx, id, map[string]any{"isActive": active})
}

// Delete removes the users/{uid} document (admin only).
func (uc *UserUsecase) Delete(ctx context.Context, uid string, actorRole userdom.Role) error {
	if actorRole != userdom.RoleAdmin {
		return ErrUserForbidden
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return ErrUserInvalidArgument
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[user_uc] deleted uid=%s", id)
	return nil
}
