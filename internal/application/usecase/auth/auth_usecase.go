package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	usecase "caterhub/internal/application/usecase"
	userdom "caterhub/internal/domain/user"
)

var (
	ErrInvalidArgument  = errors.New("auth_usecase: invalid argument")
	ErrEmailNotVerified = errors.New("auth_usecase: please verify your email before logging in")
	ErrAccountInactive  = errors.New("auth_usecase: your account is inactive, contact support")
)

// Identity is the identity-provider view of an account.
type Identity struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	Disabled      bool
}

// Provider is the outbound port to the identity provider (Firebase Auth).
type Provider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (Identity, error)
	GetUser(ctx context.Context, uid string) (Identity, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Usecase implements registration and the sign-in bootstrap gates.
//
// Authorization failures (unverified email, deactivated account) are rejected
// here at the identity boundary: the session's refresh tokens are revoked and
// a human-readable error is returned, forcing the client to sign out.
type Usecase struct {
	provider Provider
	users    *usecase.UserUsecase
	carts    *usecase.CartUsecase
	settings *usecase.SettingsUsecase
	mailer   usecase.Mailer
}

func New(provider Provider, users *usecase.UserUsecase, carts *usecase.CartUsecase, settings *usecase.SettingsUsecase, mailer usecase.Mailer) *Usecase {
	return &Usecase{
		provider: provider,
		users:    users,
		carts:    carts,
		settings: settings,
		mailer:   mailer,
	}
}

// RegisterInput is the registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string

	// AdminSecret must match the configured secret when Role is admin.
	// Checked synchronously before any account is created.
	AdminSecret string
}

// Register creates the account, seeds users/{uid} and sends the verification
// mail (best-effort).
func (uc *Usecase) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	if uc.provider == nil || uc.users == nil {
		return Identity{}, ErrInvalidArgument
	}

	email := strings.TrimSpace(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" {
		return Identity{}, ErrInvalidArgument
	}

	role, err := userdom.ParseRole(in.Role)
	if err != nil {
		return Identity{}, err
	}
	if role == userdom.RoleAdmin {
		if uc.settings == nil {
			return Identity{}, ErrInvalidArgument
		}
		if err := uc.settings.VerifyAdminSecret(ctx, in.AdminSecret); err != nil {
			return Identity{}, err
		}
	}

	id, err := uc.provider.CreateUser(ctx, email, in.Password, strings.TrimSpace(in.Name))
	if err != nil {
		return Identity{}, err
	}

	if _, err := uc.users.Ensure(ctx, id.UID, id.Email, id.DisplayName, false, role); err != nil {
		return Identity{}, err
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		if err := uc.users.UpdateProfile(ctx, id.UID, map[string]any{"phone": phone}); err != nil {
			log.Printf("[auth_uc] WARN: phone write failed uid=%s err=%v", id.UID, err)
		}
	}

	uc.sendVerificationMail(ctx, id)
	log.Printf("[auth_uc] register-success uid=%s email=%s role=%s", id.UID, email, role)
	return id, nil
}

// Session is the verified ID-token view passed in by the auth middleware.
type Session struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool

	// Federated marks providers that verify email out-of-band (e.g. Google
	// sign-in); verification then defaults to true.
	Federated bool
}

// SignInBootstrap runs the once-per-sign-in transition: ensure the user doc,
// enforce the verified/active gates, and reconcile the guest cart into the
// remote cart. guestSessionID may be empty.
func (uc *Usecase) SignInBootstrap(ctx context.Context, s Session, guestSessionID string) (*userdom.Profile, error) {
	if uc.users == nil {
		return nil, ErrInvalidArgument
	}
	uid := strings.TrimSpace(s.UID)
	if uid == "" {
		return nil, ErrInvalidArgument
	}

	verified := s.EmailVerified || s.Federated

	profile, err := uc.users.Ensure(ctx, uid, s.Email, s.Name, verified, userdom.RoleUser)
	if err != nil {
		return nil, err
	}

	if !profile.IsVerified {
		uc.revoke(ctx, uid)
		log.Printf("[auth_uc] login rejected: unverified uid=%s", uid)
		return nil, ErrEmailNotVerified
	}
	if !profile.IsActive {
		uc.revoke(ctx, uid)
		log.Printf("[auth_uc] login rejected: inactive uid=%s", uid)
		return nil, ErrAccountInactive
	}

	if uc.carts != nil {
		if _, err := uc.carts.Reconcile(ctx, guestSessionID, uid); err != nil {
			// reconciliation failure must not block sign-in; the guest cart
			// stays intact for a later retry
			log.Printf("[auth_uc] WARN: cart reconcile failed uid=%s err=%v", uid, err)
		}
	}

	log.Printf("[auth_uc] login-success uid=%s", uid)
	return profile, nil
}

// SignOut revokes the session's refresh tokens.
func (uc *Usecase) SignOut(ctx context.Context, uid string) error {
	if uc.provider == nil {
		return ErrInvalidArgument
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return ErrInvalidArgument
	}
	if err := uc.provider.RevokeRefreshTokens(ctx, id); err != nil {
		return err
	}
	log.Printf("[auth_uc] logout-success uid=%s", id)
	return nil
}

// SendPasswordReset mails a reset link.
func (uc *Usecase) SendPasswordReset(ctx context.Context, email string) error {
	if uc.provider == nil {
		return ErrInvalidArgument
	}
	e := strings.TrimSpace(email)
	if e == "" {
		return ErrInvalidArgument
	}
	link, err := uc.provider.PasswordResetLink(ctx, e)
	if err != nil {
		return err
	}
	if uc.mailer != nil {
		if err := uc.mailer.SendPasswordResetLink(ctx, e, link); err != nil {
			return err
		}
	}
	log.Printf("[auth_uc] password-reset sent email=%s", e)
	return nil
}

// SendVerification re-sends the verification mail for uid.
func (uc *Usecase) SendVerification(ctx context.Context, uid string) error {
	if uc.provider == nil {
		return ErrInvalidArgument
	}
	id, err := uc.provider.GetUser(ctx, strings.TrimSpace(uid))
	if err != nil {
		return err
	}
	uc.sendVerificationMail(ctx, id)
	return nil
}

// ReloadSession fetches the fresh provider view and syncs the sticky
// verification flag into the profile.
func (uc *Usecase) ReloadSession(ctx context.Context, uid string) (Identity, error) {
	if uc.provider == nil {
		return Identity{}, ErrInvalidArgument
	}
	id, err := uc.provider.GetUser(ctx, strings.TrimSpace(uid))
	if err != nil {
		return Identity{}, err
	}
	if id.EmailVerified && uc.users != nil {
		if _, err := uc.users.Ensure(ctx, id.UID, id.Email, id.DisplayName, true, userdom.RoleUser); err != nil {
			log.Printf("[auth_uc] WARN: verified sync failed uid=%s err=%v", id.UID, err)
		}
	}
	return id, nil
}

func (uc *Usecase) sendVerificationMail(ctx context.Context, id Identity) {
	link, err := uc.provider.EmailVerificationLink(ctx, id.Email)
	if err != nil {
		log.Printf("[auth_uc] WARN: verification link failed uid=%s err=%v", id.UID, err)
		return
	}
	if uc.mailer == nil {
		return
	}
	if err := uc.mailer.SendVerificationLink(ctx, id.Email, id.DisplayName, link); err != nil {
		log.Printf("[auth_uc] WARN: verification mail failed uid=%s err=%v", id.UID, err)
		return
	}
	log.Printf("[auth_uc] verification-sent uid=%s", id.UID)
}

func (uc *Usecase) revoke(ctx context.Context, uid string) {
	if uc.provider == nil {
		return
	}
	if err := uc.provider.RevokeRefreshTokens(ctx, uid); err != nil {
		log.Printf("[auth_uc] WARN: revoke failed uid=%s err=%v", uid, err)
	}
}
