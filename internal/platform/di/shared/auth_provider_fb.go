package shared

import (
	"context"
	"errors"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"

	authuc "caterhub/internal/application/usecase/auth"
)

// AuthProviderFB adapts the Firebase Auth client to the identity-provider
// port used by the auth usecase.
type AuthProviderFB struct {
	client *firebaseauth.Client
}

func NewAuthProviderFB(client *firebaseauth.Client) *AuthProviderFB {
	return &AuthProviderFB{client: client}
}

func (p *AuthProviderFB) CreateUser(ctx context.Context, email, password, displayName string) (authuc.Identity, error) {
	if p == nil || p.client == nil {
		return authuc.Identity{}, errors.New("shared.AuthProviderFB.CreateUser: client is nil")
	}

	params := (&firebaseauth.UserToCreate{}).
		Email(strings.TrimSpace(email)).
		Password(password)
	if name := strings.TrimSpace(displayName); name != "" {
		params = params.DisplayName(name)
	}

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return authuc.Identity{}, err
	}
	return identityFromRecord(rec), nil
}

func (p *AuthProviderFB) GetUser(ctx context.Context, uid string) (authuc.Identity, error) {
	if p == nil || p.client == nil {
		return authuc.Identity{}, errors.New("shared.AuthProviderFB.GetUser: client is nil")
	}
	rec, err := p.client.GetUser(ctx, strings.TrimSpace(uid))
	if err != nil {
		return authuc.Identity{}, err
	}
	return identityFromRecord(rec), nil
}

func (p *AuthProviderFB) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	if p == nil || p.client == nil {
		return "", errors.New("shared.AuthProviderFB.EmailVerificationLink: client is nil")
	}
	return p.client.EmailVerificationLink(ctx, strings.TrimSpace(email))
}

func (p *AuthProviderFB) PasswordResetLink(ctx context.Context, email string) (string, error) {
	if p == nil || p.client == nil {
		return "", errors.New("shared.AuthProviderFB.PasswordResetLink: client is nil")
	}
	return p.client.PasswordResetLink(ctx, strings.TrimSpace(email))
}

func (p *AuthProviderFB) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if p == nil || p.client == nil {
		return errors.New("shared.AuthProviderFB.RevokeRefreshTokens: client is nil")
	}
	return p.client.RevokeRefreshTokens(ctx, strings.TrimSpace(uid))
}

func identityFromRecord(rec *firebaseauth.UserRecord) authuc.Identity {
	if rec == nil || rec.UserInfo == nil {
		return authuc.Identity{}
	}
	return authuc.Identity{
		UID:           rec.UID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		EmailVerified: rec.EmailVerified,
		Disabled:      rec.Disabled,
	}
}
