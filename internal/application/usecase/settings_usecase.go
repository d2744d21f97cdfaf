package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"

	settingsdom "caterhub/internal/domain/settings"
	userdom "caterhub/internal/domain/user"
)

var (
	ErrSettingsInvalidArgument = errors.New("settings_usecase: invalid argument")
	ErrSettingsForbidden       = errors.New("settings_usecase: forbidden")
	ErrAdminSecretMismatch     = errors.New("settings_usecase: invalid admin secret code")
)

// SettingsUsecase resolves the admin registration secret.
//
// Resolution order: external secret store (when configured) first, then the
// settings/admin Firestore doc; a missing doc is seeded with the default so
// the first read always succeeds.
type SettingsUsecase struct {
	repo       settingsdom.AdminRepository
	secrets    settingsdom.SecretProvider
	secretName string
}

func NewSettingsUsecase(repo settingsdom.AdminRepository, secrets settingsdom.SecretProvider, secretName string) *SettingsUsecase {
	return &SettingsUsecase{
		repo:       repo,
		secrets:    secrets,
		secretName: strings.TrimSpace(secretName),
	}
}

// AdminSecret returns the current secret.
func (uc *SettingsUsecase) AdminSecret(ctx context.Context) (string, error) {
	if uc.secrets != nil && uc.secretName != "" {
		if s, err := uc.secrets.Access(ctx, uc.secretName); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		} else if err != nil {
			log.Printf("[settings_uc] secret store unavailable, falling back to settings doc err=%v", err)
		}
	}

	if uc.repo == nil {
		return "", ErrSettingsInvalidArgument
	}
	s, err := uc.repo.GetAdminSecret(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) != "" {
		return s, nil
	}

	// first read ever: seed the default
	if err := uc.repo.SetAdminSecret(ctx, settingsdom.DefaultAdminSecret); err != nil {
		return "", err
	}
	log.Printf("[settings_uc] admin secret seeded with default")
	return settingsdom.DefaultAdminSecret, nil
}

// VerifyAdminSecret checks a registration attempt's secret. The comparison is
// constant-time; a mismatch is a validation failure, checked before any
// account is created.
func (uc *SettingsUsecase) VerifyAdminSecret(ctx context.Context, candidate string) error {
	want, err := uc.AdminSecret(ctx)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(candidate)), []byte(want)) != 1 {
		return ErrAdminSecretMismatch
	}
	return nil
}

// UpdateAdminSecret rotates the secret in the settings doc (admin only).
func (uc *SettingsUsecase) UpdateAdminSecret(ctx context.Context, secret string, actorRole userdom.Role) error {
	if actorRole != userdom.RoleAdmin {
		return ErrSettingsForbidden
	}
	s := strings.TrimSpace(secret)
	if s == "" {
		return ErrSettingsInvalidArgument
	}
	if uc.repo == nil {
		return ErrSettingsInvalidArgument
	}
	if err := uc.repo.SetAdminSecret(ctx, s); err != nil {
		return err
	}
	log.Printf("[settings_uc] admin secret updated")
	return nil
}
