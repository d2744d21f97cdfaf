package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SettingsRepositoryFS implements settings.AdminRepository on the single
// settings/admin document.
type SettingsRepositoryFS struct {
	Client *firestore.Client
}

func NewSettingsRepositoryFS(client *firestore.Client) *SettingsRepositoryFS {
	return &SettingsRepositoryFS{Client: client}
}

func (r *SettingsRepositoryFS) doc() *firestore.DocumentRef {
	return r.Client.Collection("settings").Doc("admin")
}

// settingsDoc is the settings/admin document.
type settingsDoc struct {
	SecretCode string    `firestore:"secretCode"`
	UpdatedAt  time.Time `firestore:"updatedAt"`
}

// GetAdminSecret returns the stored secret; a missing doc yields "" so the
// caller can seed the default.
func (r *SettingsRepositoryFS) GetAdminSecret(ctx context.Context) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("settings_repository_fs: firestore client is nil")
	}

	snap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", err
	}

	var d settingsDoc
	if err := snap.DataTo(&d); err != nil {
		return "", err
	}
	return strings.TrimSpace(d.SecretCode), nil
}

func (r *SettingsRepositoryFS) SetAdminSecret(ctx context.Context, secret string) error {
	if r == nil || r.Client == nil {
		return errors.New("settings_repository_fs: firestore client is nil")
	}
	s := strings.TrimSpace(secret)
	if s == "" {
		return errors.New("settings_repository_fs: secret is empty")
	}

	_, err := r.doc().Set(ctx, settingsDoc{
		SecretCode: s,
		UpdatedAt:  time.Now().UTC(),
	})
	return err
}
