package settings

import "context"

// DefaultAdminSecret is seeded into settings/admin on first read when no
// secret has ever been configured.
const DefaultAdminSecret = "Arbab@321"

// AdminRepository is the outbound port for the settings/admin document.
type AdminRepository interface {
	// GetAdminSecret returns the stored secret, or "" when unset.
	GetAdminSecret(ctx context.Context) (string, error)
	SetAdminSecret(ctx context.Context, secret string) error
}

// SecretProvider resolves secrets from an external secret store.
// Implementations return ("", nil) only on a genuinely empty payload.
type SecretProvider interface {
	Access(ctx context.Context, name string) (string, error)
}
