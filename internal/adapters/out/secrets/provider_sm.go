package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// ProviderSM implements settings.SecretProvider on Google Secret Manager.
// Secret names are resolved as projects/{project}/secrets/{name}/versions/latest.
type ProviderSM struct {
	sm        *secretmanager.Client
	projectID string
}

func NewProviderSM(sm *secretmanager.Client, projectID string) *ProviderSM {
	return &ProviderSM{sm: sm, projectID: strings.TrimSpace(projectID)}
}

func (p *ProviderSM) Access(ctx context.Context, name string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errors.New("secrets: secret manager client is nil")
	}
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("secrets: secret name is empty")
	}
	if p.projectID == "" {
		return "", errors.New("secrets: projectID is empty")
	}

	full := "projects/" + p.projectID + "/secrets/" + n + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: full})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + full + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + full + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
