package secrets

import (
	"context"
	"fmt"
	"os"

	sm "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/dora-network/order-utils/errors"
)

const (
	GoogleApplicationCredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"
	DefaultSignerKeySecretID        = "order-signer-key"
	DefaultRedisPasswordSecretID    = "redis-password"
	LatestVersion                   = "latest"
)

var ErrCredentialsNotSet = errors.Newf(errors.InvalidInputError, "%s not set", GoogleApplicationCredentialsEnv)

// VersionName is the resource name of a secret version.
func VersionName(projectID, secretID, version string) string {
	if version == "" {
		version = LatestVersion
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", projectID, secretID, version)
}

func newClient(ctx context.Context) (*sm.Client, error) {
	if os.Getenv(GoogleApplicationCredentialsEnv) == "" {
		return nil, ErrCredentialsNotSet
	}
	client, err := sm.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, err, "failed to create secrets client")
	}
	return client, nil
}

// GetSecret returns the payload of the latest version of a secret.
func GetSecret(ctx context.Context, projectID, secretID string) ([]byte, error) {
	return GetSecretVersion(ctx, projectID, secretID, LatestVersion)
}

func GetSecretVersion(ctx context.Context, projectID, secretID, version string) ([]byte, error) {
	client, err := newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{
		Name: VersionName(projectID, secretID, version),
	})
	if err != nil {
		return nil, errors.Wrap(errors.NotFoundError, err, fmt.Sprintf("failed to retrieve secret %s", secretID))
	}
	return result.GetPayload().GetData(), nil
}

// CreateSecret creates an automatically replicated secret holding payload and returns the name of its first version.
func CreateSecret(ctx context.Context, projectID, secretID string, payload []byte) (string, error) {
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	secret, err := client.CreateSecret(ctx, &smpb.CreateSecretRequest{
		Parent:   fmt.Sprintf("projects/%s", projectID),
		SecretId: secretID,
		Secret: &smpb.Secret{
			Replication: &smpb.Replication{
				Replication: &smpb.Replication_Automatic_{
					Automatic: &smpb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(errors.InternalError, err, "failed to create secret")
	}

	version, err := client.AddSecretVersion(ctx, &smpb.AddSecretVersionRequest{
		Parent:  secret.GetName(),
		Payload: &smpb.SecretPayload{Data: payload},
	})
	if err != nil {
		return "", errors.Wrap(errors.InternalError, err, "failed to add secret version")
	}
	return version.GetName(), nil
}
