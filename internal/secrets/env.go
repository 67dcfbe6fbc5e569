package secrets

import (
	"context"
	"errors"
	"os"
	"strings"
)

// EnvStore reads secrets from environment variables for local runs. A secret
// named "crm-jwt-public-key-dev" is read from CRM_JWT_PUBLIC_KEY_DEV.
type EnvStore struct{}

func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// EnvName maps a secret name to its environment variable
func EnvName(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", "/", "_", ".", "_").Replace(name))
}

func (EnvStore) Get(_ context.Context, name string) (string, error) {
	v, ok := os.LookupEnv(EnvName(name))
	if !ok || v == "" {
		return "", errors.Join(ErrSecretNotFound, errors.New(EnvName(name)+" is not set"))
	}
	// PEM values are often stored with escaped newlines
	return strings.ReplaceAll(v, `\n`, "\n"), nil
}

func (e EnvStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := e.Get(ctx, name)
	return err == nil, nil
}

func (EnvStore) Put(_ context.Context, secret Secret) error {
	return os.Setenv(EnvName(secret.Name), secret.Value)
}
