package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider reads secrets from environment variables named
// prefix + upper-cased secret name, e.g. SECRET_USERNAME.
type EnvProvider struct {
	Prefix string
}

func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{Prefix: prefix}
}

func (p *EnvProvider) GetSecret(_ context.Context, name string) (string, error) {
	key := p.key(name)
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("%s (env %s): %w", name, key, ErrSecretNotFound)
	}
	return v, nil
}

func (p *EnvProvider) key(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func (p *EnvProvider) String() string {
	return fmt.Sprintf("EnvProvider(prefix=%s)", p.Prefix)
}
