// Package secrets resolves the database credential bundle from a secret store.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Names of the secrets that make up the credential bundle.
const (
	NameUsername = "username"
	NamePassword = "password"
	NameDatabase = "database"
	NameServer   = "server"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrEmptySecret    = errors.New("secret is empty")
)

// Provider looks up a single secret by name.
type Provider interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Credentials holds everything needed to open the destination database.
type Credentials struct {
	Username string
	Password string
	Database string
	Server   string
}

// String omits the password so the bundle can be logged.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials(user=%s, server=%s, database=%s)", c.Username, c.Server, c.Database)
}

// Resolve fetches username, password, database and server in that order.
// The first failing lookup aborts the resolution.
func Resolve(ctx context.Context, p Provider) (Credentials, error) {
	var creds Credentials

	for _, s := range []struct {
		name string
		dst  *string
	}{
		{NameUsername, &creds.Username},
		{NamePassword, &creds.Password},
		{NameDatabase, &creds.Database},
		{NameServer, &creds.Server},
	} {
		v, err := p.GetSecret(ctx, s.name)
		if err != nil {
			return Credentials{}, fmt.Errorf("resolve secret %q: %w", s.name, err)
		}
		if strings.TrimSpace(v) == "" {
			return Credentials{}, fmt.Errorf("resolve secret %q: %w", s.name, ErrEmptySecret)
		}
		*s.dst = v
	}

	return creds, nil
}

// StaticProvider serves secrets from an in-memory map.
type StaticProvider map[string]string

func (p StaticProvider) GetSecret(_ context.Context, name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrSecretNotFound)
	}
	return v, nil
}
