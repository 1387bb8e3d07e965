package secrets

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	values map[string]string
	failOn string
	calls  []string
}

func (p *recordingProvider) GetSecret(_ context.Context, name string) (string, error) {
	p.calls = append(p.calls, name)
	if name == p.failOn {
		return "", errors.New("vault unreachable")
	}
	return p.values[name], nil
}

func fullBundle() map[string]string {
	return map[string]string{
		NameUsername: "svc_ml",
		NamePassword: "p@ss;word",
		NameDatabase: "mlresults",
		NameServer:   "tcp:sql.example.net,1433",
	}
}

func TestResolve_AllSecrets(t *testing.T) {
	p := &recordingProvider{values: fullBundle()}

	creds, err := Resolve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, Credentials{
		Username: "svc_ml",
		Password: "p@ss;word",
		Database: "mlresults",
		Server:   "tcp:sql.example.net,1433",
	}, creds)
	assert.Equal(t, []string{NameUsername, NamePassword, NameDatabase, NameServer}, p.calls)
}

func TestResolve_StopsAtFirstFailure(t *testing.T) {
	p := &recordingProvider{values: fullBundle(), failOn: NamePassword}

	creds, err := Resolve(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"password"`)
	assert.Equal(t, Credentials{}, creds)
	assert.Equal(t, []string{NameUsername, NamePassword}, p.calls)
}

func TestResolve_EmptySecret(t *testing.T) {
	values := fullBundle()
	values[NameServer] = "  "

	_, err := Resolve(context.Background(), StaticProvider(values))
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestStaticProvider_Missing(t *testing.T) {
	_, err := StaticProvider{}.GetSecret(context.Background(), NameDatabase)
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestCredentials_StringHidesPassword(t *testing.T) {
	c := Credentials{Username: "u", Password: "hunter2", Database: "d", Server: "s"}
	assert.NotContains(t, c.String(), "hunter2")
	assert.Contains(t, c.String(), "user=u")
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("SECRET_USERNAME", "svc_ml")
	t.Setenv("SECRET_SQL_SERVER", "sql.example.net")

	p := NewEnvProvider("SECRET_")

	v, err := p.GetSecret(context.Background(), NameUsername)
	require.NoError(t, err)
	assert.Equal(t, "svc_ml", v)

	v, err = p.GetSecret(context.Background(), "sql-server")
	require.NoError(t, err)
	assert.Equal(t, "sql.example.net", v)

	_, err = p.GetSecret(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.Contains(t, err.Error(), "SECRET_DOES_NOT_EXIST")
}

type fakeVault struct {
	values map[string]string
	err    error
}

func (f *fakeVault) GetSecret(_ context.Context, name, _ string, _ *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	if f.err != nil {
		return azsecrets.GetSecretResponse{}, f.err
	}
	v, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "SecretNotFound"}
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &v}}, nil
}

func TestKeyVaultProvider_GetSecret(t *testing.T) {
	p := &KeyVaultProvider{vaultURL: "https://kv.example.net/", client: &fakeVault{values: fullBundle()}}

	creds, err := Resolve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "mlresults", creds.Database)
}

func TestKeyVaultProvider_NotFound(t *testing.T) {
	p := &KeyVaultProvider{client: &fakeVault{values: map[string]string{}}}

	_, err := p.GetSecret(context.Background(), NameServer)
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestKeyVaultProvider_TransportError(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	p := &KeyVaultProvider{client: &fakeVault{err: boom}}

	_, err := p.GetSecret(context.Background(), NameServer)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSecretNotFound)
}

func TestNewKeyVaultProvider_RequiresURL(t *testing.T) {
	_, err := NewKeyVaultProvider("", "", "", "")
	assert.Error(t, err)
}
