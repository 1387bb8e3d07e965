package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// secretGetter is the subset of *azsecrets.Client used here.
type secretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// KeyVaultProvider resolves secrets from an Azure Key Vault.
type KeyVaultProvider struct {
	vaultURL string
	client   secretGetter
}

// NewKeyVaultProvider authenticates with a service principal when tenantID,
// clientID and clientSecret are all set, and with DefaultAzureCredential
// otherwise (managed identity, workload identity, Azure CLI).
func NewKeyVaultProvider(vaultURL, tenantID, clientID, clientSecret string) (*KeyVaultProvider, error) {
	if vaultURL == "" {
		return nil, fmt.Errorf("key vault provider requires a vault URL")
	}

	var (
		cred azcore.TokenCredential
		err  error
	)
	if tenantID != "" && clientID != "" && clientSecret != "" {
		cred, err = azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	} else {
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault client: %w", err)
	}

	return &KeyVaultProvider{vaultURL: vaultURL, client: client}, nil
}

func (p *KeyVaultProvider) GetSecret(ctx context.Context, name string) (string, error) {
	// empty version selects the latest
	resp, err := p.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", name, ErrSecretNotFound)
		}
		return "", fmt.Errorf("key vault lookup %s: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("%s: %w", name, ErrEmptySecret)
	}
	return *resp.Value, nil
}

func (p *KeyVaultProvider) String() string {
	return fmt.Sprintf("KeyVaultProvider(vault=%s)", p.vaultURL)
}
