package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/mlefebvre/repopulse/internal/domain"
)

// SettingsStore is the subset of the settings repository the resolver
// needs. Declared here so the llm package does not depend on storage.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
}

// Credential is a resolved provider credential.
type Credential struct {
	APIKey  string
	BaseURL string // empty means the provider default
}

// CredentialResolver resolves provider credentials with a fixed
// precedence: explicit config override, then the stored setting, then the
// environment variable. The resolver is passed into the pipeline at
// construction time so nothing reads ambient state directly.
type CredentialResolver struct {
	settings SettingsStore
}

// NewCredentialResolver creates a resolver backed by the given settings
// store. A nil store skips the stored-setting step.
func NewCredentialResolver(settings SettingsStore) *CredentialResolver {
	return &CredentialResolver{settings: settings}
}

// Resolve returns the credential for a provider, applying the explicit
// overrides from cfg first. A missing API key yields ErrCredentialMissing
// naming the provider.
func (r *CredentialResolver) Resolve(ctx context.Context, cfg Config) (Credential, error) {
	info, ok := providers[cfg.Provider]
	if !ok {
		return Credential{}, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}

	cred := Credential{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	}

	if cred.APIKey == "" {
		cred.APIKey = r.lookup(ctx, info.KeyName)
	}
	if cred.BaseURL == "" && info.BaseURLName != "" {
		cred.BaseURL = r.lookup(ctx, info.BaseURLName)
	}

	if cred.APIKey == "" {
		return Credential{}, fmt.Errorf("%w for provider %s: configure it in Settings", ErrCredentialMissing, cfg.Provider)
	}
	return cred, nil
}

// lookup checks the stored setting first, then the environment. The
// masked placeholder returned by the settings API is never a real value.
func (r *CredentialResolver) lookup(ctx context.Context, key string) string {
	if r.settings != nil {
		if v, err := r.settings.Get(ctx, key); err == nil && v != "" && v != domain.MaskedValue {
			return v
		}
	}
	return os.Getenv(key)
}
