package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{"https", "https://github.com/traefik/traefik", "traefik", "traefik", true},
		{"no scheme", "github.com/acme/widget", "acme", "widget", true},
		{"git suffix", "https://github.com/acme/widget.git", "acme", "widget", true},
		{"trailing path", "https://github.com/acme/widget/issues/42", "acme", "widget", true},
		{"not github", "https://gitlab.com/acme/widget", "", "", false},
		{"owner only", "https://github.com/acme", "", "", false},
		{"empty", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseGitHubURL(tt.url)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestProjectValidate(t *testing.T) {
	p := &Project{Name: "traefik", Owner: "traefik", Repo: "traefik"}
	require.NoError(t, p.Validate())

	assert.Error(t, (&Project{Owner: "a", Repo: "b"}).Validate())
	assert.Error(t, (&Project{Name: "x", Repo: "b"}).Validate())
	assert.Error(t, (&Project{Name: "x", Owner: "a"}).Validate())
}

func TestProjectSlug(t *testing.T) {
	p := &Project{Owner: "acme", Repo: "widget"}
	assert.Equal(t, "acme/widget", p.Slug())
}

func TestSettingMasked(t *testing.T) {
	secret := Setting{Key: "OPENAI_API_KEY", Value: "sk-live", Encrypted: true}
	assert.Equal(t, MaskedValue, secret.Masked().Value)
	// The original is untouched.
	assert.Equal(t, "sk-live", secret.Value)

	plain := Setting{Key: "AI_PROVIDER", Value: "openai"}
	assert.Equal(t, "openai", plain.Masked().Value)
}
