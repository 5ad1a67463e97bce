package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ModelInfo describes one model offered by OpenRouter.
type ModelInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Context int    `json:"context_length"`
}

// ListOpenRouterModels fetches the model catalog from OpenRouter so the
// settings UI can offer a picker. Requires an OpenRouter credential. A nil
// httpClient uses a default client.
func ListOpenRouterModels(ctx context.Context, resolver *CredentialResolver, httpClient *http.Client) ([]ModelInfo, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	cred, err := resolver.Resolve(ctx, Config{Provider: ProviderOpenRouter})
	if err != nil {
		return nil, err
	}
	baseURL := cred.BaseURL
	if baseURL == "" {
		baseURL = providers[ProviderOpenRouter].DefaultBase
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data []ModelInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding models: %w", err)
	}
	return payload.Data, nil
}
