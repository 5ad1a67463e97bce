package llm

import (
	"os"
	"strconv"
)

// Provider identifies a text-generation backend. The set is closed:
// adding a provider means adding a case to New.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGoogle     Provider = "google"
	ProviderAzure      Provider = "azure"
	ProviderMistral    Provider = "mistral"
	ProviderCohere     Provider = "cohere"
)

// providerInfo carries the per-provider conventions: the settings/env key
// holding its API key, its default base URL (empty for unimplemented
// providers), and its default model.
type providerInfo struct {
	KeyName      string
	BaseURLName  string
	DefaultBase  string
	DefaultModel string
}

var providers = map[Provider]providerInfo{
	ProviderOpenAI:     {KeyName: "OPENAI_API_KEY", BaseURLName: "OPENAI_BASE_URL", DefaultBase: "https://api.openai.com/v1", DefaultModel: "gpt-4o-mini"},
	ProviderDeepSeek:   {KeyName: "DEEPSEEK_API_KEY", BaseURLName: "DEEPSEEK_BASE_URL", DefaultBase: "https://api.deepseek.com", DefaultModel: "deepseek-chat"},
	ProviderOpenRouter: {KeyName: "OPENROUTER_API_KEY", BaseURLName: "OPENROUTER_BASE_URL", DefaultBase: "https://openrouter.ai/api/v1", DefaultModel: "openai/gpt-4o-mini"},
	ProviderAnthropic:  {KeyName: "ANTHROPIC_API_KEY"},
	ProviderGoogle:     {KeyName: "GOOGLE_API_KEY"},
	ProviderAzure:      {KeyName: "AZURE_API_KEY"},
	ProviderMistral:    {KeyName: "MISTRAL_API_KEY"},
	ProviderCohere:     {KeyName: "COHERE_API_KEY"},
}

// Known reports whether the provider name is part of the closed set.
func Known(p Provider) bool {
	_, ok := providers[p]
	return ok
}

// TaskType identifies the kind of completion being requested. Report and
// summary generation use different sampling parameters.
type TaskType string

const (
	TaskReport  TaskType = "report"
	TaskSummary TaskType = "summary"
)

// TaskConfig holds per-task sampling parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int
}

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string // explicit override, normally empty
	BaseURL  string // explicit override, normally empty
	Tasks    map[TaskType]TaskConfig
}

// DefaultConfig returns a Config targeting the default OpenAI-compatible
// provider with the task parameters the report pipeline expects.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		Model:    providers[ProviderOpenAI].DefaultModel,
		Tasks: map[TaskType]TaskConfig{
			TaskReport:  {Temperature: 0.7, MaxTokens: 2000, TimeoutMs: 120000},
			TaskSummary: {Temperature: 0.5, MaxTokens: 150, TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables, falling
// back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("REPOPULSE_AI_PROVIDER"); v != "" {
		cfg.Provider = Provider(v)
		if info, ok := providers[cfg.Provider]; ok && info.DefaultModel != "" {
			cfg.Model = info.DefaultModel
		}
	}
	if v := os.Getenv("REPOPULSE_AI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("REPOPULSE_AI_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			for task, tc := range cfg.Tasks {
				tc.TimeoutMs = n
				cfg.Tasks[task] = tc
			}
		}
	}
	return cfg
}

// TaskTimeout returns the effective timeout in milliseconds for a task.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return 120000
}
