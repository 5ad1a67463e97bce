package llm

import "errors"

var (
	// ErrCredentialMissing indicates no API key could be resolved for the
	// selected provider. The caller should direct the user to Settings.
	ErrCredentialMissing = errors.New("no API key configured")

	// ErrProviderUnimplemented indicates the selected provider has no
	// working adapter. Generation must abort rather than silently
	// substitute another provider.
	ErrProviderUnimplemented = errors.New("provider not yet implemented")

	// ErrGenerationFailed wraps any upstream provider failure during a
	// completion call. The original error is logged via the Observer and
	// never surfaced to callers, to avoid leaking credentials or
	// provider-internal detail.
	ErrGenerationFailed = errors.New("report generation failed")

	// ErrTimeout indicates the completion request exceeded the configured
	// timeout.
	ErrTimeout = errors.New("llm request timed out")
)
