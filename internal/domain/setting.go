package domain

import "time"

// MaskedValue is returned instead of the stored value for encrypted
// settings. Writes that echo it back are ignored by the credential
// resolver so a masked read can never overwrite a real key.
const MaskedValue = "••••••••"

// Setting is a stored key/value configuration entry. Encrypted settings
// (API keys, tokens) are masked when listed.
type Setting struct {
	Key       string
	Value     string
	Encrypted bool
	UpdatedAt time.Time
}

// Masked returns a copy with the value replaced by MaskedValue when the
// setting is encrypted.
func (s Setting) Masked() Setting {
	if s.Encrypted {
		s.Value = MaskedValue
	}
	return s
}
