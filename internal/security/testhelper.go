package security

import "time"

// NewTestTokenProvider returns a TokenProvider over a fresh ES256 key with a one hour
// reset lifetime. For tests in other packages.
func NewTestTokenProvider() (*TokenProvider, error) {
	signer, pub, err := GenerateEphemeralKey()
	if err != nil {
		return nil, err
	}
	return NewTokenProvider(signer, pub, "nexus-test", "nexus-test-web", time.Hour), nil
}
