// Package auth decides who the caller of an operation is and whether it
// may act as a given principal.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

type Authenticator interface {
	// Authorize fails with an Unauthorized error unless caller may act as required
	Authorize(ctx context.Context, caller, required string) error
}

// Identity authorizes a caller only for its own principal.
type Identity struct{}

func (Identity) Authorize(_ context.Context, caller, required string) error {
	if caller == "" || subtle.ConstantTimeCompare([]byte(caller), []byte(required)) != 1 {
		return types.NewUnauthorizedError(
			fmt.Errorf("%w: %q cannot act as %q", types.ErrUnauthorized, caller, required),
		)
	}
	return nil
}

// Keyring resolves bearer API keys to principals.
type Keyring struct {
	keys []config.APIKey
}

func NewKeyring(cfg *config.AuthConfig) *Keyring {
	keys := make([]config.APIKey, len(cfg.Keys))
	copy(keys, cfg.Keys)
	return &Keyring{keys: keys}
}

// Principal returns the principal of key. Every configured key is compared
// so that the lookup time does not depend on which key matched.
func (k *Keyring) Principal(key string) (string, bool) {
	var (
		principal string
		found     bool
	)
	for _, candidate := range k.keys {
		if subtle.ConstantTimeCompare([]byte(candidate.Key), []byte(key)) == 1 {
			principal = candidate.Principal
			found = true
		}
	}
	return principal, found
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(principalKey{}).(string)
	return p, ok && p != ""
}
