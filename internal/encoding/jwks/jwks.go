// Package jwks verifies tokens against a remotely fetched JSON Web Key Set.
//
// It is the asymmetric counterpart to the shared-secret codec in jws: tokens
// are minted by an external identity provider and only verified here, so the
// package implements just encoding.Unmarshaler.
package jwks

import (
	"context"
	"fmt"

	go_oidc "github.com/coreos/go-oidc/v3/oidc"

	"github.com/pucrs-ages/sarc-gateway/internal/encoding"
)

// Verifier validates tokens signed by the configured issuer.
type Verifier struct {
	ctx      context.Context
	verifier *go_oidc.IDTokenVerifier
}

// New discovers the issuer's signing keys and returns a Verifier for them.
// The issuer accepted during verification is fixed at construction; it is
// never taken from the token.
func New(ctx context.Context, issuerURL string) (encoding.Unmarshaler, error) {
	provider, err := go_oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("jwks: could not discover issuer %s: %w", issuerURL, err)
	}
	return &Verifier{
		ctx: ctx,
		verifier: provider.Verifier(&go_oidc.Config{
			// sessions are not OIDC ID tokens; audience is not meaningful here
			SkipClientIDCheck: true,
		}),
	}, nil
}

// Unmarshal verifies the token's signature, issuer and expiry and decodes
// its claims into s.
func (v *Verifier) Unmarshal(value []byte, s any) error {
	tok, err := v.verifier.Verify(v.ctx, string(value))
	if err != nil {
		return err
	}
	return tok.Claims(s)
}
