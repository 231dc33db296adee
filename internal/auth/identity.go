package auth

import "context"

// Identity is the resolved owner of a bearer token, as reported
// by the identity provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type identityContextKey struct{}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
