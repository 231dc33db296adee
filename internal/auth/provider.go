package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/healthyduck/fitnessapi/pkg"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitness-session||"
)

var ErrIdentityNotFound = errors.New("identity not found")

// Provider resolves bearer tokens to identities against the session
// store shared with the identity service. This backend never issues
// tokens on its own, except through StoreSession for dev and testing.
type Provider struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewProvider(ttl time.Duration, redisClient *redis.Client) *Provider {
	return &Provider{
		redisClient:    redisClient,
		ttl:            ttl,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// TokenIdentity resolves a bearer token to the identity it was issued for.
// Returns ErrIdentityNotFound for unknown or expired tokens.
func (p *Provider) TokenIdentity(ctx context.Context, token string) (*Identity, error) {
	cmd := p.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(cmd.Val()), &identity); err != nil {
		return nil, fmt.Errorf("unmarshal session identity: %w", err)
	}
	if identity.ID == "" {
		return nil, ErrIdentityNotFound
	}

	return &identity, nil
}

// StoreSession issues a new token for the given identity and stores it
// with the provider TTL.
func (p *Provider) StoreSession(ctx context.Context, identity Identity) (string, error) {
	token, err := p.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	identityJson, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("marshal session identity: %w", err)
	}

	cmdSet := p.redisClient.Set(ctx, sessionKeyPrefix+token, identityJson, p.ttl)
	if err := cmdSet.Err(); err != nil {
		return "", fmt.Errorf("set session: %w", err)
	}

	return token, nil
}

// RemoveSession invalidates a token.
func (p *Provider) RemoveSession(ctx context.Context, token string) error {
	cmd := p.redisClient.Del(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("del session: %w", err)
	}
	if cmd.Val() == 0 {
		return ErrIdentityNotFound
	}
	return nil
}
