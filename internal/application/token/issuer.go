package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	pkgtoken "github.com/mvbri/sistema-gestion-soporte-sub000/internal/pkg/token"
)

// Issuer creates and validates single-use, time-limited verification tokens.
// It is independent of transport: callers decide how the opaque value reaches
// the user (email link, security-question response body).
type Issuer interface {
	// Issue mints a new token for (userID, purpose), superseding any
	// outstanding one. Returns ErrCooldown when an unconsumed token of the
	// same purpose was issued inside the cooldown window.
	Issue(ctx context.Context, userID, purpose, source string) (string, error)
	// Consume validates an opaque value and atomically marks the stored
	// token consumed. Exactly one of any concurrent consumers succeeds.
	// Returns ErrTokenConsumed (with the token) when the token exists but
	// was already used, ErrInvalidToken otherwise.
	Consume(ctx context.Context, opaque, purpose string) (*domain.VerificationToken, error)
}

type store interface {
	Put(ctx context.Context, t *domain.VerificationToken) error
	Get(ctx context.Context, userID, purpose string) (*domain.VerificationToken, error)
	GetByHash(ctx context.Context, hash string) (*domain.VerificationToken, error)
	MarkConsumed(ctx context.Context, userID, purpose, hash string) error
}

type issuer struct {
	repo     store
	ttl      map[string]time.Duration
	cooldown time.Duration
}

type IssuerDeps struct {
	TokenRepo      store
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	Cooldown       time.Duration
}

func NewIssuer(deps IssuerDeps) Issuer {
	return &issuer{
		repo: deps.TokenRepo,
		ttl: map[string]time.Duration{
			domain.PurposeEmailVerify:   deps.VerifyTokenTTL,
			domain.PurposePasswordReset: deps.ResetTokenTTL,
		},
		cooldown: deps.Cooldown,
	}
}

func (i *issuer) Issue(ctx context.Context, userID, purpose, source string) (string, error) {
	ttl, ok := i.ttl[purpose]
	if !ok {
		return "", fmt.Errorf("unknown token purpose %q: %w", purpose, domain.ErrValidation)
	}

	now := time.Now().UTC()
	if prev, err := i.repo.Get(ctx, userID, purpose); err == nil {
		if !prev.Consumed && now.Unix()-prev.IssuedAt < int64(i.cooldown.Seconds()) {
			return "", fmt.Errorf("token issued %ds ago: %w", now.Unix()-prev.IssuedAt, domain.ErrCooldown)
		}
	}

	opaque, err := pkgtoken.NewOpaque()
	if err != nil {
		return "", err
	}
	t := &domain.VerificationToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: pkgtoken.Digest(opaque),
		Source:    source,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	// Put overwrites the (user, purpose) item, so anything outstanding is
	// superseded: its hash disappears and the old opaque value stops
	// validating.
	if err := i.repo.Put(ctx, t); err != nil {
		return "", err
	}
	return opaque, nil
}

func (i *issuer) Consume(ctx context.Context, opaque, purpose string) (*domain.VerificationToken, error) {
	t, err := i.repo.GetByHash(ctx, pkgtoken.Digest(opaque))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown token: %w", domain.ErrInvalidToken)
		}
		return nil, err
	}
	if t.Purpose != purpose {
		return nil, fmt.Errorf("token purpose mismatch: %w", domain.ErrInvalidToken)
	}
	if t.Consumed {
		return t, fmt.Errorf("token already used: %w", domain.ErrTokenConsumed)
	}
	// Expiry is checked at validation time; the table TTL is only garbage
	// collection and may lag.
	if t.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("token expired: %w", domain.ErrInvalidToken)
	}
	if err := i.repo.MarkConsumed(ctx, t.UserID, t.Purpose, t.TokenHash); err != nil {
		return nil, err
	}
	t.Consumed = true
	return t, nil
}
