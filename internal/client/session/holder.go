// Package session owns the client-side credential: which storage tier it
// lives in, when it is cleared, and how a stored token is resolved back into
// an authoritative current user on startup.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/client/api"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/client/cache"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// Holder is the single writer of session state. It picks the storage tier at
// login time (remember me → persistent), clears both tiers defensively on
// logout, and reports every identity change to the cache coordinator before
// the new identity is visible to callers.
type Holder struct {
	client      *api.Client
	persistent  Store
	ephemeral   Store
	coordinator *cache.Coordinator

	mu      sync.RWMutex
	current *Session
}

func NewHolder(client *api.Client, persistent, ephemeral Store, coordinator *cache.Coordinator) *Holder {
	h := &Holder{
		client:      client,
		persistent:  persistent,
		ephemeral:   ephemeral,
		coordinator: coordinator,
	}
	client.SetTokenSource(h.Token)
	client.SetUnauthorizedHandler(h.handleUnauthorized)
	return h
}

// Token returns the active bearer, or "" when logged out.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return ""
	}
	return h.current.Token
}

// CurrentUser returns the cached snapshot (optimistic UI only).
func (h *Holder) CurrentUser() *domain.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil
	}
	return h.current.User
}

// Login authenticates and writes the session to exactly one tier. The other
// tier is cleared so the credential never exists in both at once.
func (h *Holder) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.User, error) {
	token, user, err := h.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess := &Session{Token: token, User: user}

	target, other := h.ephemeral, h.persistent
	if rememberMe {
		target, other = h.persistent, h.ephemeral
	}
	if err := other.Clear(ctx); err != nil {
		return nil, err
	}
	if err := target.Save(ctx, sess); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.current = sess
	h.mu.Unlock()

	// Flush stale cross-user data before anyone reads as the new identity.
	h.coordinator.OnIdentityResolved(user.UserID)
	return user, nil
}

// Logout clears both tiers unconditionally, regardless of which one was in
// use, so a stale credential cannot survive in the untouched tier.
func (h *Holder) Logout(ctx context.Context) error {
	errP := h.persistent.Clear(ctx)
	errE := h.ephemeral.Clear(ctx)

	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()

	h.coordinator.OnLogout()
	return errors.Join(errP, errE)
}

// Resume resolves "current user" on application start: probe both tiers for
// a token and, if one exists, ask the server who it belongs to. Returns
// (nil, nil) when there is no session to resume.
func (h *Holder) Resume(ctx context.Context) (*domain.User, error) {
	stored, tier, err := h.loadEither(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Token == "" {
		h.coordinator.OnIdentityResolved("")
		return nil, nil
	}

	h.mu.Lock()
	h.current = stored
	h.mu.Unlock()

	user, err := h.client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			// Expired or revoked token: the unauthorized handler already
			// cleared both tiers.
			return nil, nil
		}
		return nil, err
	}

	stored.User = user
	if err := tier.Save(ctx, stored); err != nil {
		slog.Warn("failed to refresh stored session snapshot", "err", err)
	}

	h.coordinator.OnIdentityResolved(user.UserID)
	return user, nil
}

func (h *Holder) loadEither(ctx context.Context) (*Session, Store, error) {
	if s, err := h.persistent.Load(ctx); err != nil {
		return nil, nil, err
	} else if s != nil {
		return s, h.persistent, nil
	}
	if s, err := h.ephemeral.Load(ctx); err != nil {
		return nil, nil, err
	} else if s != nil {
		return s, h.ephemeral, nil
	}
	return nil, nil, nil
}

// handleUnauthorized reacts to a 401 on an authenticated call: the bearer is
// dead, so both tiers are cleared and the identity drops to nobody.
func (h *Holder) handleUnauthorized() {
	ctx := context.Background()
	if err := h.persistent.Clear(ctx); err != nil {
		slog.Warn("failed to clear persistent session", "err", err)
	}
	if err := h.ephemeral.Clear(ctx); err != nil {
		slog.Warn("failed to clear ephemeral session", "err", err)
	}

	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()

	h.coordinator.OnIdentityResolved("")
}
