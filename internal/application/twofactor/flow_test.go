package twofactor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory identityStore with the same contract as the
// DynamoDB adapter: the consume write is compare-and-set and nil update
// values clear the field.
type memStore struct {
	records map[string]*domain.Identity
}

func newMemStore(ids ...*domain.Identity) *memStore {
	m := &memStore{records: make(map[string]*domain.Identity)}
	for _, u := range ids {
		cp := *u
		m.records[u.UserID] = &cp
	}
	return m
}

func (m *memStore) Get(_ context.Context, userID string) (*domain.Identity, error) {
	u, ok := m.records[userID]
	if !ok {
		return nil, fmt.Errorf("identity %s: %w", userID, domain.ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, userID string, updates map[string]interface{}) error {
	u, ok := m.records[userID]
	if !ok {
		return fmt.Errorf("identity %s: %w", userID, domain.ErrUserNotFound)
	}
	return applyUpdates(u, updates)
}

func (m *memStore) ConditionalUpdate(_ context.Context, userID, attr, expected string, updates map[string]interface{}) (bool, error) {
	u, ok := m.records[userID]
	if !ok {
		return false, fmt.Errorf("identity %s: %w", userID, domain.ErrUserNotFound)
	}
	if attr != fieldCode {
		return false, fmt.Errorf("unexpected condition attribute %q", attr)
	}
	if u.TwoFactorCode != expected {
		return false, nil
	}
	if err := applyUpdates(u, updates); err != nil {
		return false, err
	}
	return true, nil
}

func applyUpdates(u *domain.Identity, updates map[string]interface{}) error {
	for k, v := range updates {
		switch k {
		case fieldCode:
			if v == nil {
				u.TwoFactorCode = ""
			} else {
				u.TwoFactorCode = v.(string)
			}
		case fieldExpiresAt:
			if v == nil {
				u.TwoFactorExpiresAt = 0
			} else {
				u.TwoFactorExpiresAt = v.(int64)
			}
		default:
			return fmt.Errorf("unexpected update field %q", k)
		}
	}
	return nil
}

// captureNotifier records the last delivered code.
type captureNotifier struct {
	code string
}

func (c *captureNotifier) SendTwoFactorCode(_ context.Context, _ *domain.Identity, code string) error {
	c.code = code
	return nil
}

func flowService(store *memStore, n *captureNotifier, now *time.Time) Service {
	return NewService(ServiceDeps{
		IdentityRepo: store,
		Notifier:     n,
		TTL:          5 * time.Minute,
		Now:          func() time.Time { return *now },
	})
}

func TestFlow_CodeConsumedExactlyOnce(t *testing.T) {
	store := newMemStore(&domain.Identity{UserID: "u2", Email: "ana@example.com"})
	n := &captureNotifier{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := flowService(store, n, &now)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "u2"))
	require.NotEmpty(t, n.code)

	now = now.Add(time.Minute)
	require.NoError(t, svc.Verify(ctx, "u2", n.code))

	u, err := store.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, u.TwoFactorCode)
	assert.Zero(t, u.TwoFactorExpiresAt)

	err = svc.Verify(ctx, "u2", n.code)
	require.ErrorIs(t, err, domain.ErrInvalidOrExpiredCredential)
}

func TestFlow_CodeRejectedAfterWindow(t *testing.T) {
	store := newMemStore(&domain.Identity{UserID: "u2", Email: "ana@example.com"})
	n := &captureNotifier{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := flowService(store, n, &now)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "u2"))

	// One minute past the 5-minute window.
	now = now.Add(6 * time.Minute)
	err := svc.Verify(ctx, "u2", n.code)
	require.ErrorIs(t, err, domain.ErrInvalidOrExpiredCredential)
}

func TestFlow_ReissueOverwritesPriorCode(t *testing.T) {
	store := newMemStore(&domain.Identity{UserID: "u2", Email: "ana@example.com"})
	n := &captureNotifier{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := flowService(store, n, &now)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "u2"))
	first := n.code

	require.NoError(t, svc.Issue(ctx, "u2"))

	if first != n.code {
		err := svc.Verify(ctx, "u2", first)
		require.ErrorIs(t, err, domain.ErrInvalidOrExpiredCredential)
	}
	require.NoError(t, svc.Verify(ctx, "u2", n.code))
}
