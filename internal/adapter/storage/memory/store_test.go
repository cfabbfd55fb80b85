package memory

import (
	"context"
	"testing"
	"time"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(b byte) domain.Identity {
	var id domain.Identity
	id[0] = b
	return id
}

func TestStore_MerchantCreateIfAbsent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner := testIdentity(1)

	m := &domain.Merchant{
		Address:  domain.MerchantAddress(owner),
		Name:     "Acme",
		Owner:    owner,
		IsActive: true,
	}
	require.NoError(t, store.Merchants().Create(ctx, m))

	err := store.Merchants().Create(ctx, m)
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)

	got, err := store.Merchants().Get(ctx, m.Address)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)

	// Absent address reads as nil, nil.
	missing, err := store.Merchants().Get(ctx, domain.MerchantAddress(testIdentity(9)))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner := testIdentity(1)

	m := &domain.Merchant{Address: domain.MerchantAddress(owner), Name: "Acme", Owner: owner}
	require.NoError(t, store.Merchants().Create(ctx, m))

	got, err := store.Merchants().Get(ctx, m.Address)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := store.Merchants().Get(ctx, m.Address)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Name)
}

func TestStore_PlanSetActive(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner := testIdentity(1)

	plan := &domain.SubscriptionPlan{
		Address:       domain.PlanAddress("Pro", owner),
		Name:          "Pro",
		Price:         100,
		BillingCycle:  30,
		IsActive:      true,
		MerchantOwner: owner,
	}
	require.NoError(t, store.Plans().Create(ctx, plan))
	require.NoError(t, store.Plans().SetActive(ctx, plan.Address, false))

	got, err := store.Plans().Get(ctx, plan.Address)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = store.Plans().SetActive(ctx, domain.PlanAddress("Other", owner), true)
	assert.Error(t, err)
}

func TestStore_SubscriptionCancel(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	subscriber := testIdentity(2)
	plan := domain.PlanAddress("Pro", testIdentity(1))

	sub := &domain.UserSubscription{
		Address:    domain.SubscriptionAddress(plan, subscriber),
		Subscriber: subscriber,
		Plan:       plan,
		IsActive:   true,
	}
	require.NoError(t, store.Subscriptions().Create(ctx, sub))

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Subscriptions().Cancel(ctx, sub.Address, at))

	got, err := store.Subscriptions().Get(ctx, sub.Address)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.CanceledAt)
	assert.Equal(t, at, *got.CanceledAt)

	err = store.Subscriptions().Cancel(ctx, domain.SubscriptionAddress(plan, testIdentity(9)), at)
	assert.Error(t, err)
}

func TestStore_AuditAppendOnly(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &domain.AuditEntry{
			ID:        uuid.New(),
			Operation: domain.AuditOpRegisterMerchant,
			Actor:     testIdentity(byte(i + 1)),
		}
		require.NoError(t, store.Audit().Create(ctx, entry))
	}

	entries := store.AuditEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, testIdentity(1), entries[0].Actor)
	assert.Equal(t, testIdentity(3), entries[2].Actor)
}
