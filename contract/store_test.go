package contract_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/warp/lease-tracker/contract"
	"github.com/warp/lease-tracker/contract/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) (*contract.Store, *store.Memory) {
	mem := store.NewMemory()
	return contract.Open(context.Background(), mem, zaptest.NewLogger(t)), mem
}

func lease(id string, amount string) contract.Contract {
	return contract.Contract{
		ID:             id,
		SignatureDate:  contract.NewDate(2025, time.February, 1),
		DurationMonths: 12,
		MonthlyAmount:  dec(amount),
		CreatedAt:      now,
	}
}

// =============================================================================
// UPSERT
// =============================================================================

func TestStore_Upsert_NewIDGoesToHead(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Upsert(ctx, lease("a", "100"))
	s.Upsert(ctx, lease("b", "200"))
	s.Upsert(ctx, lease("c", "300"))

	assert.Equal(t, []string{"c", "b", "a"}, ids(s.All()))
}

func TestStore_Upsert_ExistingIDReplacesInPlace(t *testing.T) {
	// GIVEN: Three contracts c, b, a
	// WHEN: b is saved again with a new amount
	// THEN: b is replaced where it was, no duplicate, order unchanged

	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Upsert(ctx, lease("a", "100"))
	s.Upsert(ctx, lease("b", "200"))
	s.Upsert(ctx, lease("c", "300"))

	_, replaced := s.Upsert(ctx, lease("b", "250"))

	assert.True(t, replaced)
	all := s.All()
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))
	assert.True(t, dec("250").Equal(all[1].MonthlyAmount))
	assert.Equal(t, 3, s.Len())
}

func TestStore_Upsert_KeepsOriginalCreatedAt(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Upsert(ctx, lease("a", "100"))

	later := lease("a", "120")
	later.CreatedAt = now.Add(48 * time.Hour)
	saved, _ := s.Upsert(ctx, later)

	assert.True(t, saved.CreatedAt.Equal(now))
	got, ok := s.FindByID("a")
	require.True(t, ok)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestStore_Upsert_RecomputesEndDate(t *testing.T) {
	s, _ := newTestStore(t)

	c := lease("a", "100")
	c.EndDate = contract.NewDate(1999, time.January, 1)
	saved, replaced := s.Upsert(context.Background(), c)

	assert.False(t, replaced)

	assert.Equal(t, "2026-02-01", saved.EndDate.String())
}

// =============================================================================
// REMOVE / FIND
// =============================================================================

func TestStore_Remove(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.Upsert(ctx, lease("a", "100"))
	s.Upsert(ctx, lease("b", "200"))

	assert.True(t, s.Remove(ctx, "a"))
	assert.Equal(t, []string{"b"}, ids(s.All()))
	assert.Equal(t, 3, mem.Saves())
}

func TestStore_Remove_UnknownIDIsNoop(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.Upsert(ctx, lease("a", "100"))

	assert.False(t, s.Remove(ctx, "missing"))
	assert.Equal(t, []string{"a"}, ids(s.All()))
	assert.Equal(t, 1, mem.Saves())
}

func TestStore_FindByID(t *testing.T) {
	s, _ := newTestStore(t)
	s.Upsert(context.Background(), lease("a", "100"))

	c, ok := s.FindByID("a")
	assert.True(t, ok)
	assert.Equal(t, "a", c.ID)

	_, ok = s.FindByID("zzz")
	assert.False(t, ok)

	_, err := s.Get("zzz")
	assert.ErrorIs(t, err, contract.ErrContractNotFound)
	assert.True(t, contract.IsNotFound(err))
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.Upsert(context.Background(), lease("a", "100"))

	snapshot := s.All()
	snapshot[0].ID = "mutated"

	assert.Equal(t, []string{"a"}, ids(s.All()))
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestStore_EveryMutationSavesFullList(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	s.Upsert(ctx, lease("a", "100"))
	s.Upsert(ctx, lease("b", "200"))
	s.Upsert(ctx, lease("a", "150"))

	assert.Equal(t, 3, mem.Saves())
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(persisted))
	assert.True(t, dec("150").Equal(persisted[1].MonthlyAmount))
}

func TestStore_ReopenRestoresOrder(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t)
	s.Upsert(ctx, lease("a", "100"))
	s.Upsert(ctx, lease("b", "200"))

	reopened := contract.Open(ctx, mem, zaptest.NewLogger(t))

	assert.Equal(t, []string{"b", "a"}, ids(reopened.All()))
}

func TestStore_CorruptDataLoadsEmpty(t *testing.T) {
	mem := store.NewMemory()
	mem.SetRaw([]byte(`{"this is": not json`))

	s := contract.Open(context.Background(), mem, zaptest.NewLogger(t))

	assert.Empty(t, s.All())
}

func TestStore_FailedSaveKeepsMemoryState(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	mem.FailSaves = true

	s.Upsert(ctx, lease("a", "100"))
	s.Upsert(ctx, lease("b", "200"))
	s.Remove(ctx, "a")

	assert.Equal(t, []string{"b"}, ids(s.All()))
	assert.Equal(t, 0, mem.Saves())
}

func TestStore_Reset(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.Upsert(ctx, lease("a", "100"))

	s.Reset(ctx, []contract.Contract{lease("x", "1"), lease("y", "2")})

	assert.Equal(t, []string{"x", "y"}, ids(s.All()))
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids(persisted))
}
