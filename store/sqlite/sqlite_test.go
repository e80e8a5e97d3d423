package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/warp/lease-tracker/contract"
	"github.com/warp/lease-tracker/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// damagedStore saves one contract to a file database, rewrites its row
// behind the store's back with update, then reopens the store.
func damagedStore(t *testing.T, update string) *sqlite.Store {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	path := filepath.Join(t.TempDir(), "leases.db")

	store, err := sqlite.New(path, logger)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, []contract.Contract{fullContract("a")}))
	require.NoError(t, store.Close())

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, update)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store, err = sqlite.New(path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var created = time.Date(2025, time.March, 3, 10, 30, 0, 0, time.UTC)

func fullContract(id string) contract.Contract {
	return contract.FromForm(contract.Form{
		ID:                       id,
		ContractName:             "Local " + id,
		SignatureDate:            "2025-03-01",
		DurationMonths:           "24",
		AvisoDate:                "2026-12-01",
		MonthlyAmount:            "1850.25",
		EscalationFixedIncrement: "12.5",
		EscalationMaxMonths:      "10",
		RegimeAmount:             "1950",
		File:                     &contract.FileRef{Name: id + ".pdf", Size: 4096, URL: "https://example.com/" + id + ".pdf"},
	}, created)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestStore_EmptyDatabaseLoadsNothing(t *testing.T) {
	store := newTestStore(t)

	contracts, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestStore_SaveThenLoad_PreservesFieldsAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bare := contract.FromForm(contract.Form{ID: "bare"}, created)
	want := []contract.Contract{fullContract("c"), bare, fullContract("a")}

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].ContractName, got[i].ContractName)
		assert.True(t, want[i].SignatureDate.Equal(got[i].SignatureDate))
		assert.True(t, want[i].AvisoDate.Equal(got[i].AvisoDate))
		assert.True(t, want[i].EndDate.Equal(got[i].EndDate))
		assert.Equal(t, want[i].DurationMonths, got[i].DurationMonths)
		assert.True(t, want[i].MonthlyAmount.Equal(got[i].MonthlyAmount))
		assert.True(t, want[i].EscalationFixedIncrement.Equal(got[i].EscalationFixedIncrement))
		assert.Equal(t, want[i].EscalationMaxMonths, got[i].EscalationMaxMonths)
		assert.True(t, want[i].RegimeAmount.Equal(got[i].RegimeAmount))
		assert.Equal(t, want[i].File, got[i].File)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
	assert.Nil(t, got[1].File)
	assert.True(t, got[1].SignatureDate.IsZero())
}

func TestStore_SaveOverwritesWholeCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []contract.Contract{fullContract("a"), fullContract("b")}))
	require.NoError(t, store.Save(ctx, []contract.Contract{fullContract("b")}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_DuplicateIDsRollBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []contract.Contract{fullContract("a")}))

	err := store.Save(ctx, []contract.Contract{fullContract("x"), fullContract("x")})
	assert.Error(t, err)

	// Previous list survives the failed overwrite
	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestStore_DamagedRowFailsLoad(t *testing.T) {
	store := damagedStore(t, "UPDATE contracts SET monthly_amount = 'lots'")

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

// =============================================================================
// WITH CONTRACT STORE
// =============================================================================

func TestStore_BacksContractStore(t *testing.T) {
	// GIVEN: A file database used by a contract store
	// WHEN: The process restarts and reopens the database
	// THEN: The list comes back in the same order

	path := filepath.Join(t.TempDir(), "leases.db")
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	db, err := sqlite.New(path, logger)
	require.NoError(t, err)
	contracts := contract.Open(ctx, db, logger)
	contracts.Upsert(ctx, fullContract("first"))
	contracts.Upsert(ctx, fullContract("second"))
	contracts.Remove(ctx, "first")
	contracts.Upsert(ctx, fullContract("third"))
	require.NoError(t, db.Close())

	reopened, err := sqlite.New(path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	restored := contract.Open(ctx, reopened, logger)
	all := restored.All()
	require.Len(t, all, 2)
	assert.Equal(t, "third", all[0].ID)
	assert.Equal(t, "second", all[1].ID)
	assert.True(t, decimal.RequireFromString("1850.25").Equal(all[0].MonthlyAmount))
}

func TestStore_DamagedDatabaseOpensEmpty(t *testing.T) {
	db := damagedStore(t, "UPDATE contracts SET aviso_date = '31/12/2026'")

	contracts := contract.Open(context.Background(), db, zaptest.NewLogger(t))

	assert.Empty(t, contracts.All())
}
