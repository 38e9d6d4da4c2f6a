package stamp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/stretchr/testify/require"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(mapdb.NewMapDB())
	require.NoError(t, err)
	store.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	return store
}

func newRequest(data map[string]any) *record.Request {
	return DefaultPlatform.PrepareRecord(record.EntityInvoice, "inv-9", "", "user-1", data,
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func TestStore_CreateAssignsSequentialNumbers(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Create(newRequest(nil))
	require.NoError(t, err)
	second, err := store.Create(newRequest(nil))
	require.NoError(t, err)

	require.Equal(t, "ORB-000000000001", first.AssetNumber)
	require.Equal(t, "ORB-000000000002", second.AssetNumber)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, verification.StatusPending, first.Status)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
}

func TestStore_CreateKeepsGivenAssetNumber(t *testing.T) {
	store := newTestStore(t)

	req := newRequest(nil)
	req.AssetNumber = "ORB-000000000500"
	st, err := store.Create(req)
	require.NoError(t, err)
	require.Equal(t, "ORB-000000000500", st.AssetNumber)

	next, err := store.Create(newRequest(nil))
	require.NoError(t, err)
	require.Equal(t, "ORB-000000000001", next.AssetNumber)
}

func TestStore_CreateRejectsInvalid(t *testing.T) {
	store := newTestStore(t)

	req := newRequest(nil)
	req.EntityType = "spaceship"
	_, err := store.Create(req)
	require.ErrorIs(t, err, ErrInvalidRequest)

	req = newRequest(nil)
	req.AssetNumber = "ORB-12"
	_, err = store.Create(req)
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := newTestStore(t).Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_StoredRecordFingerprintsIdentically(t *testing.T) {
	store := newTestStore(t)

	req := newRequest(map[string]any{
		"amount": json.Number("9007199254740993"),
		"lines":  []any{map[string]any{"sku": "A", "qty": 2}},
	})
	st, err := store.Create(req)
	require.NoError(t, err)

	want, err := crypto.Fingerprint(req)
	require.NoError(t, err)

	loaded, err := store.Get(st.ID)
	require.NoError(t, err)
	got, err := crypto.Fingerprint(loaded.Request())
	require.NoError(t, err)

	require.Equal(t, want, got)
}

func TestStore_RecordOutcome(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Create(newRequest(nil))
	require.NoError(t, err)

	out := &verification.Outcome{
		AssetNumber:       st.AssetNumber,
		Network:           ledger.Devnet,
		DataHash:          "ab",
		SignatureOrToken:  "HASH_x",
		Status:            verification.StatusSubmitted,
		DegradationReason: "no signer configured",
		Degraded:          true,
		Success:           true,
	}
	updated, err := store.RecordOutcome(st.ID, out)
	require.NoError(t, err)
	require.Equal(t, verification.StatusSubmitted, updated.Status)
	require.NotNil(t, updated.AnchoredAt)

	loaded, err := store.Get(st.ID)
	require.NoError(t, err)
	require.Equal(t, "HASH_x", loaded.SignatureOrToken)
	require.Equal(t, ledger.Devnet, loaded.Network)
	require.Equal(t, "no signer configured", loaded.DegradationReason)

	_, err = store.RecordOutcome(st.ID, out)
	require.ErrorIs(t, err, ErrAlreadyAnchored)

	_, err = store.RecordOutcome("missing", out)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RecordOutcomeRejectsPending(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Create(newRequest(nil))
	require.NoError(t, err)

	_, err = store.RecordOutcome(st.ID, &verification.Outcome{Status: verification.StatusPending})
	require.Error(t, err)
}

func TestStore_InvalidRequestDoesNotConsumeNumber(t *testing.T) {
	store := newTestStore(t)

	req := newRequest(nil)
	req.EntityID = ""
	_, err := store.Create(req)
	require.ErrorIs(t, err, ErrInvalidRequest)

	st, err := store.Create(newRequest(nil))
	require.NoError(t, err)
	require.Equal(t, "ORB-000000000001", st.AssetNumber)
}

func TestStore_CreateLeavesRequestUntouched(t *testing.T) {
	store := newTestStore(t)

	req := newRequest(nil)
	req.EntityID = ""
	_, err := store.Create(req)
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Empty(t, req.AssetNumber)

	req = newRequest(nil)
	st, err := store.Create(req)
	require.NoError(t, err)
	require.Equal(t, "ORB-000000000001", st.AssetNumber)
	require.Empty(t, req.AssetNumber)
}

func TestStore_Claim(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Create(newRequest(nil))
	require.NoError(t, err)

	claimed, err := store.Claim(st.ID)
	require.NoError(t, err)
	require.Equal(t, st.AssetNumber, claimed.AssetNumber)

	_, err = store.Claim(st.ID)
	require.ErrorIs(t, err, ErrAlreadyAnchored)

	store.Release(st.ID)
	_, err = store.Claim(st.ID)
	require.NoError(t, err)

	_, err = store.RecordOutcome(st.ID, &verification.Outcome{
		Status:           verification.StatusSubmitted,
		SignatureOrToken: "HASH_x",
		Success:          true,
	})
	require.NoError(t, err)

	_, err = store.Claim(st.ID)
	require.ErrorIs(t, err, ErrAlreadyAnchored)

	_, err = store.Claim("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RecordOutcomeKeepsError(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Create(newRequest(nil))
	require.NoError(t, err)

	updated, err := store.RecordOutcome(st.ID, &verification.Outcome{
		Status: verification.StatusFailed,
		Error:  "fingerprint record: value is not serializable",
	})
	require.NoError(t, err)
	require.Equal(t, verification.StatusFailed, updated.Status)
	require.Empty(t, updated.DegradationReason)
	require.Equal(t, "fingerprint record: value is not serializable", updated.Error)
}
