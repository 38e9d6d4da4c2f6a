package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
)

func testRequest(data map[string]any) *record.Request {
	return &record.Request{
		EntityType:  record.EntityVersion,
		EntityID:    "release-1.4.2",
		AssetNumber: "ORB-000000000007",
		Timestamp:   "2026-10-16T09:30:00.000Z",
		Data:        data,
	}
}

func TestFingerprint_KeyOrderIndependent(t *testing.T) {
	a := map[string]any{}
	a["a"] = 1
	a["b"] = 2

	b := map[string]any{}
	b["b"] = 2
	b["a"] = 1

	da, err := Fingerprint(testRequest(a))
	require.NoError(t, err)
	db, err := Fingerprint(testRequest(b))
	require.NoError(t, err)

	require.Equal(t, da, db)
	require.Len(t, da.Hex(), 64)
	require.Equal(t, strings.ToLower(da.Hex()), da.Hex())
}

func TestFingerprint_SingleValueChanges(t *testing.T) {
	base, err := Fingerprint(testRequest(map[string]any{"a": 1, "b": 2}))
	require.NoError(t, err)

	changed, err := Fingerprint(testRequest(map[string]any{"a": 1, "b": 3}))
	require.NoError(t, err)
	require.NotEqual(t, base, changed)

	nested, err := Fingerprint(testRequest(map[string]any{"a": 1, "b": map[string]any{"c": 2}}))
	require.NoError(t, err)
	nestedChanged, err := Fingerprint(testRequest(map[string]any{"a": 1, "b": map[string]any{"c": 3}}))
	require.NoError(t, err)
	require.NotEqual(t, nested, nestedChanged)

	req := testRequest(map[string]any{"a": 1, "b": 2})
	req.UserID = "user-9"
	withUser, err := Fingerprint(req)
	require.NoError(t, err)
	require.NotEqual(t, base, withUser)
}

func TestCanonicalize(t *testing.T) {
	req := testRequest(map[string]any{"z": "<tag>&", "a": true})
	canonical, err := Canonicalize(req)
	require.NoError(t, err)

	require.Equal(t,
		`{"assetNumber":"ORB-000000000007","data":{"a":true,"z":"<tag>&"},"entityId":"release-1.4.2","entityType":"version","timestamp":"2026-10-16T09:30:00.000Z"}`,
		string(canonical))

	sum := sha256.Sum256(canonical)
	d, err := Fingerprint(req)
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(sum[:]), d.Hex())
}

func TestCanonicalize_NilDataEqualsEmpty(t *testing.T) {
	dNil, err := Fingerprint(testRequest(nil))
	require.NoError(t, err)
	dEmpty, err := Fingerprint(testRequest(map[string]any{}))
	require.NoError(t, err)
	require.Equal(t, dNil, dEmpty)
}

func TestFingerprint_NotSerializable(t *testing.T) {
	_, err := Fingerprint(testRequest(map[string]any{"fn": func() {}}))
	require.ErrorIs(t, err, ErrNotSerializable)

	_, err = Fingerprint(testRequest(map[string]any{"nan": math.NaN()}))
	require.ErrorIs(t, err, ErrNotSerializable)
}

func TestFingerprintBytes(t *testing.T) {
	// sha256("abc")
	require.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		FingerprintBytes([]byte("abc")).Hex())

	d, err := FingerprintReader(strings.NewReader("abc"))
	require.NoError(t, err)
	require.Equal(t, FingerprintBytes([]byte("abc")), d)
}

func TestParseDigest(t *testing.T) {
	d := FingerprintBytes([]byte("abc"))

	parsed, err := ParseDigest(d.Hex())
	require.NoError(t, err)
	require.Equal(t, d, parsed)

	_, err = ParseDigest("abcd")
	require.Error(t, err)

	_, err = ParseDigest(strings.Repeat("z", 64))
	require.Error(t, err)
}
