package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
)

// ErrNotSerializable is returned when a record's data cannot be rendered
// into its canonical form (channels, functions, NaN, cyclic values, ...).
var ErrNotSerializable = errors.New("record is not serializable")

// Digest is a SHA-256 fingerprint.
type Digest [sha256.Size]byte

// Hex returns the lowercase hex encoding of the digest (64 characters).
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

// ParseDigest decodes a 64-character hex fingerprint.
func ParseDigest(s string) (Digest, error) {
	var d Digest

	b, err := hex.DecodeString(s)
	if err != nil {
		return d, errors.Wrap(err, "decode digest")
	}
	if len(b) != sha256.Size {
		return d, errors.Errorf("digest must be %d bytes, got %d", sha256.Size, len(b))
	}
	copy(d[:], b)

	return d, nil
}

// canonicalRecord fixes the serialized field order: top-level keys in
// lexicographic order. Map keys inside Data are sorted by encoding/json.
type canonicalRecord struct {
	AssetNumber string            `json:"assetNumber"`
	Data        map[string]any    `json:"data"`
	EntityID    string            `json:"entityId"`
	EntityType  record.EntityType `json:"entityType"`
	Timestamp   string            `json:"timestamp"`
	UserID      string            `json:"userId,omitempty"`
}

// Canonicalize renders req into the byte string that gets fingerprinted.
// Two requests whose Data maps hold the same pairs produce the same bytes
// regardless of insertion order; a nil and an empty Data map are equal.
func Canonicalize(req *record.Request) ([]byte, error) {
	data := req.Data
	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(canonicalRecord{
		AssetNumber: req.AssetNumber,
		Data:        data,
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
		Timestamp:   req.Timestamp,
		UserID:      req.UserID,
	}); err != nil {
		return nil, errors.Wrapf(ErrNotSerializable, "%s/%s: %v", req.EntityType, req.EntityID, err)
	}

	// Encode terminates with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Fingerprint computes the SHA-256 digest of the canonical form of req.
func Fingerprint(req *record.Request) (Digest, error) {
	canonical, err := Canonicalize(req)
	if err != nil {
		return Digest{}, err
	}

	return sha256.Sum256(canonical), nil
}

// FingerprintBytes hashes raw content, e.g. an exported document.
func FingerprintBytes(content []byte) Digest {
	return sha256.Sum256(content)
}

// FingerprintReader hashes everything read from r.
func FingerprintReader(r io.Reader) (Digest, error) {
	var d Digest

	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return d, errors.Wrap(err, "hash content")
	}
	copy(d[:], hasher.Sum(nil))

	return d, nil
}
