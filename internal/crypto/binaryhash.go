package crypto

import (
	"crypto/subtle"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrHashMismatch is returned when a file does not match its expected fingerprint.
var ErrHashMismatch = errors.New("hash mismatch")

// FingerprintFile returns the SHA-256 fingerprint of the file at path.
func FingerprintFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	d, err := FingerprintReader(file)
	if err != nil {
		return Digest{}, errors.Wrapf(err, "hash %s", path)
	}

	return d, nil
}

// BinaryHashVerifier checks files on disk against expected fingerprints.
type BinaryHashVerifier struct {
	expectedHashes map[string]string // path → expected hex digest
}

// NewBinaryHashVerifier creates a verifier with expected hex digests keyed by path.
func NewBinaryHashVerifier(expectedHashes map[string]string) *BinaryHashVerifier {
	if expectedHashes == nil {
		expectedHashes = make(map[string]string)
	}

	return &BinaryHashVerifier{
		expectedHashes: expectedHashes,
	}
}

// VerifyBinary checks that the file at filePath matches its registered digest.
// Hex comparison is case-insensitive.
func (v *BinaryHashVerifier) VerifyBinary(filePath string) error {
	expected, ok := v.expectedHashes[filePath]
	if !ok {
		return errors.Errorf("no expected hash for %s", filePath)
	}

	actual, err := FingerprintFile(filePath)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(actual.Hex()), []byte(strings.ToLower(expected))) != 1 {
		return errors.Wrapf(ErrHashMismatch, "%s: expected %s, actual %s",
			filepath.Base(filePath), expected, actual.Hex())
	}

	return nil
}

// VerifyAllBinaries verifies every registered file and stops at the first failure.
func (v *BinaryHashVerifier) VerifyAllBinaries() error {
	for filePath := range v.expectedHashes {
		if err := v.VerifyBinary(filePath); err != nil {
			return err
		}
	}

	return nil
}

// AddExpectedHash registers or replaces the expected digest for filePath.
func (v *BinaryHashVerifier) AddExpectedHash(filePath string, expectedHash string) {
	v.expectedHashes[filePath] = expectedHash
}
