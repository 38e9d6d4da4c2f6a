package crypto

import (
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/iotaledger/hive.go/logger"
)

// KeyManager lazily decodes the optional ledger signing key and memoizes the
// result, including its absence, for the lifetime of the process.
//
// A missing or undecodable secret is a supported state: the service then runs
// in hash-only mode.
type KeyManager struct {
	*logger.WrappedLogger

	secret string
	decode func(string) (solana.PrivateKey, error)

	once sync.Once
	key  solana.PrivateKey
}

// NewKeyManager creates a KeyManager for a base58-encoded Ed25519 secret.
// An empty secret means no signer is configured.
func NewKeyManager(log *logger.Logger, secret string) *KeyManager {
	return &KeyManager{
		WrappedLogger: logger.NewWrappedLogger(log),
		secret:        secret,
		decode:        solana.PrivateKeyFromBase58,
	}
}

// Configured reports whether a secret was supplied, without decoding it.
func (km *KeyManager) Configured() bool {
	return km.secret != ""
}

func (km *KeyManager) load() {
	if km.secret == "" {
		return
	}

	key, err := km.decode(km.secret)
	if err != nil {
		// the decode error may quote the input, so it is not logged
		km.LogWarn("signer secret could not be decoded, anchoring will run hash-only")
		return
	}

	km.key = key
	km.LogInfof("ledger signer loaded: %s", key.PublicKey())
}

// SigningKey returns the decoded keypair, or false when none is available.
func (km *KeyManager) SigningKey() (solana.PrivateKey, bool) {
	km.once.Do(km.load)

	if km.key == nil {
		return nil, false
	}

	return km.key, true
}

// PublicKey returns the signer's public key, or false when no signer is available.
func (km *KeyManager) PublicKey() (solana.PublicKey, bool) {
	key, ok := km.SigningKey()
	if !ok {
		return solana.PublicKey{}, false
	}

	return key.PublicKey(), true
}

// PublicAddress returns the signer's base58 address, or false when no signer
// is available.
func (km *KeyManager) PublicAddress() (string, bool) {
	pub, ok := km.PublicKey()
	if !ok {
		return "", false
	}

	return pub.String(), true
}
