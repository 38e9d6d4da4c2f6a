package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
)

// fallbackPrefix marks synthetic tokens. Base58 signatures never contain '_'.
const fallbackPrefix = "HASH_"

// TokenKind tells a real ledger signature from a local placeholder.
type TokenKind uint8

const (
	// TokenFallback is a locally generated placeholder; nothing reached the ledger.
	TokenFallback TokenKind = iota + 1
	// TokenReal is a confirmed transaction signature.
	TokenReal
)

func (k TokenKind) String() string {
	switch k {
	case TokenReal:
		return "real"
	case TokenFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// SignatureToken is either a real transaction signature or a fallback token.
// Classification always goes through Kind, never through the text.
type SignatureToken struct {
	kind  TokenKind
	value string
}

// RealToken wraps a transaction signature.
func RealToken(sig solana.Signature) SignatureToken {
	return SignatureToken{kind: TokenReal, value: sig.String()}
}

// FallbackToken builds a placeholder for a hash that was not published. It
// embeds the asset number, a hash prefix and the creation time in milliseconds.
func FallbackToken(assetNumber string, hash crypto.Digest, at time.Time) SignatureToken {
	return SignatureToken{
		kind:  TokenFallback,
		value: fmt.Sprintf("%s%s_%s_%d", fallbackPrefix, assetNumber, hash.Hex()[:16], at.UnixMilli()),
	}
}

func (t SignatureToken) Kind() TokenKind {
	return t.kind
}

// IsReal reports whether the token is a ledger signature.
func (t SignatureToken) IsReal() bool {
	return t.kind == TokenReal
}

func (t SignatureToken) String() string {
	return t.value
}

func (t SignatureToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}
