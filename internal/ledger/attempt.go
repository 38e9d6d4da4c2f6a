package ledger

import (
	"fmt"
)

// Reason explains why an anchor attempt was degraded to a fallback token.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonNoSigner
	ReasonNoCredential
	ReasonInsufficientBalance
	ReasonLedgerError
)

// String returns a stable machine-readable code, used as a metric label.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoSigner:
		return "no_signer"
	case ReasonNoCredential:
		return "no_credential"
	case ReasonInsufficientBalance:
		return "insufficient_balance"
	case ReasonLedgerError:
		return "ledger_error"
	default:
		return "unknown"
	}
}

// Attempt is the result of SubmitAnchor. It never carries a hard failure:
// either Token is real, or Degraded is set and Reason says why.
type Attempt struct {
	Token    SignatureToken
	Degraded bool
	Reason   Reason
	// Detail holds the underlying error message or balance figures.
	Detail string
}

// ReasonText is the human-readable degradation note, empty for real anchors.
func (a Attempt) ReasonText() string {
	var text string
	switch a.Reason {
	case ReasonNone:
		return ""
	case ReasonNoSigner:
		text = "no signer configured"
	case ReasonNoCredential:
		text = "no RPC credential"
	case ReasonInsufficientBalance:
		text = "insufficient balance"
	case ReasonLedgerError:
		text = "ledger error"
	}

	if a.Detail == "" {
		return text
	}
	if a.Reason == ReasonLedgerError {
		return a.Detail
	}

	return fmt.Sprintf("%s: %s", text, a.Detail)
}

func confirmed(sig SignatureToken) Attempt {
	return Attempt{Token: sig}
}

func degraded(token SignatureToken, reason Reason, detail string) Attempt {
	return Attempt{
		Token:    token,
		Degraded: true,
		Reason:   reason,
		Detail:   detail,
	}
}
