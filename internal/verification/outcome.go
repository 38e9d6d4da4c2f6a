package verification

import (
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
)

// Status is the lifecycle state of an anchoring outcome. Transitions are
// one-way: pending moves to submitted, confirmed or failed, and never back.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// Outcome is the result of one Anchor call. It is built once and not
// mutated afterwards.
type Outcome struct {
	AssetNumber string         `json:"assetNumber"`
	Network     ledger.Network `json:"network"`
	DataHash    string         `json:"dataHash"`
	// SignatureOrToken is empty only for failed outcomes.
	SignatureOrToken  string `json:"signatureOrToken,omitempty"`
	TokenKind         string `json:"tokenKind,omitempty"`
	Status            Status `json:"status"`
	ExplorerURL       string `json:"explorerUrl,omitempty"`
	DegradationReason string `json:"degradationReason,omitempty"`
	Degraded          bool   `json:"degraded"`
	// Error is set only on failed outcomes.
	Error      string        `json:"error,omitempty"`
	Reason     ledger.Reason `json:"-"`
	ReasonCode string        `json:"reasonCode,omitempty"`
	Success    bool          `json:"success"`
	LatencyMs  int64         `json:"latencyMs"`
}

// BuildExplorerURL links a real signature on the public explorer.
func BuildExplorerURL(signature string, network ledger.Network) string {
	return ledger.ExplorerURL(signature, network)
}

func classify(out *Outcome, attempt ledger.Attempt, network ledger.Network) {
	out.SignatureOrToken = attempt.Token.String()
	out.TokenKind = attempt.Token.Kind().String()
	out.Success = true

	if attempt.Token.IsReal() {
		out.Status = StatusConfirmed
		out.ExplorerURL = BuildExplorerURL(out.SignatureOrToken, network)

		return
	}

	out.Status = StatusSubmitted
	out.Degraded = true
	out.Reason = attempt.Reason
	out.ReasonCode = attempt.Reason.String()
	out.DegradationReason = attempt.ReasonText()
}
