// Package stamp keeps the registry of asset stamps: records assigned a
// sequential asset number and, once anchored, the outcome of anchoring.
package stamp

import (
	"time"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
)

// Stamp is a stored record together with its latest anchoring outcome.
type Stamp struct {
	ID          string            `json:"id"`
	AssetNumber string            `json:"assetNumber"`
	EntityType  record.EntityType `json:"entityType"`
	EntityID    string            `json:"entityId"`
	UserID      string            `json:"userId,omitempty"`
	Timestamp   string            `json:"timestamp"`
	Data        map[string]any    `json:"data"`

	Status            verification.Status `json:"status"`
	Network           ledger.Network      `json:"network,omitempty"`
	DataHash          string              `json:"dataHash,omitempty"`
	SignatureOrToken  string              `json:"signatureOrToken,omitempty"`
	ExplorerURL       string              `json:"explorerUrl,omitempty"`
	DegradationReason string              `json:"degradationReason,omitempty"`
	Error             string              `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	AnchoredAt *time.Time `json:"anchoredAt,omitempty"`
}

// Request returns the record the stamp was created from.
func (s *Stamp) Request() *record.Request {
	return &record.Request{
		EntityType:  s.EntityType,
		EntityID:    s.EntityID,
		AssetNumber: s.AssetNumber,
		UserID:      s.UserID,
		Timestamp:   s.Timestamp,
		Data:        s.Data,
	}
}

func (s *Stamp) apply(out *verification.Outcome, at time.Time) {
	s.Status = out.Status
	s.Network = out.Network
	s.DataHash = out.DataHash
	s.SignatureOrToken = out.SignatureOrToken
	s.ExplorerURL = out.ExplorerURL
	s.DegradationReason = out.DegradationReason
	s.Error = out.Error
	s.AnchoredAt = &at
}
