// Package verification fingerprints records and anchors them on the ledger,
// classifying each attempt as confirmed, submitted or failed.
package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/iotaledger/hive.go/logger"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/pkg/errors"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
)

// ErrFingerprint is returned by Anchor when the record cannot be fingerprinted.
// It is the only error Anchor ever returns.
var ErrFingerprint = errors.New("fingerprint failed")

// Anchorer publishes a digest to the ledger. *ledger.Client satisfies it.
type Anchorer interface {
	SubmitAnchor(ctx context.Context, hash crypto.Digest, assetNumber string, network ledger.Network) ledger.Attempt
}

// Events are triggered once per Anchor call, after the outcome is final.
type Events struct {
	Anchored *event.Event1[*Outcome]
}

type Orchestrator struct {
	*logger.WrappedLogger

	Events *Events

	ledger Anchorer
	now    func() time.Time
}

func NewOrchestrator(log *logger.Logger, anchorer Anchorer) *Orchestrator {
	return &Orchestrator{
		WrappedLogger: logger.NewWrappedLogger(log),
		Events: &Events{
			Anchored: event.New1[*Outcome](),
		},
		ledger: anchorer,
		now:    time.Now,
	}
}

// Fingerprint returns the canonical digest of req.
func (o *Orchestrator) Fingerprint(req *record.Request) (crypto.Digest, error) {
	digest, err := crypto.Fingerprint(req)
	if err != nil {
		return crypto.Digest{}, fmt.Errorf("%w: %w", ErrFingerprint, err)
	}

	return digest, nil
}

// Anchor fingerprints req and publishes the digest on network. Ledger
// problems never surface as errors: they yield a submitted outcome carrying
// a fallback token. Only a fingerprint failure returns an error, together
// with a failed outcome.
func (o *Orchestrator) Anchor(ctx context.Context, req *record.Request, network ledger.Network) (*Outcome, error) {
	start := o.now()
	out := &Outcome{
		AssetNumber: req.AssetNumber,
		Network:     network,
		Status:      StatusPending,
	}

	digest, err := o.Fingerprint(req)
	if err != nil {
		out.Status = StatusFailed
		out.Error = err.Error()
		o.finish(out, start)
		o.LogErrorf("anchor %s failed: %s", req.AssetNumber, err)

		return out, err
	}
	out.DataHash = digest.Hex()

	classify(out, o.ledger.SubmitAnchor(ctx, digest, req.AssetNumber, network), network)
	o.finish(out, start)

	if out.Degraded {
		o.LogDebugf("anchor %s submitted hash-only: %s", out.AssetNumber, out.DegradationReason)
	}

	return out, nil
}

func (o *Orchestrator) finish(out *Outcome, start time.Time) {
	out.LatencyMs = o.now().Sub(start).Milliseconds()
	o.Events.Anchored.Trigger(out)
}
