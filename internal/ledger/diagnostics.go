package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

// ErrNoCredential is reported by Probe when no RPC credential is configured.
var ErrNoCredential = errors.New("RPC credential not configured - hash-only mode")

// Report is the outcome of a connectivity probe. Optional fields are nil
// when the probe did not get far enough to fill them.
type Report struct {
	Network       Network `json:"network"`
	Reachable     bool    `json:"reachable"`
	HasSigner     bool    `json:"hasSigner"`
	HasCredential bool    `json:"hasCredential"`
	SignerAddress *string `json:"signerAddress,omitempty"`
	Balance       *uint64 `json:"balanceLamports,omitempty"`
	LedgerVersion *string `json:"ledgerVersion,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Probe checks connectivity to network and, when a signer is available, its
// balance. It has no side effects on the client or the ledger.
func (c *Client) Probe(ctx context.Context, network Network) Report {
	report := Report{
		Network:       network,
		HasCredential: c.HasCredential(),
	}

	if addr, ok := c.keys.PublicAddress(); ok {
		report.HasSigner = true
		report.SignerAddress = &addr
	}

	if !report.HasCredential {
		report.Error = ErrNoCredential.Error()
		return report
	}

	conn := c.conn(network)

	version, err := conn.GetVersion(ctx)
	if err != nil {
		report.Error = errors.Wrap(err, "get version").Error()
		return report
	}
	report.Reachable = true
	if version != nil {
		report.LedgerVersion = &version.SolanaCore
	}

	if pub, ok := c.keys.PublicKey(); ok {
		balance, err := conn.GetBalance(ctx, pub, rpc.CommitmentConfirmed)
		if err != nil {
			report.Error = errors.Wrap(err, "get balance").Error()
			return report
		}
		if balance != nil {
			report.Balance = &balance.Value
		}
	}

	return report
}
