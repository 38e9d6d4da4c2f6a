// Package ledger publishes fingerprints to Solana through the Memo program
// and falls back to local placeholder tokens whenever that is not possible.
package ledger

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/iotaledger/hive.go/logger"
	"github.com/pkg/errors"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
)

const (
	// MemoPrefix starts every anchoring memo: ORBY:<assetNumber>:<hexDigest>.
	MemoPrefix = "ORBY"

	// DefaultMinBalance is the fee balance, in lamports, below which no
	// broadcast is attempted.
	DefaultMinBalance uint64 = 5000

	DefaultConfirmationTimeout      = 30 * time.Second
	DefaultConfirmationPollInterval = 500 * time.Millisecond
)

var (
	ErrUnknownNetwork      = errors.New("unknown network")
	ErrConfirmationTimeout = errors.New("confirmation timeout")
	ErrTransactionFailed   = errors.New("transaction failed")
)

// RPC is the subset of the Solana JSON-RPC API the client uses.
// *rpc.Client satisfies it.
type RPC interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetVersion(ctx context.Context) (*rpc.GetVersionResult, error)
}

// Config holds the ledger client settings.
type Config struct {
	// Credential is the RPC provider key. Empty forces hash-only mode.
	Credential string
	// MinBalance is the minimum signer balance in lamports.
	MinBalance uint64
	// ConfirmationTimeout bounds the wait for "confirmed" commitment.
	ConfirmationTimeout time.Duration
	// ConfirmationPollInterval is the delay between signature status checks.
	ConfirmationPollInterval time.Duration
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.MinBalance == 0 {
		cfg.MinBalance = DefaultMinBalance
	}
	if cfg.ConfirmationTimeout <= 0 {
		cfg.ConfirmationTimeout = DefaultConfirmationTimeout
	}
	if cfg.ConfirmationPollInterval <= 0 {
		cfg.ConfirmationPollInterval = DefaultConfirmationPollInterval
	}

	return cfg
}

// Client submits anchoring memos. It is safe for concurrent use; RPC
// connections are created once per network and shared by all calls.
type Client struct {
	*logger.WrappedLogger

	keys   *crypto.KeyManager
	config Config

	dial func(endpoint string) RPC
	now  func() time.Time

	mu    sync.Mutex
	conns map[Network]RPC
}

// NewClient creates a ledger client signing with the keys held by km.
func NewClient(log *logger.Logger, km *crypto.KeyManager, cfg Config) *Client {
	return &Client{
		WrappedLogger: logger.NewWrappedLogger(log),
		keys:          km,
		config:        cfg.withDefaults(),
		dial: func(endpoint string) RPC {
			return rpc.New(endpoint)
		},
		now:   time.Now,
		conns: make(map[Network]RPC),
	}
}

// HasCredential reports whether an RPC provider credential is configured.
func (c *Client) HasCredential() bool {
	return c.config.Credential != ""
}

// MinBalance returns the fee threshold in lamports.
func (c *Client) MinBalance() uint64 {
	return c.config.MinBalance
}

func (c *Client) conn(network Network) RPC {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.conns[network]
	if !ok {
		conn = c.dial(network.Endpoint(c.config.Credential))
		c.conns[network] = conn
	}

	return conn
}

// Memo returns the memo payload for an anchored hash.
func Memo(assetNumber string, hash crypto.Digest) string {
	return fmt.Sprintf("%s:%s:%s", MemoPrefix, assetNumber, hash.Hex())
}

// SubmitAnchor publishes hash for assetNumber on network. It never fails:
// when a precondition is missing or the ledger misbehaves it returns a
// degraded attempt holding a fallback token.
func (c *Client) SubmitAnchor(ctx context.Context, hash crypto.Digest, assetNumber string, network Network) Attempt {
	fallback := func(reason Reason, detail string) Attempt {
		attempt := degraded(FallbackToken(assetNumber, hash, c.now()), reason, detail)
		c.LogWarnf("anchor %s degraded to hash-only (%s): %s", assetNumber, reason, attempt.ReasonText())

		return attempt
	}

	key, ok := c.keys.SigningKey()
	if !ok {
		return fallback(ReasonNoSigner, "")
	}
	if !c.HasCredential() {
		return fallback(ReasonNoCredential, "")
	}

	conn := c.conn(network)
	payer := key.PublicKey()

	balance, err := conn.GetBalance(ctx, payer, rpc.CommitmentConfirmed)
	if err != nil {
		return fallback(ReasonLedgerError, errors.Wrap(err, "get balance").Error())
	}
	if balance == nil || balance.Value < c.config.MinBalance {
		var have uint64
		if balance != nil {
			have = balance.Value
		}

		return fallback(ReasonInsufficientBalance, fmt.Sprintf("%d < %d lamports", have, c.config.MinBalance))
	}

	sig, err := c.broadcast(ctx, conn, key, Memo(assetNumber, hash))
	if err != nil {
		return fallback(ReasonLedgerError, err.Error())
	}

	c.LogInfof("anchored %s on %s: %s", assetNumber, network, sig)

	return confirmed(RealToken(sig))
}

func (c *Client) broadcast(ctx context.Context, conn RPC, key solana.PrivateKey, memo string) (solana.Signature, error) {
	latest, err := conn.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "get latest blockhash")
	}
	if latest == nil || latest.Value == nil {
		return solana.Signature{}, errors.New("get latest blockhash: empty response")
	}

	payer := key.PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			solana.NewInstruction(solana.MemoProgramID, solana.AccountMetaSlice{}, []byte(memo)),
		},
		latest.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "build transaction")
	}

	if _, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(payer) {
			return &key
		}
		return nil
	}); err != nil {
		return solana.Signature{}, errors.Wrap(err, "sign transaction")
	}

	sig, err := conn.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "send transaction")
	}

	if err := c.awaitConfirmation(ctx, conn, sig); err != nil {
		return solana.Signature{}, err
	}

	return sig, nil
}

// awaitConfirmation polls the signature status until the transaction reaches
// "confirmed" commitment, fails, or the confirmation timeout elapses.
func (c *Client) awaitConfirmation(ctx context.Context, conn RPC, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConfirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(c.config.ConfirmationPollInterval)
	defer ticker.Stop()

	for {
		out, err := conn.GetSignatureStatuses(ctx, false, sig)
		switch {
		case err != nil && !errors.Is(err, rpc.ErrNotFound):
			if ctx.Err() != nil {
				return errors.Wrapf(ErrConfirmationTimeout, "%s", sig)
			}
			return errors.Wrap(err, "get signature status")

		case err == nil && out != nil && len(out.Value) > 0 && out.Value[0] != nil:
			status := out.Value[0]
			if status.Err != nil {
				return errors.Wrapf(ErrTransactionFailed, "%s: %v", sig, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ErrConfirmationTimeout, "%s", sig)
		case <-ticker.C:
		}
	}
}

// Close releases the RPC connections.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for network, conn := range c.conns {
		if closer, ok := conn.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(c.conns, network)
	}

	return firstErr
}
