package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/iotaledger/hive.go/logger"
	"github.com/stretchr/testify/require"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
)

// fakeRPC is an in-memory ledger. Zero values describe a healthy node with a
// funded signer that confirms every transaction on the first status poll.
type fakeRPC struct {
	mu sync.Mutex

	balance     uint64
	balanceErr  error
	blockhash   solana.Hash
	sendErr     error
	statusErr   error
	statuses    []*rpc.SignatureStatusesResult
	statusCalls int
	version     string
	versionErr  error

	sent   []*solana.Transaction
	opts   []rpc.TransactionOpts
	closed bool
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{
		balance:   1_000_000,
		blockhash: solana.HashFromBytes([]byte("orby-test-blockhash-0123456789ab")),
		version:   "1.18.22",
	}
}

func (f *fakeRPC) GetBalance(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.balanceErr != nil {
		return nil, f.balanceErr
	}

	return &rpc.GetBalanceResult{Value: f.balance}, nil
}

func (f *fakeRPC) GetLatestBlockhash(_ context.Context, _ rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.blockhash, LastValidBlockHeight: 100},
	}, nil
}

func (f *fakeRPC) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.opts = append(f.opts, opts)

	return tx.Signatures[0], nil
}

func (f *fakeRPC) GetSignatureStatuses(_ context.Context, _ bool, _ ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.statuses == nil {
		return &rpc.GetSignatureStatusesResult{
			Value: []*rpc.SignatureStatusesResult{{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}},
		}, nil
	}

	// replay the scripted statuses, sticking on the last one
	i := f.statusCalls - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}

	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{f.statuses[i]}}, nil
}

func (f *fakeRPC) GetVersion(_ context.Context) (*rpc.GetVersionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.versionErr != nil {
		return nil, f.versionErr
	}

	return &rpc.GetVersionResult{SolanaCore: f.version}, nil
}

func (f *fakeRPC) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

func randomSecret(t *testing.T) (string, solana.PrivateKey) {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return key.String(), key
}

// newTestClient wires a Client to fake. dials counts endpoint dials.
func newTestClient(t *testing.T, secret, credential string, fake *fakeRPC) (*Client, *[]string) {
	t.Helper()

	log := logger.NewNopLogger()
	c := NewClient(log, crypto.NewKeyManager(log, secret), Config{
		Credential:               credential,
		ConfirmationTimeout:      100 * time.Millisecond,
		ConfirmationPollInterval: 2 * time.Millisecond,
	})

	var dials []string
	c.dial = func(endpoint string) RPC {
		dials = append(dials, endpoint)
		return fake
	}
	c.now = func() time.Time {
		return time.UnixMilli(1_700_000_000_123)
	}

	return c, &dials
}
