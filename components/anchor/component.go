package anchor

import (
	"context"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/kvstore"
	"go.uber.org/dig"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/config"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/stamp"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
	"github.com/cryptocreeper94-sudo/orby-sub003/pkg/daemon"
)

func init() {
	Component = &app.Component{
		Name:      "Anchor",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Provide:   provide,
		Configure: configure,
		Run:       run,
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	Secrets      config.Secrets
	Network      ledger.Network
	KeyManager   *crypto.KeyManager
	LedgerClient *ledger.Client
}

func provide(c *dig.Container) error {
	if err := c.Provide(config.LoadSecrets); err != nil {
		Component.LogPanic(err)
	}

	if err := c.Provide(func() (ledger.Network, error) {
		return ledger.ParseNetwork(ParamsAnchor.Network)
	}); err != nil {
		Component.LogPanic(err)
	}

	if err := c.Provide(func() stamp.Platform {
		return stamp.Platform{
			Name:   ParamsAnchor.Platform.Name,
			Domain: ParamsAnchor.Platform.Domain,
			Venue:  ParamsAnchor.Platform.Venue,
		}
	}); err != nil {
		Component.LogPanic(err)
	}

	if err := c.Provide(func(secrets config.Secrets) *crypto.KeyManager {
		return crypto.NewKeyManager(Component.App().NewLogger("KeyManager"), secrets.SignerSecret)
	}); err != nil {
		Component.LogPanic(err)
	}

	if err := c.Provide(func(secrets config.Secrets, km *crypto.KeyManager) *ledger.Client {
		return ledger.NewClient(Component.App().NewLogger("Ledger"), km, ledger.Config{
			Credential:               secrets.RPCCredential,
			MinBalance:               ParamsAnchor.MinBalanceLamports,
			ConfirmationTimeout:      ParamsAnchor.ConfirmationTimeout,
			ConfirmationPollInterval: ParamsAnchor.ConfirmationPollInterval,
		})
	}); err != nil {
		Component.LogPanic(err)
	}

	if err := c.Provide(func(client *ledger.Client) *verification.Orchestrator {
		return verification.NewOrchestrator(Component.App().NewLogger("Verification"), client)
	}); err != nil {
		Component.LogPanic(err)
	}

	if err := c.Provide(func(store kvstore.KVStore) (*stamp.Store, error) {
		return stamp.NewStore(store)
	}); err != nil {
		Component.LogPanic(err)
	}

	return nil
}

func configure() error {
	Component.LogInfof("Anchoring on %s (%s)", deps.Network, deps.Secrets)

	if ParamsAnchor.IntegrityCheck {
		if err := verifyBinaryIntegrity(deps.Secrets.BinaryHash, Component); err != nil {
			return err
		}
	}

	if warning := hashOnlyWarning(deps.KeyManager, deps.LedgerClient.HasCredential()); warning != "" {
		Component.LogWarn(warning)
	}

	return nil
}

// hashOnlyWarning decodes the signer eagerly and names the setting that
// forces hash-only anchoring. An undecodable secret is reported by the key
// manager itself, so it yields no warning here.
func hashOnlyWarning(km *crypto.KeyManager, hasCredential bool) string {
	if !km.Configured() {
		return "no signer configured, anchors will be hash-only"
	}
	if _, ok := km.SigningKey(); !ok {
		return ""
	}
	if !hasCredential {
		return "no RPC credential configured, anchors will be hash-only"
	}

	return ""
}

func run() error {
	if err := Component.Daemon().BackgroundWorker("Ledger connections", func(ctx context.Context) {
		report := deps.LedgerClient.Probe(ctx, deps.Network)
		if report.Reachable {
			Component.LogInfof("ledger %s reachable", deps.Network)
		} else {
			Component.LogWarnf("ledger %s not reachable: %s", deps.Network, report.Error)
		}

		<-ctx.Done()

		Component.LogInfo("Closing ledger connections ...")
		if err := deps.LedgerClient.Close(); err != nil {
			Component.LogWarnf("failed to close ledger connections: %s", err)
		}
		Component.LogInfo("Closing ledger connections ... done")
	}, daemon.PriorityLedger); err != nil {
		Component.LogPanicf("failed to start worker: %s", err)
	}

	return nil
}
