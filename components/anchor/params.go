package anchor

import (
	"time"

	"github.com/iotaledger/hive.go/app"
)

// ParametersAnchor contains the definition of the parameters used by the anchoring service.
type ParametersAnchor struct {
	// Network is the default Solana network anchors are published to.
	Network string `default:"devnet" usage:"the default network anchors are published to (mainnet, devnet)"`
	// ConfirmationTimeout bounds the wait for a transaction to reach confirmed commitment.
	ConfirmationTimeout time.Duration `default:"30s" usage:"the maximum time to wait for an anchor transaction to be confirmed"`
	// ConfirmationPollInterval is the delay between signature status checks.
	ConfirmationPollInterval time.Duration `default:"500ms" usage:"the interval between signature status checks"`
	// MinBalanceLamports is the signer balance below which anchoring runs hash-only.
	MinBalanceLamports uint64 `default:"5000" usage:"the minimum fee balance in lamports required to broadcast"`
	// IntegrityCheck enables the executable self-check on start.
	IntegrityCheck bool `default:"true" usage:"whether to verify the executable against ORBY_BINARY_HASH on start"`

	Platform struct {
		Name   string `default:"Orby" usage:"the platform name merged into stamped records"`
		Domain string `default:"getorby.io" usage:"the platform domain merged into stamped records"`
		Venue  string `default:"Nissan Stadium" usage:"the venue merged into stamped records, empty to omit"`
	} `name:"platform"`
}

var ParamsAnchor = &ParametersAnchor{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"anchor": ParamsAnchor,
	},
	Masked: []string{},
}
