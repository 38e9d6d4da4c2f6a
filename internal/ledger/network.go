package ledger

import (
	"fmt"
	"net/url"
	"strings"
)

// Network selects the Solana cluster an anchor is published to.
type Network string

const (
	Mainnet Network = "mainnet"
	Devnet  Network = "devnet"
)

// ParseNetwork accepts "mainnet", "mainnet-beta" and "devnet" (case-insensitive).
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet", "mainnet-beta":
		return Mainnet, nil
	case "devnet":
		return Devnet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
	}
}

func (n Network) String() string {
	return string(n)
}

// Cluster returns the cluster name used by Solana tooling.
func (n Network) Cluster() string {
	if n == Mainnet {
		return "mainnet-beta"
	}

	return string(n)
}

// Endpoint returns the RPC provider URL for the network, authenticated with
// the given provider credential.
func (n Network) Endpoint(credential string) string {
	host := "devnet.helius-rpc.com"
	if n == Mainnet {
		host = "mainnet.helius-rpc.com"
	}

	return "https://" + host + "/?api-key=" + url.QueryEscape(credential)
}

// ExplorerURL links a real transaction signature on solscan.
func ExplorerURL(signature string, network Network) string {
	u := "https://solscan.io/tx/" + signature
	if network == Devnet {
		u += "?cluster=devnet"
	}

	return u
}
