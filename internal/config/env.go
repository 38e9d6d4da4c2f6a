// Package config reads the service secrets from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Secrets are read once at start. Every field is optional: a missing RPC
// credential or signer secret puts anchoring in hash-only mode.
type Secrets struct {
	// RPCCredential authenticates against the Solana RPC provider.
	RPCCredential string `env:"HELIUS_API_KEY"`
	// SignerSecret is the base58-encoded Ed25519 fee payer keypair.
	SignerSecret string `env:"PHANTOM_SECRET_KEY"`
	// BinaryHash is the expected SHA-256 of the running executable.
	BinaryHash string `env:"ORBY_BINARY_HASH"`
}

// String never prints secret material.
func (s Secrets) String() string {
	return "Secrets{RPCCredential:" + redact(s.RPCCredential) +
		" SignerSecret:" + redact(s.SignerSecret) +
		" BinaryHash:" + s.BinaryHash + "}"
}

func redact(v string) string {
	if v == "" {
		return "<unset>"
	}

	return "<set>"
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	return ParseEnvWithOptions(target, env.Options{})
}

// ParseEnvWithOptions is ParseEnv with explicit parser options.
func ParseEnvWithOptions(target any, opts env.Options) error {
	if err := env.ParseWithOptions(target, opts); err != nil {
		return errors.Wrap(err, "parse env")
	}

	return nil
}

// LoadSecrets reads Secrets from the process environment.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := ParseEnv(&s); err != nil {
		return Secrets{}, err
	}

	return s, nil
}
