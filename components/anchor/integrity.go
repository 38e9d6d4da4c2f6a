package anchor

import (
	"os"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
)

type integrityLogger interface {
	LogWarn(...interface{})
	LogWarnf(string, ...interface{})
	LogInfof(string, ...interface{})
	LogErrorf(string, ...interface{})
}

// verifyBinaryIntegrity checks the running executable against expectedHash.
func verifyBinaryIntegrity(expectedHash string, log integrityLogger) error {
	execPath, err := os.Executable()
	if err != nil {
		if log != nil {
			log.LogWarnf("failed to get executable path for integrity verification: %s", err)
		}
		return nil
	}

	return verifyBinaryIntegrityWithLogger(execPath, expectedHash, log)
}

// verifyBinaryIntegrityWithLogger skips the check when expectedHash is empty
// and only reports the current hash. Otherwise a mismatch is an error.
func verifyBinaryIntegrityWithLogger(execPath string, expectedHash string, log integrityLogger) error {
	if expectedHash == "" {
		if log != nil {
			log.LogWarn("binary integrity verification skipped: ORBY_BINARY_HASH not set")
			if current, err := crypto.FingerprintFile(execPath); err != nil {
				log.LogWarnf("could not calculate binary hash: %s", err)
			} else {
				log.LogInfof("binary %s has SHA-256 %s", execPath, current)
			}
		}

		return nil
	}

	verifier := crypto.NewBinaryHashVerifier(map[string]string{
		execPath: expectedHash,
	})
	if err := verifier.VerifyBinary(execPath); err != nil {
		if log != nil {
			log.LogErrorf("binary integrity verification failed, refusing to start: %s", err)
		}
		return err
	}

	if log != nil {
		log.LogInfof("binary integrity verified: %s", execPath)
	}

	return nil
}
