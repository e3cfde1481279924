package commands

import (
	"fmt"

	"github.com/dohr-michael/ozzie-core/internal/config"
	"github.com/dohr-michael/ozzie-core/internal/secrets"
)

// loadConfigDecrypted loads a config file and, if its apiKey field is an
// ENC[age:...] envelope, decrypts it in place with the local age identity
// (spec §6.4). This lives here rather than inside config.Load itself:
// internal/secrets already imports internal/config for its path helpers
// (KeyPath builds on OzziePath), so config importing secrets back would
// be a cycle. The orchestrator command layer is the first place that
// legitimately depends on both.
func loadConfigDecrypted(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if !secrets.IsEncrypted(cfg.APIKey) {
		return cfg, nil
	}

	identity, err := secrets.LoadIdentity(secrets.KeyPath())
	if err != nil {
		return nil, fmt.Errorf("load age identity: %w", err)
	}
	plaintext, err := secrets.Decrypt(cfg.APIKey, identity)
	if err != nil {
		return nil, fmt.Errorf("decrypt api key: %w", err)
	}
	cfg.APIKey = plaintext
	return cfg, nil
}
