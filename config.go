package identity

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenTTL is the lifetime of lifecycle tokens unless a caller
// overrides it.
const DefaultTokenTTL = time.Hour

// SimpleConfig is a plain value implementation of Config.
type SimpleConfig struct {
	SigningKey string
	TokenTTL   time.Duration
	Issuer     string
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c SimpleConfig) GetTokenTTL() time.Duration {
	if c.TokenTTL == 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c SimpleConfig) GetIssuer() string {
	return c.Issuer
}

// ValidateConfig is the one fatal startup check: without a signing secret no
// lifecycle token can be minted or verified, so constructors refuse to build.
func ValidateConfig(cfg Config) error {
	if cfg == nil {
		return goerrors.New("identity config is required", goerrors.CategoryInternal)
	}

	if cfg.GetSigningKey() == "" {
		return goerrors.New("identity config is missing the signing key", goerrors.CategoryInternal).
			WithTextCode("MISSING_SIGNING_KEY")
	}

	return nil
}
