package providers

import (
	"github.com/samber/do/v2"

	"github.com/hondana-app/hondana-server/internal/auth"
	"github.com/hondana-app/hondana-server/internal/config"
	"github.com/hondana-app/hondana-server/internal/logger"
)

// VerifierHandle carries the token verifier; Verifier is nil when no key is
// configured, which leaves every request anonymous.
type VerifierHandle struct {
	Verifier *auth.Verifier
}

// ProvideVerifier provides the PASETO access token verifier.
func ProvideVerifier(i do.Injector) (*VerifierHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.AccessTokenKey == "" {
		log.Warn("No access token key configured; bearer auth is disabled")
		return &VerifierHandle{}, nil
	}

	verifier, err := auth.NewVerifier(cfg.Auth.AccessTokenKey)
	if err != nil {
		return nil, err
	}

	return &VerifierHandle{Verifier: verifier}, nil
}
