// internal/domain/payment/factory.go
package payment

import (
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
)

// NewFromConfig selects the gateway for the configured provider. Anything
// without a usable provider falls back to the sandbox so development
// environments work without credentials.
func NewFromConfig(cfg *config.Config, logger *logrus.Logger) Authorizer {
	if cfg.Payment.Provider == "stripe" && cfg.Payment.StripeKey != "" {
		authorizer, err := NewStripeAuthorizer(cfg.Payment.StripeKey, logger)
		if err == nil {
			return authorizer
		}
		logger.WithError(err).Warn("Stripe configuration invalid, using sandbox gateway")
	}
	return NewSandboxAuthorizer()
}
