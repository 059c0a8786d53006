// internal/domain/payment/sandbox.go
package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// SandboxAuthorizer is the development-mode gateway. Behavior is driven by
// the method token so local flows can exercise every outcome without a
// provider account.
type SandboxAuthorizer struct{}

// NewSandboxAuthorizer constructs the sandbox gateway
func NewSandboxAuthorizer() *SandboxAuthorizer {
	return &SandboxAuthorizer{}
}

// Authorize approves everything except tokens carrying a "declined" or
// "pending" marker.
func (a *SandboxAuthorizer) Authorize(ctx context.Context, req AuthorizeRequest) (*Result, error) {
	switch {
	case strings.Contains(req.MethodToken, "declined"):
		return &Result{Outcome: OutcomeDeclined, DeclineReason: "sandbox_declined"}, nil
	case strings.Contains(req.MethodToken, "pending"):
		return &Result{Outcome: OutcomePending, TransactionID: sandboxTransactionID()}, nil
	default:
		return &Result{Outcome: OutcomeAuthorized, TransactionID: sandboxTransactionID()}, nil
	}
}

func sandboxTransactionID() string {
	return "sandbox_" + uuid.New().String()
}
