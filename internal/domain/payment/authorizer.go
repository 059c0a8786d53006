// internal/domain/payment/authorizer.go
package payment

import (
	"context"
)

// Outcome is the provider's answer to an authorization attempt. A decline is
// a normal outcome, not an error; errors are reserved for transport failures
// where the provider's answer is unknown.
type Outcome string

const (
	OutcomeAuthorized Outcome = "authorized"
	OutcomeDeclined   Outcome = "declined"
	OutcomePending    Outcome = "pending"
)

// AuthorizeRequest carries everything the provider needs to authorize a
// charge against a stored payment method token.
type AuthorizeRequest struct {
	MethodToken    string
	Amount         int64 // cents
	Currency       string
	IdempotencyKey string
}

// Result is the provider's response to a completed authorization call
type Result struct {
	Outcome       Outcome
	TransactionID string
	DeclineReason string
}

// Authorized reports whether funds were secured
func (r *Result) Authorized() bool {
	return r.Outcome == OutcomeAuthorized
}

// Authorizer is the payment gateway contract. Implementations return an
// error only when the call itself failed (timeout, network, 5xx); a declined
// charge comes back as a Result with OutcomeDeclined.
type Authorizer interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*Result, error)
}
