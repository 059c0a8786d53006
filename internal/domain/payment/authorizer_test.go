// internal/domain/payment/authorizer_test.go
package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

type fakeIntentAPI struct {
	intent *stripe.PaymentIntent
	err    error
	params *stripe.PaymentIntentParams
}

func (f *fakeIntentAPI) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.params = params
	return f.intent, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(discard{})
	return logger
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestStripeAuthorizeSucceeded(t *testing.T) {
	api := &fakeIntentAPI{intent: &stripe.PaymentIntent{
		ID:     "pi_123",
		Status: stripe.PaymentIntentStatusSucceeded,
	}}
	a := &StripeAuthorizer{intents: api, logger: testLogger()}

	result, err := a.Authorize(context.Background(), AuthorizeRequest{
		MethodToken: "pm_abc",
		Amount:      2200,
		Currency:    "USD",
	})

	require.NoError(t, err)
	assert.True(t, result.Authorized())
	assert.Equal(t, "pi_123", result.TransactionID)
	assert.Equal(t, "usd", *api.params.Currency)
	assert.Equal(t, int64(2200), *api.params.Amount)
}

func TestStripeAuthorizeCardDecline(t *testing.T) {
	api := &fakeIntentAPI{err: &stripe.Error{
		Type:        stripe.ErrorTypeCard,
		DeclineCode: stripe.DeclineCodeInsufficientFunds,
	}}
	a := &StripeAuthorizer{intents: api, logger: testLogger()}

	result, err := a.Authorize(context.Background(), AuthorizeRequest{MethodToken: "pm_abc", Amount: 100, Currency: "USD"})

	// A decline is an answer, not a transport failure
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, result.Outcome)
	assert.Equal(t, string(stripe.DeclineCodeInsufficientFunds), result.DeclineReason)
}

func TestStripeAuthorizeTransportFailure(t *testing.T) {
	api := &fakeIntentAPI{err: errors.New("connection reset")}
	a := &StripeAuthorizer{intents: api, logger: testLogger()}

	result, err := a.Authorize(context.Background(), AuthorizeRequest{MethodToken: "pm_abc", Amount: 100, Currency: "USD"})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestStripeAuthorizePendingAction(t *testing.T) {
	api := &fakeIntentAPI{intent: &stripe.PaymentIntent{
		ID:     "pi_456",
		Status: stripe.PaymentIntentStatusRequiresAction,
	}}
	a := &StripeAuthorizer{intents: api, logger: testLogger()}

	result, err := a.Authorize(context.Background(), AuthorizeRequest{MethodToken: "pm_abc", Amount: 100, Currency: "USD"})

	require.NoError(t, err)
	assert.Equal(t, OutcomePending, result.Outcome)
}

func TestSandboxAuthorizer(t *testing.T) {
	a := NewSandboxAuthorizer()
	ctx := context.Background()

	ok, err := a.Authorize(ctx, AuthorizeRequest{MethodToken: "tok_visa"})
	require.NoError(t, err)
	assert.True(t, ok.Authorized())
	assert.NotEmpty(t, ok.TransactionID)

	declined, err := a.Authorize(ctx, AuthorizeRequest{MethodToken: "tok_declined"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, declined.Outcome)

	pending, err := a.Authorize(ctx, AuthorizeRequest{MethodToken: "tok_pending"})
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, pending.Outcome)
}
