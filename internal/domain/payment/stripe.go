// internal/domain/payment/stripe.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// stripeIntentAPI is the slice of the Stripe client the authorizer uses,
// narrowed so tests can substitute it.
type stripeIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeAuthorizer authorizes charges through Stripe Payment Intents using
// stored payment method tokens.
type StripeAuthorizer struct {
	intents stripeIntentAPI
	logger  *logrus.Logger
}

// NewStripeAuthorizer constructs the Stripe-backed authorizer
func NewStripeAuthorizer(apiKey string, logger *logrus.Logger) (*StripeAuthorizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("stripe: api key is required")
	}
	sc := client.New(apiKey, nil)
	return &StripeAuthorizer{intents: sc.PaymentIntents, logger: logger}, nil
}

// Authorize creates and confirms an off-session payment intent for the
// stored method token. Card declines come back as a declined Result; any
// other failure is a transport error the caller may retry.
func (a *StripeAuthorizer) Authorize(ctx context.Context, req AuthorizeRequest) (*Result, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.MethodToken),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}

	intent, err := a.intents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			a.logger.WithField("decline_code", stripeErr.DeclineCode).Warn("Payment declined")
			return &Result{
				Outcome:       OutcomeDeclined,
				DeclineReason: string(stripeErr.DeclineCode),
			}, nil
		}
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	result := &Result{TransactionID: intent.ID}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		result.Outcome = OutcomeAuthorized
	case stripe.PaymentIntentStatusCanceled:
		result.Outcome = OutcomeDeclined
	default:
		// requires_action and processing settle later via webhook
		result.Outcome = OutcomePending
	}

	a.logger.WithFields(logrus.Fields{
		"payment_intent": intent.ID,
		"outcome":        result.Outcome,
	}).Info("Payment authorization completed")

	return result, nil
}
