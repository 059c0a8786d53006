// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/payment"
	"github.com/your-org/marketplace-backend/internal/domain/pricing"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"github.com/your-org/marketplace-backend/internal/pkg/notify"
	"gorm.io/gorm"
)

// Service orchestrates checkout: cart resolution, pricing, payment
// authorization and atomic order creation.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	resolver    catalog.VariantResolver
	carts       *cart.Service
	addresses   *user.AddressService
	methods     *user.PaymentMethodService
	authorizer  payment.Authorizer
	shipping    pricing.ShippingCalculator
	tax         pricing.TaxCalculator
	discounts   pricing.DiscountProvider
	dispatcher  *notify.Dispatcher
	config      *config.Config
	logger      *logrus.Logger
}

// NewService wires the checkout orchestrator
func NewService(
	db *gorm.DB,
	redisClient *redis.Client,
	resolver catalog.VariantResolver,
	carts *cart.Service,
	addresses *user.AddressService,
	methods *user.PaymentMethodService,
	authorizer payment.Authorizer,
	dispatcher *notify.Dispatcher,
	cfg *config.Config,
	logger *logrus.Logger,
) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		resolver:    resolver,
		carts:       carts,
		addresses:   addresses,
		methods:     methods,
		authorizer:  authorizer,
		shipping:    pricing.FlatRateShipping(),
		tax:         pricing.ZeroTax(),
		discounts:   pricing.NoDiscount(),
		dispatcher:  dispatcher,
		config:      cfg,
		logger:      logger,
	}
}

// PlaceOrderRequest is the checkout input
type PlaceOrderRequest struct {
	CartID            string `json:"cart_id"`
	ShippingAddressID uint   `json:"shipping_address_id" binding:"required"`
	BillingAddressID  uint   `json:"billing_address_id"`
	PaymentMethodID   uint   `json:"payment_method_id" binding:"required"`
	ShippingMethod    string `json:"shipping_method"`
	Notes             string `json:"notes"`
	IdempotencyKey    string `json:"idempotency_key"`
}

// resolvedLine pairs a cart line with its authoritative catalog state
type resolvedLine struct {
	Quantity int
	Resolved catalog.ResolvedVariant
}

const idempotencyPlaceholder = "pending"

// PlaceOrder runs the full checkout. On payment decline the order is still
// persisted with status payment_failed so the buyer can retry payment; only
// transport failures and precondition violations abort without an order.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uint, req *PlaceOrderRequest) (*order.Order, error) {
	if req.IdempotencyKey != "" {
		if replay, err := s.claimIdempotencyKey(ctx, buyerID, req.IdempotencyKey); replay != nil || err != nil {
			return replay, err
		}
	}

	release, err := s.acquireCheckoutLock(ctx, buyerID, req.CartID)
	if err != nil {
		s.releaseIdempotencyKey(ctx, buyerID, req.IdempotencyKey)
		return nil, err
	}
	defer release()

	o, err := s.placeOrder(ctx, buyerID, req)
	if err != nil {
		s.releaseIdempotencyKey(ctx, buyerID, req.IdempotencyKey)
		return nil, err
	}

	if req.IdempotencyKey != "" {
		key := idempotencyKey(buyerID, req.IdempotencyKey)
		if err := s.redisClient.Set(ctx, key, strconv.FormatUint(uint64(o.ID), 10), s.config.Checkout.IdempotencyTTL).Err(); err != nil {
			s.logger.WithField("order_id", o.ID).WithError(err).Warn("Failed to record idempotency result")
		}
	}

	return o, nil
}

func (s *Service) placeOrder(ctx context.Context, buyerID uint, req *PlaceOrderRequest) (*order.Order, error) {
	// 1. Resolve the source cart: an explicit anonymous cart the caller holds
	// the token for, otherwise the buyer's own cart
	ref := cart.Ref{UserID: &buyerID}
	if req.CartID != "" {
		ref = cart.Ref{Token: req.CartID}
	}
	view, err := s.carts.View(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	// 2. Re-resolve every line against the catalog; cart display prices are
	// never billed
	lines := make([]resolvedLine, 0, len(view.Items))
	for _, item := range view.Items {
		resolved, err := s.resolver.Resolve(ctx, item.ProductID, item.ProductVariantID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.Conflict("product %q is no longer available", item.ProductName)
			}
			return nil, err
		}
		if !resolved.IsActive {
			return nil, apperrors.Conflict("product %q is no longer available", resolved.ProductName)
		}
		if resolved.Tracked && resolved.Stock < item.Quantity {
			return nil, apperrors.Conflict("insufficient stock for %q: %d available", resolved.ProductName, resolved.Stock)
		}
		lines = append(lines, resolvedLine{Quantity: item.Quantity, Resolved: *resolved})
	}

	// 3. Snapshot addresses and payment method
	shippingAddr, err := s.addresses.GetAddress(buyerID, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if err := s.addresses.ValidateForCheckout(shippingAddr); err != nil {
		return nil, err
	}
	billingAddr := shippingAddr
	if req.BillingAddressID != 0 && req.BillingAddressID != req.ShippingAddressID {
		if billingAddr, err = s.addresses.GetAddress(buyerID, req.BillingAddressID); err != nil {
			return nil, err
		}
	}
	method, err := s.methods.GetPaymentMethod(buyerID, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	// 4. Price the order
	priceLines := pricingLines(lines)
	subtotal := pricing.Subtotal(priceLines)
	totals := pricing.Compute(
		priceLines,
		s.discounts(buyerID, subtotal),
		s.shipping(req.ShippingMethod, priceLines),
		s.tax(subtotal, shippingAddr.Country),
	)

	// 5. Authorize payment before anything is written
	result, err := s.authorize(ctx, payment.AuthorizeRequest{
		MethodToken:    method.ProviderToken,
		Amount:         totals.Total,
		Currency:       s.config.Payment.Currency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	// 6. Persist order, items, history and stock decrements in one
	// transaction
	status, paymentStatus := statusForOutcome(result.Outcome)
	o := &order.Order{
		UserID:          buyerID,
		Status:          status,
		PaymentStatus:   paymentStatus,
		SubtotalAmount:  totals.Subtotal,
		DiscountAmount:  totals.Discount,
		ShippingAmount:  totals.Shipping,
		TaxAmount:       totals.Tax,
		TotalAmount:     totals.Total,
		ShippingAddress: order.SnapshotAddress(shippingAddr),
		BillingAddress:  order.SnapshotAddress(billingAddr),
		PaymentMethod:   order.SnapshotPaymentMethod(method),
		Currency:        s.config.Payment.Currency,
		Notes:           req.Notes,
		ShippingMethod:  req.ShippingMethod,
		OrderedAt:       time.Now().UTC(),
	}
	o.PaymentMethod.TransactionID = result.TransactionID
	if status == order.StatusProcessing {
		now := time.Now().UTC()
		o.ProcessedAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		o.OrderNumber = order.GenerateOrderNumber(o.ID)
		if err := tx.Model(o).Update("order_number", o.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		items := buildOrderItems(o.ID, status, lines)
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		o.Items = items

		history := order.StatusHistory{
			OrderID:   o.ID,
			Status:    status,
			Comment:   historyComment(result),
			CreatedBy: buyerID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		// Stock comes off only for authorized orders
		if status != order.StatusPaymentFailed {
			if err := decrementStock(tx, lines); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. The cart survives a failed payment so the buyer can retry
	if status != order.StatusPaymentFailed {
		if err := s.carts.Clear(ctx, ref); err != nil {
			s.logger.WithField("order_id", o.ID).WithError(err).Warn("Failed to clear cart after checkout")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"user_id":      buyerID,
		"status":       status,
		"total":        totals.Total,
	}).Info("Checkout completed")

	var buyer user.User
	if err := s.db.WithContext(ctx).First(&buyer, buyerID).Error; err == nil {
		s.dispatcher.Dispatch(notify.Message{
			Event:       notify.EventOrderPlaced,
			Recipient:   buyer.Email,
			Subject:     fmt.Sprintf("Order %s received", o.OrderNumber),
			HTMLContent: fmt.Sprintf("<p>Thanks for your order. Your order number is <strong>%s</strong>.</p>", o.OrderNumber),
			Metadata:    map[string]string{"order_number": o.OrderNumber},
		})
	}

	return o, nil
}

// authorize calls the gateway with a bounded timeout and retries exactly once
// on transport failure before giving up as unavailable.
func (s *Service) authorize(ctx context.Context, req payment.AuthorizeRequest) (*payment.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.Payment.CallTimeout)
	result, err := s.authorizer.Authorize(callCtx, req)
	cancel()
	if err == nil {
		return result, nil
	}

	s.logger.WithError(err).Warn("Payment authorization call failed, retrying")
	select {
	case <-time.After(s.config.Payment.AuthorizeRetry):
	case <-ctx.Done():
		return nil, apperrors.Unavailable("payment gateway unavailable", ctx.Err())
	}

	callCtx, cancel = context.WithTimeout(ctx, s.config.Payment.CallTimeout)
	result, err = s.authorizer.Authorize(callCtx, req)
	cancel()
	if err != nil {
		return nil, apperrors.Unavailable("payment gateway unavailable", err)
	}
	return result, nil
}

// claimIdempotencyKey reserves the key or replays the prior result. A nil,
// nil return means the key is freshly claimed and checkout should proceed.
func (s *Service) claimIdempotencyKey(ctx context.Context, buyerID uint, idemKey string) (*order.Order, error) {
	key := idempotencyKey(buyerID, idemKey)

	claimed, err := s.redisClient.SetNX(ctx, key, idempotencyPlaceholder, s.config.Checkout.IdempotencyTTL).Result()
	if err != nil {
		return nil, apperrors.Unavailable("checkout is temporarily unavailable", err)
	}
	if claimed {
		return nil, nil
	}

	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, apperrors.Unavailable("checkout is temporarily unavailable", err)
	}
	if val == idempotencyPlaceholder {
		return nil, apperrors.Conflict("a checkout with this idempotency key is already in progress")
	}

	orderID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, apperrors.Conflict("a checkout with this idempotency key is already in progress")
	}

	var o order.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, uint(orderID)).Error; err != nil {
		return nil, fmt.Errorf("failed to replay order: %w", err)
	}
	return &o, nil
}

func (s *Service) releaseIdempotencyKey(ctx context.Context, buyerID uint, idemKey string) {
	if idemKey == "" {
		return
	}
	if err := s.redisClient.Del(ctx, idempotencyKey(buyerID, idemKey)).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to release idempotency key")
	}
}

// acquireCheckoutLock takes the checkout lock so concurrent submissions of
// the same cart serialize. The lock is scoped to the cart being checked out:
// the anonymous token when one is given, the buyer otherwise.
func (s *Service) acquireCheckoutLock(ctx context.Context, buyerID uint, cartID string) (func(), error) {
	key := fmt.Sprintf("checkout:lock:%d", buyerID)
	if cartID != "" {
		key = fmt.Sprintf("checkout:lock:anon:%s", cartID)
	}
	acquired, err := s.redisClient.SetNX(ctx, key, "1", s.config.Checkout.LockTTL).Result()
	if err != nil {
		return nil, apperrors.Unavailable("checkout is temporarily unavailable", err)
	}
	if !acquired {
		return nil, apperrors.Conflict("another checkout for this cart is in progress")
	}
	return func() {
		if err := s.redisClient.Del(context.Background(), key).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to release checkout lock")
		}
	}, nil
}

func idempotencyKey(buyerID uint, key string) string {
	return fmt.Sprintf("checkout:idem:%d:%s", buyerID, key)
}

// pricingLines maps resolved cart lines to calculator input using the
// re-resolved authoritative prices
func pricingLines(lines []resolvedLine) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	for i, l := range lines {
		out[i] = pricing.Line{UnitPrice: l.Resolved.Price, Quantity: l.Quantity}
	}
	return out
}

// statusForOutcome maps the gateway's answer to initial order and payment
// statuses
func statusForOutcome(outcome payment.Outcome) (order.Status, order.PaymentStatus) {
	switch outcome {
	case payment.OutcomeAuthorized:
		return order.StatusProcessing, order.PaymentStatusPaid
	case payment.OutcomeDeclined:
		return order.StatusPaymentFailed, order.PaymentStatusFailed
	default:
		return order.StatusPendingPayment, order.PaymentStatusPending
	}
}

// buildOrderItems snapshots resolved lines into order items with the seller
// denormalized onto each row
func buildOrderItems(orderID uint, status order.Status, lines []resolvedLine) []order.OrderItem {
	items := make([]order.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = order.OrderItem{
			OrderID:           orderID,
			ProductID:         l.Resolved.ProductID,
			ProductVariantID:  l.Resolved.VariantID,
			SellerID:          l.Resolved.SellerID,
			Name:              l.Resolved.ProductName,
			VariantName:       l.Resolved.VariantName,
			VariantAttributes: l.Resolved.Attributes,
			Quantity:          l.Quantity,
			Price:             l.Resolved.Price,
			TotalPrice:        l.Resolved.Price * int64(l.Quantity),
			Status:            status,
		}
	}
	return items
}

// stockRow identifies the inventory row a purchased line draws down: the
// variant row when the line resolved through a variant, the product row
// otherwise. This mirrors where Resolve read the available stock from.
func stockRow(l resolvedLine) (interface{}, uint) {
	if l.Resolved.VariantID != nil {
		return &catalog.ProductVariant{}, *l.Resolved.VariantID
	}
	return &catalog.Product{}, l.Resolved.ProductID
}

// decrementStock takes purchased quantities off tracked inventory rows,
// guarding against concurrent checkouts draining the same stock
func decrementStock(tx *gorm.DB, lines []resolvedLine) error {
	for _, l := range lines {
		if !l.Resolved.Tracked {
			continue
		}
		model, id := stockRow(l)
		result := tx.Model(model).
			Where("id = ? AND quantity >= ?", id, l.Quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", l.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("insufficient stock for %q", l.Resolved.ProductName)
		}
	}
	return nil
}

func historyComment(result *payment.Result) string {
	switch result.Outcome {
	case payment.OutcomeAuthorized:
		return "Order placed, payment authorized"
	case payment.OutcomeDeclined:
		if result.DeclineReason != "" {
			return fmt.Sprintf("Order placed, payment declined: %s", result.DeclineReason)
		}
		return "Order placed, payment declined"
	default:
		return "Order placed, payment pending"
	}
}
