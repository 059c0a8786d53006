// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"github.com/your-org/marketplace-backend/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles order queries and status transitions
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	pagination.Params
	Status Status `form:"status"`
}

// GetBuyerOrder retrieves one order owned by the buyer
func (s *Service) GetBuyerOrder(ctx context.Context, buyerID, orderID uint) (*Order, error) {
	var o Order
	result := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ? AND user_id = ?", orderID, buyerID).
		First(&o)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// ListBuyerOrders retrieves the buyer's order history, newest first
func (s *Service) ListBuyerOrders(ctx context.Context, buyerID uint, req *ListRequest) ([]Order, int64, error) {
	req.Normalize()

	query := s.db.WithContext(ctx).Model(&Order{}).
		Where("user_id = ?", buyerID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(req.Offset()).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

// ListSellerOrders retrieves orders containing at least one of the seller's
// items. SellerID is denormalized on order items, so this needs no joins
// through products.
func (s *Service) ListSellerOrders(ctx context.Context, sellerID uint, req *ListRequest) ([]Order, int64, error) {
	req.Normalize()

	sub := s.db.Model(&OrderItem{}).
		Select("DISTINCT order_id").
		Where("seller_id = ?", sellerID)

	query := s.db.WithContext(ctx).Model(&Order{}).
		Where("id IN (?)", sub)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items", "seller_id = ?", sellerID).
		Order("created_at DESC").
		Offset(req.Offset()).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve seller orders: %w", err)
	}

	return orders, total, nil
}

// ListOrders retrieves all orders for admins
func (s *Service) ListOrders(ctx context.Context, req *ListRequest) ([]Order, int64, error) {
	req.Normalize()

	query := s.db.WithContext(ctx).Model(&Order{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(req.Offset()).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

// Cancel is the buyer-facing cancellation: a transition to
// cancelled_by_user, allowed only before fulfillment starts
func (s *Service) Cancel(ctx context.Context, buyerID, orderID uint, reason string) (*Order, error) {
	actor := Actor{UserID: buyerID, Role: RoleBuyer}
	comment := "Order cancelled by buyer"
	if reason != "" {
		comment = fmt.Sprintf("Order cancelled by buyer: %s", reason)
	}
	return s.Transition(ctx, actor, orderID, StatusCancelledByUser, TransitionInput{Comment: comment})
}

// Transition validates and applies an order-level status change as one
// atomic unit: the current status is re-read under lock, checked against the
// transition table, then written together with its history row.
func (s *Service) Transition(ctx context.Context, actor Actor, orderID uint, to Status, input TransitionInput) (*Order, error) {
	var updated *Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, orderID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return apperrors.NotFound("order")
			}
			return result.Error
		}

		if err := s.authorizeOrderActor(tx, actor, &o); err != nil {
			return err
		}
		if err := ValidateTransition(actor, o.Status, to, input); err != nil {
			return err
		}

		updates := map[string]interface{}{"status": to}
		now := time.Now().UTC()
		switch to {
		case StatusProcessing:
			updates["processed_at"] = now
		case StatusShipped:
			updates["shipped_at"] = now
			updates["tracking_number"] = input.TrackingNumber
			if input.ShippingCarrier != "" {
				updates["shipping_carrier"] = input.ShippingCarrier
			}
		case StatusDelivered:
			updates["delivered_at"] = now
		case StatusRefunded:
			updates["payment_status"] = PaymentStatusRefunded
			updates["refund_amount"] = input.RefundAmount
			updates["refund_reason"] = input.RefundReason
		}

		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := StatusHistory{
			OrderID:   o.ID,
			Status:    to,
			Comment:   input.Comment,
			CreatedBy: actor.UserID,
			CreatedAt: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		updated = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   to,
		"actor":    actor.Role,
	}).Info("Order status updated")

	return s.reload(ctx, updated.ID)
}

// TransitionItem validates and applies an item-level status change. Items
// follow the same status graph independently of their parent order, scoped
// to the owning seller.
func (s *Service) TransitionItem(ctx context.Context, actor Actor, orderID, itemID uint, to Status, input TransitionInput) (*OrderItem, error) {
	var updated *OrderItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item OrderItem
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND order_id = ?", itemID, orderID).
			First(&item)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return apperrors.NotFound("order item")
			}
			return result.Error
		}

		if actor.Role == RoleSeller && item.SellerID != actor.UserID {
			return apperrors.Forbidden("item belongs to another seller")
		}
		if err := ValidateTransition(actor, item.Status, to, input); err != nil {
			return err
		}

		if err := tx.Model(&item).Update("status", to).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}

		history := StatusHistory{
			OrderID:     orderID,
			OrderItemID: &item.ID,
			Status:      to,
			Comment:     input.Comment,
			CreatedBy:   actor.UserID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		item.Status = to
		updated = &item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// authorizeOrderActor checks the actor may touch this order at all
func (s *Service) authorizeOrderActor(tx *gorm.DB, actor Actor, o *Order) error {
	switch actor.Role {
	case RoleBuyer:
		if o.UserID != actor.UserID {
			return apperrors.NotFound("order")
		}
	case RoleSeller:
		var count int64
		if err := tx.Model(&OrderItem{}).
			Where("order_id = ? AND seller_id = ?", o.ID, actor.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.Forbidden("order contains none of this seller's items")
		}
	case RoleAdmin:
		// Admins see everything
	}
	return nil
}

func (s *Service) reload(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&o, orderID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}
