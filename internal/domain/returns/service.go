// internal/domain/returns/service.go
package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"github.com/your-org/marketplace-backend/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles the return request workflow
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new returns service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// CreateRequest is the buyer's return submission
type CreateRequest struct {
	OrderItemID uint   `json:"order_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Reason      string `json:"reason" binding:"required"`
}

// DecisionInput carries the side data of a return transition
type DecisionInput struct {
	RejectionReason string
	RefundAmount    int64
	RefundReason    string
}

// returnableStatuses are the order states a return may be requested from
var returnableStatuses = map[order.Status]bool{
	order.StatusDelivered: true,
	order.StatusCompleted: true,
}

// returnEligible gates return creation on the parent order having been
// delivered. An item individually driven to delivered also qualifies, since
// per-item transitions never cascade back to the order.
func returnEligible(orderStatus, itemStatus order.Status) bool {
	return returnableStatuses[orderStatus] || returnableStatuses[itemStatus]
}

// validateReturnQuantity enforces the over-return guard: the requested
// quantity plus every prior non-rejected return on the item may never
// exceed the purchased quantity.
func validateReturnQuantity(requested, purchased int, alreadyRequested int64) error {
	if alreadyRequested+int64(requested) > int64(purchased) {
		return apperrors.Validation(
			"return quantity exceeds purchased quantity: %d of %d already requested",
			alreadyRequested, purchased,
		)
	}
	return nil
}

// Create opens a return request for one of the buyer's delivered order
// items. The requested quantity plus all prior non-rejected returns for the
// item may never exceed the purchased quantity.
func (s *Service) Create(ctx context.Context, buyerID, orderID uint, req *CreateRequest) (*ReturnRequest, error) {
	if req.Quantity < 1 {
		return nil, apperrors.Validation("return quantity must be at least 1")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.Validation("a reason is required to request a return")
	}

	var created *ReturnRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o order.Order
		if err := tx.Where("id = ? AND user_id = ?", orderID, buyerID).First(&o).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("order")
			}
			return err
		}

		var item order.OrderItem
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND order_id = ?", req.OrderItemID, orderID).
			First(&item)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return apperrors.NotFound("order item")
			}
			return result.Error
		}

		if !returnEligible(o.Status, item.Status) {
			return apperrors.Conflict("items can only be returned after delivery")
		}

		var returned int64
		err := tx.Model(&ReturnRequest{}).
			Select("COALESCE(SUM(quantity), 0)").
			Where("order_item_id = ? AND status <> ?", item.ID, StatusRejected).
			Scan(&returned).Error
		if err != nil {
			return fmt.Errorf("failed to sum prior returns: %w", err)
		}
		if err := validateReturnQuantity(req.Quantity, item.Quantity, returned); err != nil {
			return err
		}

		rr := &ReturnRequest{
			OrderID:     orderID,
			OrderItemID: item.ID,
			UserID:      buyerID,
			SellerID:    item.SellerID,
			Quantity:    req.Quantity,
			Reason:      req.Reason,
			Status:      StatusPendingApproval,
		}
		if err := tx.Create(rr).Error; err != nil {
			return fmt.Errorf("failed to create return request: %w", err)
		}
		created = rr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"return_id":     created.ID,
		"order_item_id": created.OrderItemID,
		"user_id":       buyerID,
	}).Info("Return request created")

	return created, nil
}

// GetBuyerReturn retrieves one return request owned by the buyer
func (s *Service) GetBuyerReturn(ctx context.Context, buyerID, returnID uint) (*ReturnRequest, error) {
	var rr ReturnRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", returnID, buyerID).
		First(&rr).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("return request")
		}
		return nil, fmt.Errorf("failed to retrieve return request: %w", err)
	}
	return &rr, nil
}

// ListBuyerReturns retrieves the buyer's return requests, newest first
func (s *Service) ListBuyerReturns(ctx context.Context, buyerID uint, params *pagination.Params) ([]ReturnRequest, int64, error) {
	return s.list(ctx, params, "user_id = ?", buyerID)
}

// ListSellerReturns retrieves the seller's incoming return queue
func (s *Service) ListSellerReturns(ctx context.Context, sellerID uint, params *pagination.Params) ([]ReturnRequest, int64, error) {
	return s.list(ctx, params, "seller_id = ?", sellerID)
}

// ListReturns retrieves all return requests for admins
func (s *Service) ListReturns(ctx context.Context, params *pagination.Params) ([]ReturnRequest, int64, error) {
	return s.list(ctx, params, "")
}

func (s *Service) list(ctx context.Context, params *pagination.Params, cond string, args ...interface{}) ([]ReturnRequest, int64, error) {
	params.Normalize()

	query := s.db.WithContext(ctx).Model(&ReturnRequest{})
	if cond != "" {
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count return requests: %w", err)
	}

	var requests []ReturnRequest
	err := query.Order("created_at DESC").
		Offset(params.Offset()).Limit(params.Limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve return requests: %w", err)
	}

	return requests, total, nil
}

// Transition moves a return request through its workflow. Only the owning
// seller and admins decide returns; buyers only open them.
func (s *Service) Transition(ctx context.Context, actor order.Actor, returnID uint, to Status, input DecisionInput) (*ReturnRequest, error) {
	if actor.Role == order.RoleBuyer {
		return nil, apperrors.Forbidden("buyers cannot decide return requests")
	}

	var updated *ReturnRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rr ReturnRequest
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rr, returnID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				return apperrors.NotFound("return request")
			}
			return result.Error
		}

		if actor.Role == order.RoleSeller && rr.SellerID != actor.UserID {
			return apperrors.Forbidden("return request belongs to another seller")
		}
		if err := validateDecision(rr.Status, to, input); err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": to}
		switch to {
		case StatusApproved:
			updates["decided_by"] = actor.UserID
			updates["decided_at"] = now
		case StatusRejected:
			updates["decided_by"] = actor.UserID
			updates["decided_at"] = now
			updates["rejection_reason"] = input.RejectionReason
		case StatusRefunded:
			updates["refund_amount"] = input.RefundAmount
			updates["refund_reason"] = input.RefundReason
			updates["refunded_at"] = now
		}

		if err := tx.Model(&rr).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update return request: %w", err)
		}

		rr.Status = to
		updated = &rr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"return_id": returnID,
		"status":    to,
		"actor":     actor.Role,
	}).Info("Return request status updated")

	return updated, nil
}

// validateDecision checks the transition edge and its required side data
func validateDecision(from, to Status, input DecisionInput) error {
	if !CanTransition(from, to) {
		return apperrors.InvalidTransition("return request", string(from), string(to))
	}
	if to == StatusRejected && strings.TrimSpace(input.RejectionReason) == "" {
		return apperrors.Validation("a reason is required to reject a return request")
	}
	if to == StatusRefunded && input.RefundAmount <= 0 {
		return apperrors.Validation("a refund amount is required to record a refund")
	}
	return nil
}
