// internal/domain/user/payment_method_service.go
package user

import (
	"github.com/your-org/marketplace-backend/internal/config"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"gorm.io/gorm"
)

// PaymentMethodService resolves stored payment method references
type PaymentMethodService struct {
	db     *gorm.DB
	config *config.Config
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(db *gorm.DB, cfg *config.Config) *PaymentMethodService {
	return &PaymentMethodService{
		db:     db,
		config: cfg,
	}
}

// GetPaymentMethod retrieves a payment method owned by the user
func (s *PaymentMethodService) GetPaymentMethod(userID, paymentMethodID uint) (*PaymentMethod, error) {
	var method PaymentMethod
	result := s.db.Where("id = ? AND user_id = ?", paymentMethodID, userID).First(&method)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("payment method")
		}
		return nil, result.Error
	}

	return &method, nil
}

// GetUserPaymentMethods lists the user's stored payment methods
func (s *PaymentMethodService) GetUserPaymentMethods(userID uint) ([]PaymentMethod, error) {
	var methods []PaymentMethod
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&methods).Error
	return methods, err
}
