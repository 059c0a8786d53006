// internal/domain/user/address_service.go
package user

import (
	"strings"

	"github.com/your-org/marketplace-backend/internal/config"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"gorm.io/gorm"
)

// AddressService handles address business logic
type AddressService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, cfg *config.Config) *AddressService {
	return &AddressService{
		db:     db,
		config: cfg,
	}
}

// GetUserAddresses retrieves all addresses for a user
func (s *AddressService) GetUserAddresses(userID uint, addressType string) ([]Address, error) {
	var addresses []Address

	query := s.db.Where("user_id = ?", userID)
	if addressType != "" {
		query = query.Where("type = ?", addressType)
	}

	if err := query.Order("created_at DESC").Find(&addresses).Error; err != nil {
		return nil, err
	}

	return addresses, nil
}

// GetAddress retrieves a specific address for a user. Ownership is part of
// the lookup so another buyer's address id reads as missing.
func (s *AddressService) GetAddress(userID, addressID uint) (*Address, error) {
	var address Address
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("address")
		}
		return nil, result.Error
	}

	return &address, nil
}

// SetDefaultShipping makes the given address the user's single default
// shipping address: unset the prior default, set the new one, both inside
// one transaction.
func (s *AddressService) SetDefaultShipping(userID, addressID uint) error {
	return s.setDefault(userID, addressID, "is_default_shipping")
}

// SetDefaultBilling makes the given address the user's single default
// billing address.
func (s *AddressService) SetDefaultBilling(userID, addressID uint) error {
	return s.setDefault(userID, addressID, "is_default_billing")
}

func (s *AddressService) setDefault(userID, addressID uint, column string) error {
	if _, err := s.GetAddress(userID, addressID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Address{}).
			Where("user_id = ? AND "+column+" = ?", userID, true).
			Update(column, false).Error; err != nil {
			return err
		}
		return tx.Model(&Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update(column, true).Error
	})
}

// GetDefaultShipping returns the user's default shipping address
func (s *AddressService) GetDefaultShipping(userID uint) (*Address, error) {
	return s.getDefault(userID, "is_default_shipping")
}

// GetDefaultBilling returns the user's default billing address
func (s *AddressService) GetDefaultBilling(userID uint) (*Address, error) {
	return s.getDefault(userID, "is_default_billing")
}

func (s *AddressService) getDefault(userID uint, column string) (*Address, error) {
	var address Address
	result := s.db.Where("user_id = ? AND "+column+" = ?", userID, true).First(&address)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("default address")
		}
		return nil, result.Error
	}

	return &address, nil
}

// ValidateForCheckout validates address completeness before snapshotting
func (s *AddressService) ValidateForCheckout(address *Address) error {
	switch {
	case address.FirstName == "":
		return apperrors.Validation("first name is required")
	case address.AddressLine1 == "":
		return apperrors.Validation("address line 1 is required")
	case address.City == "":
		return apperrors.Validation("city is required")
	case address.PostalCode == "":
		return apperrors.Validation("postal code is required")
	case len(strings.TrimSpace(address.Country)) != 2:
		return apperrors.Validation("country must be an ISO 2-letter code")
	}
	return nil
}
