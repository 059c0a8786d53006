// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ref identifies a cart: either an authenticated buyer's cart (UserID set)
// or an anonymous cart addressed by its opaque token.
type Ref struct {
	UserID *uint
	Token  string
}

// IsBuyer reports whether the ref points at a buyer-owned cart
func (r Ref) IsBuyer() bool {
	return r.UserID != nil
}

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	resolver    catalog.VariantResolver
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, resolver catalog.VariantResolver, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		resolver:    resolver,
		config:      cfg,
	}
}

// LineResponse represents a cart line in API responses
type LineResponse struct {
	ItemID           string    `json:"item_id"`
	ProductID        uint      `json:"product_id"`
	ProductVariantID *uint     `json:"product_variant_id,omitempty"`
	Quantity         int       `json:"quantity"`
	Price            int64     `json:"price"`
	ProductName      string    `json:"product_name"`
	VariantName      string    `json:"variant_name,omitempty"`
	AddedAt          time.Time `json:"added_at"`
}

// Response represents a cart with its lines and display totals
type Response struct {
	CartID    string         `json:"cart_id,omitempty"`
	UserID    *uint          `json:"user_id,omitempty"`
	Items     []LineResponse `json:"items"`
	Totals    CartTotals     `json:"totals"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID        uint  `json:"product_id" binding:"required"`
	ProductVariantID *uint `json:"product_variant_id"`
	Quantity         int   `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CreateAnonymousCart creates a new anonymous cart holding one item and
// returns it with a freshly minted token
func (s *Service) CreateAnonymousCart(ctx context.Context, req *AddItemRequest) (*Response, error) {
	resolved, err := s.resolveLine(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	anonCart := &AnonymousCart{
		Token:     uuid.New().String(),
		Items:     []AnonymousCartItem{newAnonymousItem(req, resolved, now)},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.saveAnonymousCart(ctx, anonCart); err != nil {
		return nil, err
	}

	return anonymousResponse(anonCart), nil
}

// AddItem upserts a line into the cart: an existing (product, variant) pair
// merges quantities, a new pair appends
func (s *Service) AddItem(ctx context.Context, ref Ref, req *AddItemRequest) (*Response, error) {
	resolved, err := s.resolveLine(ctx, req)
	if err != nil {
		return nil, err
	}

	if ref.IsBuyer() {
		if err := s.addToBuyerCart(ctx, *ref.UserID, req, resolved); err != nil {
			return nil, err
		}
		return s.View(ctx, ref)
	}

	anonCart, err := s.getAnonymousCart(ctx, ref.Token)
	if err != nil {
		return nil, err
	}

	upsertAnonymousItem(anonCart, newAnonymousItem(req, resolved, time.Now().UTC()))
	if err := s.saveAnonymousCart(ctx, anonCart); err != nil {
		return nil, err
	}

	return anonymousResponse(anonCart), nil
}

// UpdateItemQuantity sets the quantity of an existing line. Quantities below
// one are rejected; removal is a separate operation.
func (s *Service) UpdateItemQuantity(ctx context.Context, ref Ref, itemID string, quantity int) (*Response, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	if ref.IsBuyer() {
		rowID, err := parseBuyerItemID(itemID)
		if err != nil {
			return nil, err
		}

		result := s.db.WithContext(ctx).Model(&CartItem{}).
			Where("id = ? AND user_id = ?", rowID, *ref.UserID).
			Update("quantity", quantity)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.NotFound("cart item")
		}
		return s.View(ctx, ref)
	}

	anonCart, err := s.getAnonymousCart(ctx, ref.Token)
	if err != nil {
		return nil, err
	}
	if !setAnonymousItemQuantity(anonCart, itemID, quantity) {
		return nil, apperrors.NotFound("cart item")
	}
	if err := s.saveAnonymousCart(ctx, anonCart); err != nil {
		return nil, err
	}

	return anonymousResponse(anonCart), nil
}

// RemoveItem deletes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, ref Ref, itemID string) (*Response, error) {
	if ref.IsBuyer() {
		rowID, err := parseBuyerItemID(itemID)
		if err != nil {
			return nil, err
		}

		result := s.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", rowID, *ref.UserID).
			Delete(&CartItem{})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.NotFound("cart item")
		}
		return s.View(ctx, ref)
	}

	anonCart, err := s.getAnonymousCart(ctx, ref.Token)
	if err != nil {
		return nil, err
	}
	if !removeAnonymousItem(anonCart, itemID) {
		return nil, apperrors.NotFound("cart item")
	}
	if err := s.saveAnonymousCart(ctx, anonCart); err != nil {
		return nil, err
	}

	return anonymousResponse(anonCart), nil
}

// Clear removes all lines from the cart
func (s *Service) Clear(ctx context.Context, ref Ref) error {
	if ref.IsBuyer() {
		return s.db.WithContext(ctx).
			Where("user_id = ?", *ref.UserID).
			Delete(&CartItem{}).Error
	}
	return s.redisClient.Del(ctx, anonymousCartKey(ref.Token)).Err()
}

// View returns the current cart. A buyer with no cart yet gets an empty
// representation; nothing is persisted until the first mutation.
func (s *Service) View(ctx context.Context, ref Ref) (*Response, error) {
	if ref.IsBuyer() {
		var rows []CartItem
		err := s.db.WithContext(ctx).
			Where("user_id = ?", *ref.UserID).
			Order("created_at ASC").
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve buyer cart: %w", err)
		}
		return buyerResponse(*ref.UserID, rows), nil
	}

	anonCart, err := s.getAnonymousCart(ctx, ref.Token)
	if err != nil {
		return nil, err
	}
	return anonymousResponse(anonCart), nil
}

// ItemCount returns the total quantity across all lines
func (s *Service) ItemCount(ctx context.Context, ref Ref) (int, error) {
	resp, err := s.View(ctx, ref)
	if err != nil {
		return 0, err
	}
	return resp.Totals.TotalQuantity, nil
}

// Merge folds an anonymous cart into the buyer's cart using the same
// merge-by-(product, variant) rule as AddItem, then deletes the anonymous
// cart. The upserts run in one transaction so concurrent readers of the
// buyer's cart never observe a partial merge. A second merge of the same
// token fails with a not-found on the anonymous cart, which callers treat
// as a no-op success.
func (s *Service) Merge(ctx context.Context, userID uint, token string) (*Response, error) {
	anonCart, err := s.getExistingAnonymousCart(ctx, token)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range anonCart.Items {
			if err := upsertBuyerLine(tx, userID, item.ProductID, item.ProductVariantID,
				item.Quantity, item.Price, item.ProductName, item.VariantName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to merge anonymous cart: %w", err)
	}

	if err := s.redisClient.Del(ctx, anonymousCartKey(token)).Err(); err != nil {
		// Rows are merged; a dangling anonymous cart expires via TTL
		return s.View(ctx, Ref{UserID: &userID})
	}

	return s.View(ctx, Ref{UserID: &userID})
}

// Private helper methods

func (s *Service) resolveLine(ctx context.Context, req *AddItemRequest) (*catalog.ResolvedVariant, error) {
	resolved, err := s.resolver.Resolve(ctx, req.ProductID, req.ProductVariantID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("product or variant not found")
		}
		return nil, err
	}
	if !resolved.IsActive {
		return nil, apperrors.Validation("product is no longer available")
	}
	if resolved.Tracked && resolved.Stock < req.Quantity {
		return nil, apperrors.Validation("insufficient inventory, available: %d", resolved.Stock)
	}
	return resolved, nil
}

func (s *Service) addToBuyerCart(ctx context.Context, userID uint, req *AddItemRequest, resolved *catalog.ResolvedVariant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertBuyerLine(tx, userID, req.ProductID, req.ProductVariantID,
			req.Quantity, resolved.Price, resolved.ProductName, resolved.VariantName)
	})
}

// mergeBuyerLine applies the merge-by-(product, variant) rule: an existing
// row sums quantities and refreshes its display price, no row passes the
// incoming line through as a new one.
func mergeBuyerLine(existing *CartItem, incoming CartItem) CartItem {
	if existing == nil {
		return incoming
	}
	merged := *existing
	merged.Quantity += incoming.Quantity
	merged.Price = incoming.Price
	return merged
}

// upsertBuyerLine merges quantity into an existing (user, product, variant)
// row or creates a new one. Rows are locked for update so concurrent adds of
// the same pair serialize instead of duplicating the line.
func upsertBuyerLine(tx *gorm.DB, userID, productID uint, variantID *uint, quantity int, price int64, productName, variantName string) error {
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID == nil {
		query = query.Where("product_variant_id IS NULL")
	} else {
		query = query.Where("product_variant_id = ?", *variantID)
	}

	incoming := CartItem{
		UserID:           userID,
		ProductID:        productID,
		ProductVariantID: variantID,
		Quantity:         quantity,
		Price:            price,
		ProductName:      productName,
		VariantName:      variantName,
	}

	var existing CartItem
	result := query.First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		row := mergeBuyerLine(nil, incoming)
		return tx.Create(&row).Error
	}
	if result.Error != nil {
		return result.Error
	}

	row := mergeBuyerLine(&existing, incoming)
	return tx.Save(&row).Error
}

func newAnonymousItem(req *AddItemRequest, resolved *catalog.ResolvedVariant, now time.Time) AnonymousCartItem {
	return AnonymousCartItem{
		ItemID:           uuid.New().String(),
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		Quantity:         req.Quantity,
		Price:            resolved.Price,
		ProductName:      resolved.ProductName,
		VariantName:      resolved.VariantName,
		AddedAt:          now,
	}
}

// upsertAnonymousItem merges the incoming line into the cart by
// (product, variant), appending when no line matches
func upsertAnonymousItem(anonCart *AnonymousCart, item AnonymousCartItem) {
	for i := range anonCart.Items {
		if anonCart.Items[i].sameLine(item.ProductID, item.ProductVariantID) {
			anonCart.Items[i].Quantity += item.Quantity
			anonCart.Items[i].Price = item.Price
			anonCart.UpdatedAt = item.AddedAt
			return
		}
	}
	anonCart.Items = append(anonCart.Items, item)
	anonCart.UpdatedAt = item.AddedAt
}

func setAnonymousItemQuantity(anonCart *AnonymousCart, itemID string, quantity int) bool {
	for i := range anonCart.Items {
		if anonCart.Items[i].ItemID == itemID {
			anonCart.Items[i].Quantity = quantity
			anonCart.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

func removeAnonymousItem(anonCart *AnonymousCart, itemID string) bool {
	for i := range anonCart.Items {
		if anonCart.Items[i].ItemID == itemID {
			anonCart.Items = append(anonCart.Items[:i], anonCart.Items[i+1:]...)
			anonCart.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

func anonymousCartKey(token string) string {
	return fmt.Sprintf("cart:anon:%s", token)
}

// getAnonymousCart loads the cart for the token, returning an empty cart when
// none is stored yet
func (s *Service) getAnonymousCart(ctx context.Context, token string) (*AnonymousCart, error) {
	if token == "" {
		return nil, apperrors.Validation("cart token required")
	}

	data, err := s.redisClient.Get(ctx, anonymousCartKey(token)).Result()
	if err == redis.Nil {
		now := time.Now().UTC()
		return &AnonymousCart{
			Token:     token,
			Items:     []AnonymousCartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	} else if err != nil {
		return nil, apperrors.Unavailable("cart store unreachable", err)
	}

	var anonCart AnonymousCart
	if err := json.Unmarshal([]byte(data), &anonCart); err != nil {
		return nil, err
	}
	return &anonCart, nil
}

// getExistingAnonymousCart is like getAnonymousCart but treats a missing key
// as not found; merge relies on this for idempotency
func (s *Service) getExistingAnonymousCart(ctx context.Context, token string) (*AnonymousCart, error) {
	if token == "" {
		return nil, apperrors.Validation("cart token required")
	}

	data, err := s.redisClient.Get(ctx, anonymousCartKey(token)).Result()
	if err == redis.Nil {
		return nil, apperrors.NotFound("anonymous cart")
	} else if err != nil {
		return nil, apperrors.Unavailable("cart store unreachable", err)
	}

	var anonCart AnonymousCart
	if err := json.Unmarshal([]byte(data), &anonCart); err != nil {
		return nil, err
	}
	return &anonCart, nil
}

func (s *Service) saveAnonymousCart(ctx context.Context, anonCart *AnonymousCart) error {
	data, err := json.Marshal(anonCart)
	if err != nil {
		return err
	}
	return s.redisClient.Set(ctx, anonymousCartKey(anonCart.Token), data, s.config.Checkout.AnonymousCartTTL).Err()
}

func parseBuyerItemID(itemID string) (uint, error) {
	rowID, err := strconv.ParseUint(itemID, 10, 32)
	if err != nil {
		return 0, apperrors.Validation("invalid cart item id")
	}
	return uint(rowID), nil
}

func calculateTotals(items []LineResponse) CartTotals {
	var totals CartTotals
	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Price * int64(item.Quantity)
	}
	return totals
}

func buyerResponse(userID uint, rows []CartItem) *Response {
	items := make([]LineResponse, len(rows))
	for i, row := range rows {
		items[i] = LineResponse{
			ItemID:           strconv.FormatUint(uint64(row.ID), 10),
			ProductID:        row.ProductID,
			ProductVariantID: row.ProductVariantID,
			Quantity:         row.Quantity,
			Price:            row.Price,
			ProductName:      row.ProductName,
			VariantName:      row.VariantName,
			AddedAt:          row.CreatedAt,
		}
	}

	resp := &Response{
		UserID: &userID,
		Items:  items,
		Totals: calculateTotals(items),
	}
	if len(rows) > 0 {
		resp.CreatedAt = rows[0].CreatedAt
		resp.UpdatedAt = rows[len(rows)-1].UpdatedAt
	} else {
		now := time.Now().UTC()
		resp.CreatedAt = now
		resp.UpdatedAt = now
	}
	return resp
}

func anonymousResponse(anonCart *AnonymousCart) *Response {
	items := make([]LineResponse, len(anonCart.Items))
	for i, item := range anonCart.Items {
		items[i] = LineResponse{
			ItemID:           item.ItemID,
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			Price:            item.Price,
			ProductName:      item.ProductName,
			VariantName:      item.VariantName,
			AddedAt:          item.AddedAt,
		}
	}

	return &Response{
		CartID:    anonCart.Token,
		Items:     items,
		Totals:    calculateTotals(items),
		CreatedAt: anonCart.CreatedAt,
		UpdatedAt: anonCart.UpdatedAt,
	}
}
