// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/returns"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},
		&user.Address{},
		&user.PaymentMethod{},

		// Catalog domain
		&catalog.Product{},
		&catalog.ProductVariant{},

		// Cart domain
		&cart.CartItem{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},

		// Returns domain
		&returns.ReturnRequest{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_products_seller_active ON products(seller_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",
		"CREATE INDEX IF NOT EXISTS idx_product_variants_product_active ON product_variants(product_id, is_active)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items(user_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_created_at ON cart_items(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_seller_status ON order_items(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_item ON order_status_history(order_item_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_created_by ON order_status_history(created_by)",

		// Address indexes
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_type ON addresses(user_id, type)",
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default_shipping ON addresses(user_id, is_default_shipping)",
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default_billing ON addresses(user_id, is_default_billing)",

		// Payment method indexes
		"CREATE INDEX IF NOT EXISTS idx_payment_methods_user ON payment_methods(user_id)",

		// Return request indexes
		"CREATE INDEX IF NOT EXISTS idx_return_requests_user_status ON return_requests(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_return_requests_seller_status ON return_requests(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_return_requests_order_item ON return_requests(order_item_id)",
		"CREATE INDEX IF NOT EXISTS idx_return_requests_created_at ON return_requests(created_at DESC)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s - %v", index, err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}
