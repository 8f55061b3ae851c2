package migrations

import (
	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20250301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20250301000002_create_orders_table", &CreateOrdersTable{})
	migration.Register("20250301000003_create_reviews_table", &CreateReviewsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// Orders and their items migrate together: the item table is meaningless
// without its order.
type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}

type CreateReviewsTable struct{}

func (m *CreateReviewsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (m *CreateReviewsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reviews")
}
