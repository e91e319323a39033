package service

import (
	"testing"

	"go-retailnet/internal/access"
	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive across queries
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Store{},
		&model.StoreStaff{},
		&model.Product{},
		&model.StoreStock{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Delivery{},
		&model.DeliveryItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: email, Role: role, IsActive: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestStore(t *testing.T, db *gorm.DB, name string, status model.StoreStatus) *model.Store {
	t.Helper()
	store := &model.Store{
		Name: name, OwnerName: "Owner", OwnerPhone: "0812",
		Address: "Jl. Sudirman 10", City: "Jakarta", Province: "DKI Jakarta",
		Type: model.StoreRetail, Status: status,
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func createTestProduct(t *testing.T, db *gorm.DB, sku string, price int64, minStock int) *model.Product {
	t.Helper()
	product := &model.Product{SKU: sku, Name: "Product " + sku, Price: price, MinStockLevel: minStock}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func assignStaff(t *testing.T, db *gorm.DB, storeID, userID uuid.UUID) {
	t.Helper()
	if err := db.Create(&model.StoreStaff{StoreID: storeID, UserID: userID}).Error; err != nil {
		t.Fatalf("failed to assign staff: %v", err)
	}
}

func seedStock(t *testing.T, db *gorm.DB, storeID, productID uuid.UUID, quantity int) {
	t.Helper()
	stock := model.StoreStock{StoreID: storeID, ProductID: productID, Quantity: quantity}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatalf("failed to seed stock: %v", err)
	}
}

func stockQuantity(t *testing.T, db *gorm.DB, storeID, productID uuid.UUID) int {
	t.Helper()
	var stock model.StoreStock
	if err := db.Where("store_id = ? AND product_id = ?", storeID, productID).First(&stock).Error; err != nil {
		t.Fatalf("failed to read ledger row: %v", err)
	}
	return stock.Quantity
}

func identityFor(user *model.User) access.Identity {
	return access.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
}
