package repository

import (
	"testing"

	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedStoreAndProduct(t *testing.T, db *gorm.DB) (uuid.UUID, uuid.UUID) {
	t.Helper()

	store := model.Store{
		Name: "Toko Maju", OwnerName: "Budi", OwnerPhone: "0812",
		Address: "Jl. Merdeka 1", City: "Bandung", Province: "Jawa Barat",
		Type: model.StoreRetail, Status: model.StoreActive,
	}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	product := model.Product{SKU: "SKU-1", Name: "Kopi Bubuk", Price: 15000, MinStockLevel: 5}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	return store.ID, product.ID
}

func ledgerQuantity(t *testing.T, db *gorm.DB, storeID, productID uuid.UUID) int {
	t.Helper()
	var stock model.StoreStock
	if err := db.Where("store_id = ? AND product_id = ?", storeID, productID).First(&stock).Error; err != nil {
		t.Fatalf("failed to read ledger row: %v", err)
	}
	return stock.Quantity
}

func TestApplyDeltaCreatesRowLazily(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockRepo(db)
	storeID, productID := seedStoreAndProduct(t, db)

	if err := repo.ApplyDelta(db, storeID, productID, 7); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if got := ledgerQuantity(t, db, storeID, productID); got != 7 {
		t.Errorf("quantity = %d, want 7", got)
	}
}

func TestApplyDeltaIncrementAndDecrement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockRepo(db)
	storeID, productID := seedStoreAndProduct(t, db)

	if err := repo.ApplyDelta(db, storeID, productID, 10); err != nil {
		t.Fatalf("seed delta failed: %v", err)
	}
	if err := repo.ApplyDelta(db, storeID, productID, -4); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if got := ledgerQuantity(t, db, storeID, productID); got != 6 {
		t.Errorf("quantity = %d, want 6", got)
	}
}

func TestApplyDeltaRejectsOversell(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockRepo(db)
	storeID, productID := seedStoreAndProduct(t, db)

	if err := repo.ApplyDelta(db, storeID, productID, 3); err != nil {
		t.Fatalf("seed delta failed: %v", err)
	}

	err := repo.ApplyDelta(db, storeID, productID, -4)
	if err == nil {
		t.Fatal("expected oversell to be rejected")
	}
	if e, ok := apperr.As(err); !ok || e.Status != 400 {
		t.Errorf("expected conflict error, got %v", err)
	}

	// Nothing applied
	if got := ledgerQuantity(t, db, storeID, productID); got != 3 {
		t.Errorf("quantity = %d, want 3 (unchanged)", got)
	}
}

func TestApplyDeltaNegativeWithoutRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockRepo(db)
	storeID, productID := seedStoreAndProduct(t, db)

	err := repo.ApplyDelta(db, storeID, productID, -1)
	if err == nil {
		t.Fatal("expected negative delta without a ledger row to fail")
	}

	var count int64
	db.Model(&model.StoreStock{}).Count(&count)
	if count != 0 {
		t.Errorf("no ledger row should have been created, found %d", count)
	}
}

func TestLowStockCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockRepo(db)
	storeID, productID := seedStoreAndProduct(t, db)

	// Second product with a high threshold
	other := model.Product{SKU: "SKU-2", Name: "Teh Celup", Price: 8000, MinStockLevel: 20}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	// First product: 10 > 5 threshold, not low. Second: 10 <= 20, low.
	if err := repo.ApplyDelta(db, storeID, productID, 10); err != nil {
		t.Fatalf("delta failed: %v", err)
	}
	if err := repo.ApplyDelta(db, storeID, other.ID, 10); err != nil {
		t.Fatalf("delta failed: %v", err)
	}

	count, err := repo.LowStockCount(storeID)
	if err != nil {
		t.Fatalf("LowStockCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("low stock count = %d, want 1", count)
	}
}
