package service

import (
	"testing"

	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"

	"gorm.io/gorm"
)

func newSaleService(db *gorm.DB) SaleService {
	return NewSaleService(
		repository.NewStoreRepo(db),
		repository.NewSaleRepo(db),
		repository.NewStockRepo(db),
		db,
		nil,
	)
}

func TestRecordSaleComputesTotalAndDecrementsLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	sales := createTestUser(t, db, "sales@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	product := createTestProduct(t, db, "X1", 10, 5)
	assignStaff(t, db, store.ID, sales.ID)
	seedStock(t, db, store.ID, product.ID, 10)

	sale, err := svc.RecordSale(identityFor(sales), store.ID, &RecordSaleRequest{
		Items: []SaleLine{{ProductID: product.ID, Quantity: 3, Price: 10}},
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	if sale.Total != 30 {
		t.Errorf("total = %d, want 30", sale.Total)
	}
	if sale.Status != model.SaleCompleted {
		t.Errorf("status = %s, want COMPLETED", sale.Status)
	}
	if len(sale.Items) != 1 || sale.Items[0].Price != 10 || sale.Items[0].Quantity != 3 {
		t.Errorf("unexpected items: %+v", sale.Items)
	}
	if got := stockQuantity(t, db, store.ID, product.ID); got != 7 {
		t.Errorf("ledger quantity = %d, want 7", got)
	}
}

func TestRecordSaleMultiLineTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	sales := createTestUser(t, db, "sales@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	p1 := createTestProduct(t, db, "A1", 1000, 5)
	p2 := createTestProduct(t, db, "A2", 500, 5)
	assignStaff(t, db, store.ID, sales.ID)
	seedStock(t, db, store.ID, p1.ID, 10)
	seedStock(t, db, store.ID, p2.ID, 10)

	sale, err := svc.RecordSale(identityFor(sales), store.ID, &RecordSaleRequest{
		Items: []SaleLine{
			{ProductID: p1.ID, Quantity: 2, Price: 1000},
			{ProductID: p2.ID, Quantity: 4, Price: 450}, // negotiated below list price
		},
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	if want := int64(2*1000 + 4*450); sale.Total != want {
		t.Errorf("total = %d, want %d", sale.Total, want)
	}
	// Snapshotted price, not the product's list price
	if sale.Items[1].Price != 450 {
		t.Errorf("item price = %d, want snapshot 450", sale.Items[1].Price)
	}
}

func TestRecordSaleInsufficientStockIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	sales := createTestUser(t, db, "sales@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	p1 := createTestProduct(t, db, "A1", 1000, 5)
	p2 := createTestProduct(t, db, "A2", 500, 5)
	assignStaff(t, db, store.ID, sales.ID)
	seedStock(t, db, store.ID, p1.ID, 10)
	seedStock(t, db, store.ID, p2.ID, 2)

	_, err := svc.RecordSale(identityFor(sales), store.ID, &RecordSaleRequest{
		Items: []SaleLine{
			{ProductID: p1.ID, Quantity: 3, Price: 1000},
			{ProductID: p2.ID, Quantity: 5, Price: 500}, // oversell
		},
	})
	if err == nil {
		t.Fatal("expected the sale to be rejected")
	}

	// No partial writes: both ledger rows and the sale tables untouched
	if got := stockQuantity(t, db, store.ID, p1.ID); got != 10 {
		t.Errorf("p1 quantity = %d, want 10 (rolled back)", got)
	}
	if got := stockQuantity(t, db, store.ID, p2.ID); got != 2 {
		t.Errorf("p2 quantity = %d, want 2 (rolled back)", got)
	}
	var saleCount, itemCount int64
	db.Model(&model.Sale{}).Count(&saleCount)
	db.Model(&model.SaleItem{}).Count(&itemCount)
	if saleCount != 0 || itemCount != 0 {
		t.Errorf("sale tables not empty: %d sales, %d items", saleCount, itemCount)
	}
}

func TestRecordSaleWithoutPriorStockRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	sales := createTestUser(t, db, "sales@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	product := createTestProduct(t, db, "X1", 10, 5)
	assignStaff(t, db, store.ID, sales.ID)
	// no stock seeded

	_, err := svc.RecordSale(identityFor(sales), store.ID, &RecordSaleRequest{
		Items: []SaleLine{{ProductID: product.ID, Quantity: 1, Price: 10}},
	})
	if err == nil {
		t.Fatal("expected sale against unseeded stock to be rejected")
	}
}

func TestRecordSaleAccessRules(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	unassigned := createTestUser(t, db, "other@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	product := createTestProduct(t, db, "X1", 10, 5)
	seedStock(t, db, store.ID, product.ID, 10)

	req := &RecordSaleRequest{Items: []SaleLine{{ProductID: product.ID, Quantity: 1, Price: 10}}}

	if _, err := svc.RecordSale(identityFor(admin), store.ID, req); err == nil {
		t.Error("admins must not record sales")
	}
	if _, err := svc.RecordSale(identityFor(unassigned), store.ID, req); err == nil {
		t.Error("unassigned sales users must not record sales")
	}
}

func TestRecordSaleInactiveStoreRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	sales := createTestUser(t, db, "sales@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko B", model.StorePendingApproval)
	product := createTestProduct(t, db, "X1", 10, 5)
	assignStaff(t, db, store.ID, sales.ID)
	seedStock(t, db, store.ID, product.ID, 10)

	_, err := svc.RecordSale(identityFor(sales), store.ID, &RecordSaleRequest{
		Items: []SaleLine{{ProductID: product.ID, Quantity: 1, Price: 10}},
	})
	if err == nil {
		t.Fatal("expected sale against a non-active store to be rejected")
	}
}

func TestGetStoreSalesScopedToAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	alice := createTestUser(t, db, "alice@example.com", model.RoleSales)
	bob := createTestUser(t, db, "bob@example.com", model.RoleSales)
	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	product := createTestProduct(t, db, "X1", 10, 5)
	assignStaff(t, db, store.ID, alice.ID)
	assignStaff(t, db, store.ID, bob.ID)
	seedStock(t, db, store.ID, product.ID, 100)

	req := &RecordSaleRequest{Items: []SaleLine{{ProductID: product.ID, Quantity: 1, Price: 10}}}
	if _, err := svc.RecordSale(identityFor(alice), store.ID, req); err != nil {
		t.Fatalf("alice sale failed: %v", err)
	}
	if _, err := svc.RecordSale(identityFor(bob), store.ID, req); err != nil {
		t.Fatalf("bob sale failed: %v", err)
	}

	aliceSales, err := svc.GetStoreSales(identityFor(alice), store.ID)
	if err != nil {
		t.Fatalf("GetStoreSales failed: %v", err)
	}
	if len(aliceSales) != 1 {
		t.Errorf("alice sees %d sales, want 1 (own rows only)", len(aliceSales))
	}

	adminSales, err := svc.GetStoreSales(identityFor(admin), store.ID)
	if err != nil {
		t.Fatalf("GetStoreSales failed: %v", err)
	}
	if len(adminSales) != 2 {
		t.Errorf("admin sees %d sales, want 2", len(adminSales))
	}
}

func TestGetSalesAcrossStores(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	alice := createTestUser(t, db, "alice@example.com", model.RoleSales)
	bob := createTestUser(t, db, "bob@example.com", model.RoleSales)
	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	s1 := createTestStore(t, db, "Toko A", model.StoreActive)
	s2 := createTestStore(t, db, "Toko B", model.StoreActive)
	product := createTestProduct(t, db, "X1", 10, 5)
	assignStaff(t, db, s1.ID, alice.ID)
	assignStaff(t, db, s2.ID, alice.ID)
	assignStaff(t, db, s1.ID, bob.ID)
	seedStock(t, db, s1.ID, product.ID, 100)
	seedStock(t, db, s2.ID, product.ID, 100)

	req := &RecordSaleRequest{Items: []SaleLine{{ProductID: product.ID, Quantity: 1, Price: 10}}}
	if _, err := svc.RecordSale(identityFor(alice), s1.ID, req); err != nil {
		t.Fatalf("alice sale failed: %v", err)
	}
	if _, err := svc.RecordSale(identityFor(alice), s2.ID, req); err != nil {
		t.Fatalf("alice sale failed: %v", err)
	}
	if _, err := svc.RecordSale(identityFor(bob), s1.ID, req); err != nil {
		t.Fatalf("bob sale failed: %v", err)
	}

	mine, err := svc.GetSales(identityFor(alice))
	if err != nil {
		t.Fatalf("GetSales failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("alice sees %d sales, want her 2 across both stores", len(mine))
	}

	all, err := svc.GetSales(identityFor(admin))
	if err != nil {
		t.Fatalf("GetSales failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin sees %d sales, want 3", len(all))
	}
	for _, sale := range all {
		if sale.Store == nil || sale.User == nil {
			t.Error("network-wide listing must include store and salesman")
			break
		}
	}
}

func TestGetStoreInventory(t *testing.T) {
	db := setupTestDB(t)
	svc := newSaleService(db)

	sales := createTestUser(t, db, "sales@example.com", model.RoleSales)
	store := createTestStore(t, db, "Toko A", model.StoreActive)
	product := createTestProduct(t, db, "X1", 10, 5)
	assignStaff(t, db, store.ID, sales.ID)
	seedStock(t, db, store.ID, product.ID, 4)

	inventory, err := svc.GetStoreInventory(identityFor(sales), store.ID)
	if err != nil {
		t.Fatalf("GetStoreInventory failed: %v", err)
	}
	if len(inventory) != 1 {
		t.Fatalf("inventory rows = %d, want 1", len(inventory))
	}
	if inventory[0].CurrentStock != 4 {
		t.Errorf("current stock = %d, want 4", inventory[0].CurrentStock)
	}
	if !inventory[0].LowStock {
		t.Error("4 <= threshold 5 should flag low stock")
	}
}
