// Package access is the single access filter: every handler resolves
// visibility and mutation rights through it instead of ad-hoc role checks.
// The identity is request-scoped and passed explicitly, never ambient.
package access

import (
	"errors"

	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is the authenticated requester for the current request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   string
}

func (id Identity) IsAdmin() bool {
	return id.Role == model.RoleAdmin
}

func (id Identity) IsSales() bool {
	return id.Role == model.RoleSales
}

// CanWriteProducts: product create/update/delete is admin-only.
func (id Identity) CanWriteProducts() bool {
	return id.IsAdmin()
}

// CanManageStores: store approval, admin edits, and deletion.
func (id Identity) CanManageStores() bool {
	return id.IsAdmin()
}

// CanManageUsers: user management endpoints.
func (id Identity) CanManageUsers() bool {
	return id.IsAdmin()
}

// CanCreateSales: only salespeople record point-of-sale transactions.
func (id Identity) CanCreateSales() bool {
	return id.IsSales()
}

// CanCreateDeliveries: only salespeople create deliveries.
func (id Identity) CanCreateDeliveries() bool {
	return id.IsSales()
}

// CanMutateDelivery: a delivery is mutable only by the salesman who
// created it, never by other SALES users or admins.
func (id Identity) CanMutateDelivery(d *model.Delivery) bool {
	return id.IsSales() && d.SalesmanID == id.UserID
}

// CanViewDelivery: admins see everything, salespeople their own rows.
func (id Identity) CanViewDelivery(d *model.Delivery) bool {
	return id.IsAdmin() || d.SalesmanID == id.UserID
}

// StoreScope restricts store queries to rows reachable through the
// requester's staff assignments. Pass-through for admins.
func StoreScope(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsAdmin() {
			return db
		}
		return db.Where("stores.id IN (SELECT store_id FROM store_staff WHERE user_id = ?)", id.UserID)
	}
}

// ProductScope restricts products to those stocked in assigned stores.
func ProductScope(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsAdmin() {
			return db
		}
		return db.Where(
			"products.id IN (SELECT product_id FROM store_stocks WHERE store_id IN (SELECT store_id FROM store_staff WHERE user_id = ?))",
			id.UserID,
		)
	}
}

// SaleScope: admins see all sales for a store, salespeople only rows
// they authored.
func SaleScope(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsAdmin() {
			return db
		}
		return db.Where("sales.user_id = ?", id.UserID)
	}
}

// DeliveryScope: admins see all deliveries, salespeople their own.
func DeliveryScope(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsAdmin() {
			return db
		}
		return db.Where("deliveries.salesman_id = ?", id.UserID)
	}
}

// CanAccessStore reports whether the requester may read or act against
// the given store. Admins always may; salespeople need a staff row.
func CanAccessStore(db *gorm.DB, id Identity, storeID uuid.UUID) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	var staff model.StoreStaff
	err := db.Where("store_id = ? AND user_id = ?", storeID, id.UserID).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
