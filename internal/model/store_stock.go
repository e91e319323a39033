package model

import "github.com/google/uuid"

// StoreStock is the inventory ledger entry for one (store, product) pair.
// Quantity is never negative; it changes only through defined deltas
// (sale decrement, delivery-completion increment).
type StoreStock struct {
	BaseModel
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_product" json:"store_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`

	Store   *Store   `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// IsLowStock reports whether a quantity sits at or below its threshold.
func IsLowStock(quantity, minStockLevel int) bool {
	return quantity <= minStockLevel
}
