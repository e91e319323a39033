package model

import "github.com/google/uuid"

type SaleStatus string

// Sales are created directly in their terminal state; creation is the
// one lifecycle event and the ledger-decrementing event.
const SaleCompleted SaleStatus = "COMPLETED"

type Sale struct {
	BaseModel
	StoreID uuid.UUID  `gorm:"type:uuid;not null;index" json:"store_id"`
	Store   *Store     `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User    *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status  SaleStatus `gorm:"type:varchar(20);not null;default:'COMPLETED'" json:"status"`
	Total   int64      `gorm:"not null" json:"total"` // Σ(item price × quantity)

	Items []SaleItem `json:"items,omitempty"`
}

// SaleItem is one line of a sale. Price is the unit price snapshotted at
// sale time, decoupled from later product price changes. Items are
// immutable after creation; corrections are compensating records.
type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"`
}
