package model

import "time"

type StoreStatus string

const (
	StorePendingApproval StoreStatus = "PENDING_APPROVAL"
	StoreActive          StoreStatus = "ACTIVE"
	StoreInactive        StoreStatus = "INACTIVE"
)

type StoreType string

const (
	StoreRetail      StoreType = "RETAIL"
	StoreWholesale   StoreType = "WHOLESALE"
	StoreSupermarket StoreType = "SUPERMARKET"
	StoreMinimarket  StoreType = "MINIMARKET"
	StoreTraditional StoreType = "TRADITIONAL"
)

// Store is a retail outlet in the network. Created by a salesperson at
// PENDING_APPROVAL; only an admin approval moves it to ACTIVE.
type Store struct {
	BaseModel
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	OwnerName  string    `gorm:"type:varchar(255);not null" json:"owner_name" validate:"required"`
	OwnerPhone string    `gorm:"type:varchar(30);not null" json:"owner_phone" validate:"required"`
	OwnerEmail string    `gorm:"type:varchar(255)" json:"owner_email" validate:"omitempty,email"`
	Address    string    `gorm:"type:text;not null" json:"address" validate:"required"`
	City       string    `gorm:"type:varchar(100);not null" json:"city" validate:"required"`
	Province   string    `gorm:"type:varchar(100);not null" json:"province" validate:"required"`
	Type       StoreType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=RETAIL WHOLESALE SUPERMARKET MINIMARKET TRADITIONAL"`
	Latitude   float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64   `json:"longitude" validate:"gte=-180,lte=180"`
	PhotoURL   string    `gorm:"type:varchar(500)" json:"photo_url"`
	Notes      string    `gorm:"type:text" json:"notes"`

	Status       StoreStatus `gorm:"type:varchar(20);not null;default:'PENDING_APPROVAL'" json:"status"`
	ApprovedAt   *time.Time  `json:"approved_at,omitempty"`
	ApprovedByID *string     `gorm:"type:varchar(255)" json:"approved_by_id,omitempty"`

	// Relations
	Staff  []User       `gorm:"many2many:store_staff;" json:"staff,omitempty"`
	Stocks []StoreStock `json:"stocks,omitempty"`
	Sales  []Sale       `json:"sales,omitempty"`
}

// StoreStats aggregates per-store figures for list views
type StoreStats struct {
	TotalProducts int64      `json:"total_products"`
	TotalSales    int64      `json:"total_sales"`
	LastSale      *time.Time `json:"last_sale,omitempty"`
	LowStock      int64      `json:"low_stock"`
}

// StoreResponse is the list-view shape: store fields plus derived stats
type StoreResponse struct {
	Store
	Stats StoreStats `json:"stats"`
}
