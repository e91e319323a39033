package model

import "time"

type Product struct {
	BaseModel
	SKU           string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   string     `gorm:"type:text" json:"description"`
	Category      string     `gorm:"type:varchar(100)" json:"category"`
	Price         int64      `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	MinStockLevel int        `gorm:"not null;default:10" json:"min_stock_level" validate:"gte=0"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`

	// Relations. Stock lives in the per-store ledger, never on the product row.
	StoreStocks []StoreStock `json:"store_stocks,omitempty"`
}

// ProductStoreStock is the per-store stock breakdown in product responses
type ProductStoreStock struct {
	StoreID   string `json:"store_id"`
	StoreName string `json:"store_name"`
	Stock     int    `json:"stock"`
}

// ProductResponse exposes the derived aggregate stock alongside the breakdown
type ProductResponse struct {
	Product
	Stock    int                 `json:"stock"` // SUM over ledger rows
	LowStock bool                `json:"low_stock"`
	Stores   []ProductStoreStock `json:"stores"`
}

// ToResponse derives the aggregate stock figure from the loaded ledger rows
func (p *Product) ToResponse() ProductResponse {
	total := 0
	stores := make([]ProductStoreStock, 0, len(p.StoreStocks))
	for _, ss := range p.StoreStocks {
		total += ss.Quantity
		entry := ProductStoreStock{StoreID: ss.StoreID.String(), Stock: ss.Quantity}
		if ss.Store != nil {
			entry.StoreName = ss.Store.Name
		}
		stores = append(stores, entry)
	}
	return ProductResponse{
		Product:  *p,
		Stock:    total,
		LowStock: IsLowStock(total, p.MinStockLevel),
		Stores:   stores,
	}
}
