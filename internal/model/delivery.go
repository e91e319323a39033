package model

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

// ValidDeliveryStatus reports whether s is a known status value.
func ValidDeliveryStatus(s DeliveryStatus) bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryDelivered:
		return true
	}
	return false
}

// CanTransition guards the delivery state machine. DELIVERED is terminal,
// so the ledger increment can only ever fire once.
func CanTransition(from, to DeliveryStatus) bool {
	switch from {
	case DeliveryPending:
		return to == DeliveryInTransit || to == DeliveryDelivered
	case DeliveryInTransit:
		return to == DeliveryDelivered
	}
	return false
}

type Delivery struct {
	BaseModel
	SalesmanID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"salesman_id"`
	Salesman    *User          `gorm:"foreignKey:SalesmanID" json:"salesman,omitempty"`
	StoreID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	Store       *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Status      DeliveryStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"` // set on PENDING/IN_TRANSIT → DELIVERED

	Items []DeliveryItem `json:"items,omitempty"`
}

type DeliveryItem struct {
	BaseModel
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;index" json:"delivery_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
}
