package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role codes as constants
const (
	RoleAdmin = "ADMIN"
	RoleSales = "SALES"
)

// User represents an authenticated staff member (admin or salesperson)
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Name         string     `gorm:"type:varchar(255)" json:"name"`
	Role         string     `gorm:"type:varchar(20);not null;default:'SALES'" json:"role" validate:"required,oneof=ADMIN SALES"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`

	// Store assignments (staff join table)
	Stores []Store `gorm:"many2many:store_staff;" json:"stores,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// StoreStaff is the many-to-many join granting a user visibility over a store
type StoreStaff struct {
	StoreID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"store_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (StoreStaff) TableName() string {
	return "store_staff"
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	Role       string         `json:"role"`
	IsActive   bool           `json:"is_active"`
	LastSeenAt *time.Time     `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Stores     []StoreSummary `json:"stores"`
}

// StoreSummary is the compact store reference embedded in user responses
type StoreSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	stores := make([]StoreSummary, len(u.Stores))
	for i, s := range u.Stores {
		stores[i] = StoreSummary{ID: s.ID, Name: s.Name}
	}
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
		CreatedAt:  u.CreatedAt,
		Stores:     stores,
	}
}
