package repository

import (
	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryRepository interface {
	FindAll(filter DeliveryFilter, scopes ...func(*gorm.DB) *gorm.DB) ([]model.Delivery, error)
	FindByID(id uuid.UUID) (*model.Delivery, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error)
	Delete(id uuid.UUID) error
}

// DeliveryFilter narrows the list view; zero values mean no filter.
type DeliveryFilter struct {
	Status  model.DeliveryStatus
	StoreID uuid.UUID
}

type deliveryRepo struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepository {
	return &deliveryRepo{db}
}

func (r *deliveryRepo) FindAll(filter DeliveryFilter, scopes ...func(*gorm.DB) *gorm.DB) ([]model.Delivery, error) {
	q := r.db.Scopes(scopes...)
	if filter.Status != "" {
		q = q.Where("deliveries.status = ?", filter.Status)
	}
	if filter.StoreID != uuid.Nil {
		q = q.Where("deliveries.store_id = ?", filter.StoreID)
	}

	var deliveries []model.Delivery
	err := q.
		Preload("Salesman").Preload("Store").
		Preload("Items").Preload("Items.Product").
		Order("deliveries.created_at DESC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) FindByID(id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.
		Preload("Salesman").Preload("Store").
		Preload("Items").Preload("Items.Product").
		First(&delivery, "id = ?", id).Error
	return &delivery, err
}

// FindForUpdate locks the delivery row for the status-transition
// transaction, items included.
func (r *deliveryRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	err := lockForUpdate(tx).
		Preload("Items").
		First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Delivery{}, "id = ?", id).Error
}
