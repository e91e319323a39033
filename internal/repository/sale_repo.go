package repository

import (
	"time"

	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindAll(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Sale, error)
	FindByStore(storeID uuid.UUID, scopes ...func(*gorm.DB) *gorm.DB) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	CountByStore(storeID uuid.UUID) (int64, error)
	LastSaleAt(storeID uuid.UUID) (*time.Time, error)
	RecentForProduct(storeID, productID uuid.UUID, limit int) ([]model.Sale, error)
	TotalRevenue() (int64, error)
	Count() (int64, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindAll(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Scopes(scopes...).
		Preload("Items").Preload("Items.Product").
		Preload("Store").Preload("User").
		Order("sales.created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByStore(storeID uuid.UUID, scopes ...func(*gorm.DB) *gorm.DB) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Scopes(scopes...).
		Where("sales.store_id = ?", storeID).
		Preload("Items").Preload("Items.Product").
		Preload("Store").Preload("User").
		Order("sales.created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.
		Preload("Items").Preload("Items.Product").
		Preload("Store").Preload("User").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) CountByStore(storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Where("store_id = ?", storeID).Count(&count).Error
	return count, err
}

func (r *saleRepo) LastSaleAt(storeID uuid.UUID) (*time.Time, error) {
	var sale model.Sale
	err := r.db.Where("store_id = ?", storeID).Order("created_at DESC").First(&sale).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sale.CreatedAt, nil
}

// RecentForProduct returns the latest sales at a store containing the
// product, with items narrowed to that product's lines.
func (r *saleRepo) RecentForProduct(storeID, productID uuid.UUID, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Where("store_id = ? AND id IN (SELECT sale_id FROM sale_items WHERE product_id = ?)", storeID, productID).
		Preload("Items", "product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) TotalRevenue() (int64, error) {
	var total int64
	err := r.db.Model(&model.Sale{}).Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}

func (r *saleRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Count(&count).Error
	return count, err
}
