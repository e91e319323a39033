package repository

import (
	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store, creatorID uuid.UUID) error
	FindAll(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Store, error)
	FindByID(id uuid.UUID) (*model.Store, error)
	FindDetail(id uuid.UUID) (*model.Store, error)
	Update(store *model.Store) error
	Delete(id uuid.UUID) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

// Create inserts the store and the creator's staff assignment together,
// so the registering salesperson can immediately see their store.
func (r *storeRepo) Create(store *model.Store, creatorID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			return err
		}
		staff := model.StoreStaff{StoreID: store.ID, UserID: creatorID}
		return tx.Create(&staff).Error
	})
}

func (r *storeRepo) FindAll(scopes ...func(*gorm.DB) *gorm.DB) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Scopes(scopes...).Order("created_at DESC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.First(&store, "id = ?", id).Error
	return &store, err
}

// FindDetail loads the store with staff, ledger rows, and the 5 most
// recent sales for the detail view.
func (r *storeRepo) FindDetail(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.
		Preload("Staff").
		Preload("Stocks").Preload("Stocks.Product").
		Preload("Sales", func(db *gorm.DB) *gorm.DB {
			return db.Order("sales.created_at DESC").Limit(5)
		}).
		Preload("Sales.Items").Preload("Sales.Items.Product").
		First(&store, "id = ?", id).Error
	return &store, err
}

func (r *storeRepo) Update(store *model.Store) error {
	return r.db.Save(store).Error
}

func (r *storeRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Store{}, "id = ?", id).Error
}
