package service

import (
	"errors"
	"fmt"
	"time"

	"go-retailnet/internal/access"
	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/internal/ws"
	"go-retailnet/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryService interface {
	CreateDelivery(ident access.Identity, req *CreateDeliveryRequest) (*model.Delivery, error)
	GetDeliveries(ident access.Identity, filter repository.DeliveryFilter) ([]model.Delivery, error)
	GetDelivery(ident access.Identity, id uuid.UUID) (*model.Delivery, error)
	UpdateDelivery(ident access.Identity, id uuid.UUID, req *UpdateDeliveryRequest) (*model.Delivery, error)
	DeleteDelivery(ident access.Identity, id uuid.UUID) error
}

type DeliveryLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CreateDeliveryRequest struct {
	StoreID uuid.UUID      `json:"store_id" validate:"uuid_required"`
	Notes   string         `json:"notes"`
	Items   []DeliveryLine `json:"items" validate:"required,min=1,dive"`
}

type UpdateDeliveryRequest struct {
	Status model.DeliveryStatus `json:"status"`
	Notes  *string              `json:"notes"`
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	storeRepo    repository.StoreRepository
	stockRepo    repository.StockRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewDeliveryService(deliveryRepo repository.DeliveryRepository, storeRepo repository.StoreRepository, stockRepo repository.StockRepository, db *gorm.DB, hub *ws.Hub) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		storeRepo:    storeRepo,
		stockRepo:    stockRepo,
		db:           db,
		wsHub:        hub,
	}
}

// CreateDelivery registers a PENDING delivery. Creation never touches the
// ledger; stock moves only on the transition to DELIVERED.
func (s *deliveryService) CreateDelivery(ident access.Identity, req *CreateDeliveryRequest) (*model.Delivery, error) {
	if !ident.CanCreateDeliveries() {
		return nil, apperr.Forbidden("only sales users can create deliveries")
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	if _, err := s.storeRepo.FindByID(req.StoreID); err != nil {
		return nil, apperr.NotFound("store not found")
	}

	allowed, err := access.CanAccessStore(s.db, ident, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("you are not assigned to this store")
	}

	delivery := model.Delivery{
		SalesmanID: ident.UserID,
		StoreID:    req.StoreID,
		Status:     model.DeliveryPending,
		Notes:      req.Notes,
	}
	delivery.CreatedBy = ident.UserID.String()
	delivery.UpdatedBy = ident.UserID.String()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validation(fmt.Sprintf("product %s not found", line.ProductID))
				}
				return err
			}
			delivery.Items = append(delivery.Items, model.DeliveryItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		return tx.Create(&delivery).Error
	})
	if err != nil {
		return nil, err
	}

	return s.deliveryRepo.FindByID(delivery.ID)
}

func (s *deliveryService) GetDeliveries(ident access.Identity, filter repository.DeliveryFilter) ([]model.Delivery, error) {
	// Store filtering is an admin view; salespeople are already narrowed
	// to their own rows by the scope.
	if !ident.IsAdmin() {
		filter.StoreID = uuid.Nil
	}
	return s.deliveryRepo.FindAll(filter, access.DeliveryScope(ident))
}

func (s *deliveryService) GetDelivery(ident access.Identity, id uuid.UUID) (*model.Delivery, error) {
	delivery, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("delivery not found")
	}
	if !ident.CanViewDelivery(delivery) {
		return nil, apperr.Unauthorized("you don't have access to this delivery")
	}
	return delivery, nil
}

// UpdateDelivery applies a guarded status transition. The PENDING/IN_TRANSIT
// → DELIVERED edge applies one positive ledger delta per item in the same
// transaction as the status update; any failure leaves the delivery as it was.
func (s *deliveryService) UpdateDelivery(ident access.Identity, id uuid.UUID, req *UpdateDeliveryRequest) (*model.Delivery, error) {
	existing, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("delivery not found")
	}
	if !ident.CanMutateDelivery(existing) {
		return nil, apperr.Unauthorized("only the owning salesman can update this delivery")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		delivery, err := s.deliveryRepo.FindForUpdate(tx, id)
		if err != nil {
			return apperr.NotFound("delivery not found")
		}

		updates := map[string]interface{}{"updated_by": ident.UserID.String()}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}

		if req.Status != "" && req.Status != delivery.Status {
			if !model.ValidDeliveryStatus(req.Status) {
				return apperr.Validation("invalid delivery status")
			}
			if !model.CanTransition(delivery.Status, req.Status) {
				return apperr.Conflict(fmt.Sprintf("invalid status transition %s -> %s", delivery.Status, req.Status))
			}
			updates["status"] = req.Status

			if req.Status == model.DeliveryDelivered {
				now := time.Now()
				updates["completed_at"] = &now
				for _, item := range delivery.Items {
					if err := s.stockRepo.ApplyDelta(tx, delivery.StoreID, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
		} else if req.Status != "" && req.Status == delivery.Status {
			// Re-sending the current status is not a transition. For the
			// terminal state this must never re-apply the increment.
			if delivery.Status == model.DeliveryDelivered {
				return apperr.Conflict("delivery is already completed")
			}
		}

		return tx.Model(&model.Delivery{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	delivery, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil && delivery.Status == model.DeliveryDelivered {
		go s.wsHub.PublishEvent("delivery_completed", map[string]interface{}{
			"delivery_id": delivery.ID,
			"store_id":    delivery.StoreID,
			"salesman_id": delivery.SalesmanID,
		})
	}

	return delivery, nil
}

// DeleteDelivery removes a delivery; permitted only while PENDING, so a
// completed delivery's ledger effect can never be orphaned.
func (s *deliveryService) DeleteDelivery(ident access.Identity, id uuid.UUID) error {
	delivery, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		return apperr.NotFound("delivery not found")
	}
	if !ident.CanMutateDelivery(delivery) {
		return apperr.Unauthorized("only the owning salesman can delete this delivery")
	}
	if delivery.Status != model.DeliveryPending {
		return apperr.Conflict("can only delete pending deliveries")
	}
	return s.deliveryRepo.Delete(id)
}
