package service

import (
	"errors"
	"fmt"

	"go-retailnet/internal/access"
	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/pkg/validator"

	"github.com/google/uuid"
)

var ErrEmailExists = errors.New("email already exists")

type UserService interface {
	Register(req *RegisterRequest) (*model.User, error)
	CreateUser(ident access.Identity, req *CreateUserRequest) (*model.User, error)
	UpdateUser(ident access.Identity, userID uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	DeleteUser(ident access.Identity, userID uuid.UUID) error
	GetAllUsers(ident access.Identity) ([]model.UserResponse, error)
	GetUserByID(ident access.Identity, id uuid.UUID) (*model.UserResponse, error)
}

// RegisterRequest is self-service signup; role defaults to SALES.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN SALES"`
}

type CreateUserRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Name     string      `json:"name" validate:"required"`
	Role     string      `json:"role" validate:"required,oneof=ADMIN SALES"`
	StoreIDs []uuid.UUID `json:"store_ids"`
}

type UpdateUserRequest struct {
	Email    string       `json:"email" validate:"required,email"`
	Password *string      `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Name     string       `json:"name" validate:"required"`
	Role     string       `json:"role" validate:"required,oneof=ADMIN SALES"`
	IsActive *bool        `json:"is_active"`
	StoreIDs *[]uuid.UUID `json:"store_ids"`
}

type userService struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
}

func NewUserService(userRepo repository.UserRepository, storeRepo repository.StoreRepository) UserService {
	return &userService{userRepo: userRepo, storeRepo: storeRepo}
}

func (s *userService) Register(req *RegisterRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, apperr.Conflict(ErrEmailExists.Error())
	}

	role := req.Role
	if role == "" {
		role = model.RoleSales
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Role:     role,
		IsActive: true,
	}
	user.CreatedBy = "self-register"
	user.UpdatedBy = "self-register"

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) CreateUser(ident access.Identity, req *CreateUserRequest) (*model.User, error) {
	if !ident.CanManageUsers() {
		return nil, apperr.Unauthorized("only admins can manage users")
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, apperr.Conflict(ErrEmailExists.Error())
	}

	stores, err := s.resolveStores(req.StoreIDs)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		IsActive: true,
		Stores:   stores,
	}
	user.CreatedBy = ident.UserID.String()
	user.UpdatedBy = ident.UserID.String()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ident access.Identity, userID uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	if !ident.CanManageUsers() {
		return nil, apperr.Unauthorized("only admins can manage users")
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if req.Email != user.Email {
		existing, _ := s.userRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, apperr.Conflict(ErrEmailExists.Error())
		}
	}

	user.Email = req.Email
	user.Name = req.Name
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = ident.UserID.String()

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if req.StoreIDs != nil {
		stores, err := s.resolveStores(*req.StoreIDs)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.ReplaceStores(userID, stores); err != nil {
			return nil, err
		}
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(ident access.Identity, userID uuid.UUID) error {
	if !ident.CanManageUsers() {
		return apperr.Unauthorized("only admins can manage users")
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.userRepo.Delete(userID)
}

func (s *userService) GetAllUsers(ident access.Identity) ([]model.UserResponse, error) {
	if !ident.CanManageUsers() {
		return nil, apperr.Unauthorized("only admins can manage users")
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ident access.Identity, id uuid.UUID) (*model.UserResponse, error) {
	if !ident.CanManageUsers() {
		return nil, apperr.Unauthorized("only admins can manage users")
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) resolveStores(ids []uuid.UUID) ([]model.Store, error) {
	stores := make([]model.Store, 0, len(ids))
	for _, storeID := range ids {
		store, err := s.storeRepo.FindByID(storeID)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("store %s not found", storeID))
		}
		stores = append(stores, *store)
	}
	return stores, nil
}
