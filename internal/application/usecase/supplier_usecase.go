package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	return toSupplierResponse(supplier), nil
}

// Update actualiza un proveedor.
func (uc *SupplierUseCase) Update(id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	if in.Name != nil {
		supplier.Name = *in.Name
	}
	if in.Email != nil {
		supplier.Email = *in.Email
	}
	if in.Phone != nil {
		supplier.Phone = *in.Phone
	}
	if in.Address != nil {
		supplier.Address = *in.Address
	}
	supplier.UpdatedAt = time.Now()
	if err := uc.repo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(limit, offset int) ([]*dto.SupplierResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// Delete elimina un proveedor por ID.
func (uc *SupplierUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
