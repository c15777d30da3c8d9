package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-rentals-api/internal/application/dto"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La existencia (on-hand)
// no se edita aquí: solo el orquestador de stock la muta.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, stockRepo repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, stockRepo: stockRepo}
}

// Create crea un nuevo producto. Los ITEM requieren número de serie único.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !entity.ValidProductType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de producto %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Type == entity.ProductTypeItem && in.SerialNumber == "" {
		return nil, fmt.Errorf("%w: un producto ITEM requiere serial_number", domain.ErrInvalidInput)
	}
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
	}
	if in.SerialNumber != "" {
		existing, _ := uc.repo.GetBySerialNumber(in.SerialNumber)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Type:         in.Type,
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		CostPrice:    in.CostPrice,
		SerialNumber: in.SerialNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// GetByID obtiene un producto por ID, con su on-hand actual.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return uc.toResponse(product)
}

// Update actualiza un producto. Una vez referenciado por transacciones, el
// tipo y el número de serie quedan inmutables; solo campos descriptivos.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Type != nil || in.SerialNumber != nil {
		referenced, err := uc.repo.HasTransactions(id)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, fmt.Errorf("%w: el producto tiene transacciones: tipo y serie son inmutables", domain.ErrInvalidInput)
		}
		if in.Type != nil {
			if !entity.ValidProductType(*in.Type) {
				return nil, fmt.Errorf("%w: tipo de producto %q", domain.ErrInvalidInput, *in.Type)
			}
			product.Type = *in.Type
		}
		if in.SerialNumber != nil {
			product.SerialNumber = *in.SerialNumber
		}
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, *in.CategoryID)
		}
		product.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		resp, err := uc.toResponse(p)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto sin transacciones asociadas.
func (uc *ProductUseCase) Delete(id string) error {
	referenced, err := uc.repo.HasTransactions(id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: el producto tiene transacciones y no puede eliminarse", domain.ErrInvalidInput)
	}
	return uc.repo.Delete(id)
}

func (uc *ProductUseCase) toResponse(p *entity.Product) (*dto.ProductResponse, error) {
	stock, err := uc.stockRepo.Get(p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		CostPrice:    p.CostPrice,
		SerialNumber: p.SerialNumber,
		OnHand:       stock.OnHand,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}
