package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

// ProductUseCase mantenimiento del catálogo que el kardex consulta por código y descripción.
// Stock y costo no viven aquí: se derivan del kardex.
type ProductUseCase struct {
	repo     repository.ProductRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, validate: validator.New(), now: time.Now}
}

// Upsert crea o actualiza un producto; el código se normaliza igual que en el kardex.
func (uc *ProductUseCase) Upsert(ctx context.Context, in dto.UpsertProductRequest) (*dto.ProductResponse, error) {
	in.Code = entity.NormalizeCode(in.Code)
	in.Description = strings.TrimSpace(in.Description)
	if err := uc.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	product := &entity.Product{
		Code:           in.Code,
		Description:    in.Description,
		NormalizedDesc: domaininv.NormalizeDescription(in.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Upsert(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCode obtiene un producto; domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(ctx, entity.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista el catálogo ordenado por código.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{Code: p.Code, Description: p.Description, UpdatedAt: p.UpdatedAt}
}
