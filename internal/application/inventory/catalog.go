package inventory

import (
	"context"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var _ Catalog = (*RepositoryCatalog)(nil)

// RepositoryCatalog adapta un ProductRepository al puerto Catalog.
type RepositoryCatalog struct {
	repo repository.ProductRepository
}

// NewRepositoryCatalog construye el adaptador.
func NewRepositoryCatalog(repo repository.ProductRepository) *RepositoryCatalog {
	return &RepositoryCatalog{repo: repo}
}

// FindByCode busca por código normalizado.
func (c *RepositoryCatalog) FindByCode(ctx context.Context, code string) (*entity.Product, error) {
	code = entity.NormalizeCode(code)
	if code == "" {
		return nil, nil
	}
	return c.repo.GetByCode(ctx, code)
}

// FindByDescription busca por coincidencia exacta de la descripción normalizada.
func (c *RepositoryCatalog) FindByDescription(ctx context.Context, description string) (*entity.Product, error) {
	normalized := domaininv.NormalizeDescription(description)
	if normalized == "" {
		return nil, nil
	}
	return c.repo.FindByNormalizedDescription(ctx, normalized)
}
