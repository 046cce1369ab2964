package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria, seguro para uso concurrente.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]entity.Product
}

func newProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[string]entity.Product)}
}

func (r *ProductRepo) Upsert(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.products[p.Code]; ok {
		p.CreatedAt = prev.CreatedAt
	}
	r.products[p.Code] = *p
	return nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindByNormalizedDescription devuelve la coincidencia de menor código, igual que el adaptador SQL.
func (r *ProductRepo) FindByNormalizedDescription(_ context.Context, normalized string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *entity.Product
	for _, p := range r.products {
		if p.NormalizedDesc != normalized {
			continue
		}
		if found == nil || p.Code < found.Code {
			found = &p
		}
	}
	return found, nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.mu.RLock()
	all := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b entity.Product) int { return cmp.Compare(a.Code, b.Code) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.Product, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}
