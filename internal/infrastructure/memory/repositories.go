package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.StockRepository    = (*StockRepo)(nil)
)

// MovementRepo kardex sobre el estado de una transacción en memoria.
type MovementRepo struct {
	st *state
}

func (r *MovementRepo) Append(_ context.Context, m *entity.Movement) error {
	if _, ok := r.st.unique[m.UniqueKey]; ok {
		return domain.ErrDuplicate
	}
	r.st.nextID++
	m.ID = r.st.nextID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.st.unique[m.UniqueKey] = struct{}{}
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *MovementRepo) ListByDocRef(_ context.Context, docRef string) ([]entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.DocRef == docRef }), nil
}

func (r *MovementRepo) ListByProductKey(_ context.Context, productKey string) ([]entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.ProductKey == productKey }), nil
}

func (r *MovementRepo) ListAll(_ context.Context) ([]entity.Movement, error) {
	return r.filter(func(*entity.Movement) bool { return true }), nil
}

func (r *MovementRepo) LatestBySource(_ context.Context, source entity.MovementSource) (*entity.Movement, error) {
	var latest *entity.Movement
	for i := range r.st.movements {
		m := &r.st.movements[i]
		if m.Source != source {
			continue
		}
		if latest == nil || m.Timestamp > latest.Timestamp {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *MovementRepo) MaxTimestamp(_ context.Context) (int64, error) {
	var ts int64
	for _, m := range r.st.movements {
		ts = max(ts, m.Timestamp)
	}
	return ts, nil
}

func (r *MovementRepo) DeleteByDocRef(_ context.Context, docRef string, source entity.MovementSource) (int64, error) {
	before := len(r.st.movements)
	r.st.movements = slices.DeleteFunc(r.st.movements, func(m entity.Movement) bool {
		if m.DocRef == docRef && m.Source == source {
			delete(r.st.unique, m.UniqueKey)
			return true
		}
		return false
	})
	return int64(before - len(r.st.movements)), nil
}

func (r *MovementRepo) DeleteAll(_ context.Context) error {
	r.st.movements = nil
	clear(r.st.unique)
	return nil
}

// filter devuelve copias ordenadas por Timestamp.
func (r *MovementRepo) filter(keep func(*entity.Movement) bool) []entity.Movement {
	var out []entity.Movement
	for i := range r.st.movements {
		if keep(&r.st.movements[i]) {
			out = append(out, r.st.movements[i])
		}
	}
	slices.SortStableFunc(out, func(a, b entity.Movement) int { return cmp.Compare(a.Timestamp, b.Timestamp) })
	return out
}

// StockRepo proyección de stock sobre el estado de una transacción en memoria.
type StockRepo struct {
	st *state
}

func (r *StockRepo) Get(_ context.Context, productKey string) (*entity.StockSnapshot, error) {
	s, ok := r.st.stock[productKey]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StockRepo) Put(_ context.Context, s *entity.StockSnapshot) error {
	r.st.stock[s.ProductKey] = *s
	return nil
}

func (r *StockRepo) Delete(_ context.Context, productKey string) error {
	delete(r.st.stock, productKey)
	return nil
}

func (r *StockRepo) List(_ context.Context) ([]entity.StockSnapshot, error) {
	out := make([]entity.StockSnapshot, 0, len(r.st.stock))
	for _, s := range r.st.stock {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b entity.StockSnapshot) int { return cmp.Compare(a.ProductKey, b.ProductKey) })
	return out, nil
}

func (r *StockRepo) DeleteAll(_ context.Context) error {
	clear(r.st.stock)
	return nil
}
