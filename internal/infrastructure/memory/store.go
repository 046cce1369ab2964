// Package memory implementa el kardex en memoria (tests y modo demo sin base de datos).
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/kardex-pos/internal/application/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// state contenido del kardex; Run trabaja sobre una copia y la publica solo si fn termina sin error.
type state struct {
	movements []entity.Movement
	unique    map[string]struct{}
	stock     map[string]entity.StockSnapshot
	nextID    int64
}

// Store kardex y proyección en memoria con semántica transaccional de copia y publicación.
type Store struct {
	mu       sync.RWMutex
	current  *state
	products *ProductRepo
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		current:  newState(),
		products: newProductRepo(),
	}
}

func newState() *state {
	return &state{
		unique: make(map[string]struct{}),
		stock:  make(map[string]entity.StockSnapshot),
	}
}

func (s *state) clone() *state {
	return &state{
		movements: slices.Clone(s.movements),
		unique:    maps.Clone(s.unique),
		stock:     maps.Clone(s.stock),
		nextID:    s.nextID,
	}
}

// Run ejecuta fn sobre una copia del estado; los escritores se serializan con el mutex.
func (s *Store) Run(ctx context.Context, fn inventory.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.current.clone()
	if err := fn(&MovementRepo{st: work}, &StockRepo{st: work}); err != nil {
		return err
	}
	s.current = work
	return nil
}

// View ejecuta fn sobre una instantánea; lo que fn escriba se descarta.
func (s *Store) View(ctx context.Context, fn inventory.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snap := s.current.clone()
	s.mu.RUnlock()

	return fn(&MovementRepo{st: snap}, &StockRepo{st: snap})
}

// Products catálogo en memoria asociado al store.
func (s *Store) Products() *ProductRepo {
	return s.products
}
