package devapi

import (
	"errors"
	"slices"
	"sync"

	perrors "github.com/abgdnv/productctl/internal/errors"
	"github.com/abgdnv/productctl/internal/product"
)

// ErrDuplicateID is returned when a create carries an id that is already stored.
var ErrDuplicateID = errors.New("insert failed, duplicate id")

// Store keeps products in memory, in insertion order.
type Store struct {
	mu       sync.RWMutex
	products map[string]product.Product
	order    []string
}

// NewStore creates a store holding seed.
func NewStore(seed ...product.Product) *Store {
	s := &Store{products: make(map[string]product.Product)}
	for _, p := range seed {
		_, _ = s.Create(p)
	}
	return s
}

// FindAll returns every product in insertion order.
func (s *Store) FindAll() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]product.Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id].Clone())
	}
	return list
}

// FindByID retrieves a product by its ID.
func (s *Store) FindByID(id string) (*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	c := p.Clone()
	return &c, nil
}

// Create stores p. A product without id gets the next numeric one.
func (s *Store) Create(p product.Product) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = product.NextID(s.listLocked())
	}
	if _, exists := s.products[p.ID]; exists {
		return nil, ErrDuplicateID
	}
	stored := p.Clone()
	s.products[p.ID] = stored
	s.order = append(s.order, p.ID)

	c := stored.Clone()
	return &c, nil
}

// Replace overwrites the product id with p. The stored id always stays id.
func (s *Store) Replace(id string, p product.Product) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return nil, perrors.ErrProductNotFound
	}
	stored := p.Clone()
	stored.ID = id
	s.products[id] = stored

	c := stored.Clone()
	return &c, nil
}

// DeleteByID deletes a product by its ID.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func (s *Store) listLocked() []product.Product {
	list := make([]product.Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list
}

// SeedProducts is a small catalogue for local runs.
func SeedProducts() []product.Product {
	return []product.Product{
		{ID: "1", Name: "Mechanical keyboard", Price: product.PriceOf(89.9), Description: "Brown switches"},
		{ID: "2", Name: "USB-C cable", Price: product.PriceOf(9.5)},
		{ID: "3", Name: "Desk lamp", Description: "Warm white"},
	}
}
