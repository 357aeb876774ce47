package catalog

import (
	"sync"

	"github.com/rgimusa/storefront/internal/domain"
)

// Catalog read-only product data shared by the cart and the api layer.
// Replace swaps the whole data set atomically.
type Catalog struct {
	mu         sync.RWMutex
	products   []domain.Product
	byID       map[string]domain.Product
	categories []domain.Category
	featured   []string
}

func New() *Catalog {
	return &Catalog{byID: map[string]domain.Product{}}
}

// FromSnapshot builds a catalog holding the loaded data
func FromSnapshot(s *Snapshot) *Catalog {
	c := New()
	c.Replace(s)
	return c
}

func (c *Catalog) Replace(s *Snapshot) {
	byID := make(map[string]domain.Product, len(s.Products))
	for _, p := range s.Products {
		byID[p.ID] = p
	}
	c.mu.Lock()
	c.products = s.Products
	c.byID = byID
	c.categories = s.Categories
	c.featured = s.Featured
	c.mu.Unlock()
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]domain.Product, 0, len(c.products)), c.products...)
}

func (c *Catalog) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]domain.Category, 0, len(c.categories)), c.categories...)
}

// Featured resolves the featured ids against the loaded products, dropping unknown ids
func (c *Catalog) Featured() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, 0, len(c.featured))
	for _, id := range c.featured {
		if p, ok := c.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
