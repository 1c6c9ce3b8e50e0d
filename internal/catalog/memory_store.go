package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

// MemoryStore serves the catalog from memory. It backs development and
// tests when no MongoDB is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]domain.Product)}
}

// NewSeededStore returns a MemoryStore preloaded with the standard
// product line.
func NewSeededStore() *MemoryStore {
	s := NewMemoryStore()
	for _, p := range seedProducts() {
		s.Put(p)
	}
	return s
}

func (s *MemoryStore) Put(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (s *MemoryStore) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStore) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "prod-colibri",
			Slug:        "colibri",
			Name:        "Colibrí",
			Description: "Barril parrillero compacto para reuniones de hasta 15 personas.",
			Price:       12000,
			Category:    "barriles",
			Images:      []string{"/images/products/colibri-1.jpg", "/images/products/colibri-2.jpg"},
			IsRentable:  true,
			InStock:     true,
		},
		{
			ID:          "prod-aguila",
			Slug:        "aguila",
			Name:        "Águila",
			Description: "Barril parrillero mediano con doble parrilla, ideal para 30 invitados.",
			Price:       18000,
			Category:    "barriles",
			Images:      []string{"/images/products/aguila-1.jpg", "/images/products/aguila-2.jpg"},
			IsRentable:  true,
			InStock:     true,
		},
		{
			ID:          "prod-jaguar",
			Slug:        "jaguar",
			Name:        "Jaguar",
			Description: "Barril parrillero de gran formato para eventos de 50 o más personas.",
			Price:       25000,
			Category:    "barriles",
			Images:      []string{"/images/products/jaguar-1.jpg", "/images/products/jaguar-2.jpg"},
			IsRentable:  true,
			InStock:     true,
		},
		{
			ID:          "prod-funda",
			Slug:        "funda-impermeable",
			Name:        "Funda impermeable",
			Description: "Funda de lona tratada para proteger el barril a la intemperie.",
			Price:       950,
			Category:    "accesorios",
			Images:      []string{"/images/products/funda-1.jpg"},
			InStock:     true,
		},
		{
			ID:          "prod-kit-carbon",
			Slug:        "kit-carbon",
			Name:        "Kit de carbón de encino",
			Description: "Carbón de encino de 10kg con iniciador natural.",
			Price:       480,
			Category:    "accesorios",
			Images:      []string{"/images/products/kit-carbon-1.jpg"},
			InStock:     true,
		},
	}
}
