// Package catalog provides read access to the product catalog, backed by
// MongoDB in production and an in-memory seed for development.
package catalog

import (
	"context"
	"errors"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
}
