package stock

import (
	"context"

	"tillbox/internal/core/apperror"
	"tillbox/internal/domain/listing"
)

// ProductChecker reports whether a product id references an active product.
type ProductChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service implements stock queries.
type Service struct {
	repo     Repository
	products ProductChecker
}

// NewService creates a stock service.
func NewService(repo Repository, products ProductChecker) *Service {
	return &Service{repo: repo, products: products}
}

// List returns one page of the stock view.
func (s *Service) List(ctx context.Context, q listing.Query) (listing.Result[*Item], error) {
	return s.repo.List(ctx, q)
}

// History returns one page of a product's movement history. Unknown or
// soft-deleted products are reported as missing rather than returning an
// empty page.
func (s *Service) History(ctx context.Context, productID int64, q listing.Query) (listing.Result[*Movement], error) {
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return listing.Result[*Movement]{}, err
	}
	if !ok {
		return listing.Result[*Movement]{}, apperror.NewNotFound("product", productID)
	}
	return s.repo.History(ctx, productID, q)
}
