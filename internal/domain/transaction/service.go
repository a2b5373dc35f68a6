package transaction

import (
	"context"
	"fmt"

	"tillbox/internal/core/apperror"
	"tillbox/internal/core/tx"
	"tillbox/internal/core/types"
	"tillbox/internal/domain/catalogs/product"
	"tillbox/internal/domain/listing"
	"tillbox/pkg/logger"
)

// ProductSource resolves product references when a document is recorded.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
}

// NumberGenerator issues sequential document numbers. It must participate in
// the caller's database transaction so a failed create never burns a number.
type NumberGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Service implements transaction business logic.
type Service struct {
	repo      Repository
	products  ProductSource
	numbers   NumberGenerator
	txManager tx.Manager
}

// NewService creates a transaction service.
func NewService(repo Repository, products ProductSource, numbers NumberGenerator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Create validates and records a transaction document for the given user.
// Product references are resolved up front so unit prices can default from
// the catalog; structural and referential violations are reported together.
// The document number, header and lines are written in one database
// transaction.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*Transaction, error) {
	doc := NewTransaction(req.Type, req.Note, userID)

	var refFields []apperror.FieldError
	for i, item := range req.Items {
		var (
			name  string
			price types.Money
		)
		if item.Price != nil {
			price = *item.Price
		} else {
			price = types.Zero()
		}

		if item.ProductID > 0 {
			p, err := s.products.GetByID(ctx, item.ProductID)
			switch {
			case apperror.IsNotFound(err) || (err == nil && p.DeletionMark):
				refFields = append(refFields, apperror.FieldError{
					Field:   fmt.Sprintf("items[%d].productId", i),
					Message: "references an unknown product",
				})
			case err != nil:
				return nil, err
			default:
				name = p.Name
				if item.Price == nil {
					price = catalogPrice(req.Type, p)
				}
			}
		}

		doc.AddLine(item.ProductID, name, item.Quantity, price)
	}

	if err := mergeViolations(doc.Validate(ctx), refFields); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, NumberPrefix)
		if err != nil {
			return fmt.Errorf("generate transaction number: %w", err)
		}
		doc.Number = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save transaction lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transaction recorded",
		"id", doc.ID,
		"number", doc.Number,
		"type", doc.Type,
		"items", len(doc.Lines))

	return doc, nil
}

// GetByID retrieves a transaction with its lines. Soft-deleted documents are
// reported as missing.
func (s *Service) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("transaction", id)
		}
		return nil, err
	}
	if doc.DeletionMark {
		return nil, apperror.NewNotFound("transaction", id)
	}

	lines, err := s.repo.GetLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transaction lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List returns one page of transactions with lines attached. Lines for the
// whole page are fetched in a single query and stitched onto the headers, so
// page order is preserved.
func (s *Service) List(ctx context.Context, q listing.Query) (listing.Result[*Transaction], error) {
	res, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Result[*Transaction]{}, err
	}
	if len(res.Rows) == 0 {
		return res, nil
	}

	ids := make([]int64, len(res.Rows))
	for i, doc := range res.Rows {
		ids[i] = doc.ID
	}
	lines, err := s.repo.LoadLines(ctx, ids)
	if err != nil {
		return listing.Result[*Transaction]{}, fmt.Errorf("load transaction lines: %w", err)
	}
	for _, doc := range res.Rows {
		doc.Lines = lines[doc.ID]
	}

	return res, nil
}

// catalogPrice picks the default unit price for a document type.
func catalogPrice(txType string, p *product.Product) types.Money {
	if txType == TypeSale {
		return p.SellingPrice
	}
	return p.PurchasePrice
}

// mergeViolations folds referential field errors into the structural
// validation result so the client sees every violation at once.
func mergeViolations(structural error, referential []apperror.FieldError) error {
	if structural == nil && len(referential) == 0 {
		return nil
	}
	fields := referential
	if structural != nil {
		appErr, ok := apperror.AsAppError(structural)
		if !ok {
			return structural
		}
		fields = append(appErr.Fields(), referential...)
	}
	return apperror.NewValidationFields(fields...)
}
