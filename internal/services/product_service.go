package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
	"github.com/upilabs/go-payment-match-backend/internal/repo"
)

// ParsePriceRange parses an operator price spec. A single whole number
// ("250") means a fixed price; "min-max" ("10-30") means an inclusive range.
// Both bounds must be positive and max must not be below min.
func ParsePriceRange(spec string) (min, max int, err error) {
	spec = strings.TrimSpace(spec)
	lo, hi, ranged := strings.Cut(spec, "-")
	min, err = strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, ErrInvalidPriceRange
	}
	max = min
	if ranged {
		max, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, ErrInvalidPriceRange
		}
	}
	if min < 1 || max < min {
		return 0, 0, ErrInvalidPriceRange
	}
	return min, max, nil
}

// ProductService owns the catalogue consulted at session creation.
type ProductService struct {
	DB *gorm.DB
}

// CreateProductInput describes a new catalogue entry. PriceSpec uses the
// ParsePriceRange grammar.
type CreateProductInput struct {
	ItemID    string
	PriceSpec string
	FileRefs  string
}

// Create validates and inserts a product. A duplicate item id surfaces as
// repo.ErrDuplicate.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	in.ItemID = strings.TrimSpace(in.ItemID)
	if in.ItemID == "" {
		return nil, ErrMissingItemRef
	}
	min, max, err := ParsePriceRange(in.PriceSpec)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{
		ItemID:   in.ItemID,
		MinPrice: min,
		MaxPrice: max,
		FileRefs: in.FileRefs,
	}
	if err := repo.CreateProduct(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one product by item id.
func (s *ProductService) Get(ctx context.Context, itemID string) (*domain.Product, error) {
	p, err := repo.GetProduct(ctx, s.DB, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// ListPage returns a page of products with the total count.
func (s *ProductService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountProducts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Product{}, 0, nil
	}
	items, err := repo.ListProductsPage(ctx, s.DB, (page-1)*pageSize, pageSize)
	return items, total, err
}
