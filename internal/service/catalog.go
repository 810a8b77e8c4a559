package service

import (
	"context"
	"strings"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/ports"
)

const (
	defaultProductPageSize = 20
	// minSearchLen is the shortest search term sent to the API.
	minSearchLen = 2
)

// errMissingFields is the warning shown when a required form field is blank.
func errMissingFields() error {
	return apperrors.Validation("Please fill in all fields")
}

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	API ports.CatalogAPI
}

// CatalogService wraps category and product management with form validation.
type CatalogService struct {
	api ports.CatalogAPI
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	return &CatalogService{api: opts.API}
}

// Categories lists all categories.
func (s *CatalogService) Categories(ctx context.Context) ([]pos.Category, error) {
	out, err := s.api.ListCategories(ctx)
	return out, apperrors.MapAPIError(err)
}

// Category returns one category.
func (s *CatalogService) Category(ctx context.Context, id int64) (pos.Category, error) {
	out, err := s.api.GetCategory(ctx, id)
	return out, apperrors.MapAPIError(err)
}

// SaveCategory creates the category when id is 0 and updates it otherwise.
func (s *CatalogService) SaveCategory(ctx context.Context, id int64, in pos.CategoryInput) (pos.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return pos.Category{}, errMissingFields()
	}
	var (
		out pos.Category
		err error
	)
	if id == 0 {
		out, err = s.api.CreateCategory(ctx, in)
	} else {
		out, err = s.api.UpdateCategory(ctx, id, in)
	}
	return out, apperrors.MapAPIError(err)
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return apperrors.MapAPIError(s.api.DeleteCategory(ctx, id))
}

// Products returns a page of products. Search terms shorter than two
// characters are dropped so single keystrokes do not hit the API.
func (s *CatalogService) Products(ctx context.Context, q pos.ProductQuery) (pos.Page[pos.Product], error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit, defaultProductPageSize)
	q.Search = strings.TrimSpace(q.Search)
	if len([]rune(q.Search)) < minSearchLen {
		q.Search = ""
	}
	if q.CategoryID < 0 {
		q.CategoryID = 0
	}
	out, err := s.api.ListProducts(ctx, q)
	return out, apperrors.MapAPIError(err)
}

// Product returns one product.
func (s *CatalogService) Product(ctx context.Context, id int64) (pos.Product, error) {
	out, err := s.api.GetProduct(ctx, id)
	return out, apperrors.MapAPIError(err)
}

// Lookup finds a product by its barcode.
func (s *CatalogService) Lookup(ctx context.Context, code string) (pos.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return pos.Product{}, apperrors.ValidationField("codigo", "Scan or type a product code")
	}
	out, err := s.api.FindProductByCode(ctx, code)
	if err != nil {
		mapped := apperrors.MapAPIError(err)
		if apperrors.IsNotFound(mapped) {
			return pos.Product{}, apperrors.NotFound("Product not found")
		}
		return pos.Product{}, mapped
	}
	return out, nil
}

// SaveProduct creates the product when id is 0 and updates it otherwise.
func (s *CatalogService) SaveProduct(ctx context.Context, id int64, in pos.ProductInput) (pos.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" || in.CategoryID <= 0 {
		return pos.Product{}, errMissingFields()
	}
	if in.Price < 0 || in.Cost < 0 {
		return pos.Product{}, apperrors.ValidationField("precio", "Prices cannot be negative")
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return pos.Product{}, apperrors.ValidationField("stock", "Stock cannot be negative")
	}
	var (
		out pos.Product
		err error
	)
	if id == 0 {
		out, err = s.api.CreateProduct(ctx, in)
	} else {
		out, err = s.api.UpdateProduct(ctx, id, in)
	}
	return out, apperrors.MapAPIError(err)
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return apperrors.MapAPIError(s.api.DeleteProduct(ctx, id))
}

// LowStock lists products at or below their minimum stock.
func (s *CatalogService) LowStock(ctx context.Context) ([]pos.Product, error) {
	out, err := s.api.LowStockProducts(ctx)
	return out, apperrors.MapAPIError(err)
}
