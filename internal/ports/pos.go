package ports

import (
	"context"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
)

// CatalogAPI covers categories and products.
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]pos.Category, error)
	GetCategory(ctx context.Context, id int64) (pos.Category, error)
	CreateCategory(ctx context.Context, in pos.CategoryInput) (pos.Category, error)
	UpdateCategory(ctx context.Context, id int64, in pos.CategoryInput) (pos.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, q pos.ProductQuery) (pos.Page[pos.Product], error)
	GetProduct(ctx context.Context, id int64) (pos.Product, error)
	FindProductByCode(ctx context.Context, code string) (pos.Product, error)
	CreateProduct(ctx context.Context, in pos.ProductInput) (pos.Product, error)
	UpdateProduct(ctx context.Context, id int64, in pos.ProductInput) (pos.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	LowStockProducts(ctx context.Context) ([]pos.Product, error)
}

// SalesAPI covers sales and their statistics.
type SalesAPI interface {
	ListSales(ctx context.Context, q pos.SaleQuery) (pos.Page[pos.Sale], error)
	GetSale(ctx context.Context, id int64) (pos.Sale, error)
	CreateSale(ctx context.Context, in pos.NewSale) (pos.Sale, error)
	CancelSale(ctx context.Context, id int64) (pos.Sale, error)
	SaleStats(ctx context.Context, q pos.SaleQuery) (pos.SaleStats, error)
}

// StaffAPI covers operator accounts.
type StaffAPI interface {
	ListStaff(ctx context.Context) ([]domainauth.Identity, error)
	CreateStaff(ctx context.Context, in pos.StaffInput) (domainauth.Identity, error)
	UpdateStaff(ctx context.Context, id int64, in pos.StaffInput) (domainauth.Identity, error)
	DeleteStaff(ctx context.Context, id int64) error
}
