// Package mocks provides mock implementations of the console's API ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the interfaces in internal/ports.
// Hand-written doubles for the session ports live in internal/mocks/auth.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	catalog := mocks.NewMockCatalogAPI(ctrl)
//	catalog.EXPECT().LowStockProducts(gomock.Any()).Return(products, nil)
package mocks

// Generate mock for AuthAPI: Login, Register, Logout, Me
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/lubsanchez/pos-console/internal/ports AuthAPI

// Generate mock for CatalogAPI: categories and products
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_api_mock.go github.com/lubsanchez/pos-console/internal/ports CatalogAPI

// Generate mock for SalesAPI: ListSales, GetSale, CreateSale, CancelSale, SaleStats
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sales_api_mock.go github.com/lubsanchez/pos-console/internal/ports SalesAPI

// Generate mock for StaffAPI: ListStaff, CreateStaff, UpdateStaff, DeleteStaff
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=staff_api_mock.go github.com/lubsanchez/pos-console/internal/ports StaffAPI
