// Package pos holds the records exchanged with the POS API: catalog, sales and staff.
package pos

import "time"

// Category groups products in the catalog.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Description *string   `json:"descripcion"`
	Active      bool      `json:"activa"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
	Active      *bool   `json:"activa,omitempty"`
}

// Product is a sellable catalog item.
type Product struct {
	ID          int64     `json:"id"`
	Code        string    `json:"codigo"`
	Name        string    `json:"nombre"`
	Description *string   `json:"descripcion"`
	Price       float64   `json:"precio"`
	Cost        float64   `json:"costo"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"stockMinimo"`
	CategoryID  int64     `json:"categoriaId"`
	Active      bool      `json:"activo"`
	Image       *string   `json:"imagen"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Category    *Category `json:"categoria,omitempty"`
}

// LowStock reports whether the product is at or below its minimum stock.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Code        string  `json:"codigo"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Cost        float64 `json:"costo"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"stockMinimo"`
	CategoryID  int64   `json:"categoriaId"`
	Active      *bool   `json:"activo,omitempty"`
}

// ProductQuery filters the product listing.
type ProductQuery struct {
	Page       int
	Limit      int
	Search     string
	CategoryID int64
}
