package testutil

import (
	"time"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
)

// ProductBuilder provides a fluent interface for building catalog products for testing.
type ProductBuilder struct {
	p pos.Product
}

// NewProduct creates a ProductBuilder with sensible defaults.
func NewProduct(id int64) *ProductBuilder {
	return &ProductBuilder{p: pos.Product{
		ID:         id,
		Code:       "P-" + time.Unix(id, 0).UTC().Format("150405"),
		Name:       "Producto",
		Price:      10,
		Cost:       6,
		Stock:      20,
		MinStock:   5,
		CategoryID: 1,
		Active:     true,
		CreatedAt:  TestTime(),
		UpdatedAt:  TestTime(),
	}}
}

// WithName sets the product name.
func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.p.Name = name
	return b
}

// WithCode sets the product code.
func (b *ProductBuilder) WithCode(code string) *ProductBuilder {
	b.p.Code = code
	return b
}

// WithPrice sets the unit price.
func (b *ProductBuilder) WithPrice(price float64) *ProductBuilder {
	b.p.Price = price
	return b
}

// WithStock sets current and minimum stock.
func (b *ProductBuilder) WithStock(stock, minStock int) *ProductBuilder {
	b.p.Stock = stock
	b.p.MinStock = minStock
	return b
}

// Inactive marks the product inactive.
func (b *ProductBuilder) Inactive() *ProductBuilder {
	b.p.Active = false
	return b
}

// Build returns the constructed product.
func (b *ProductBuilder) Build() pos.Product {
	return b.p
}

// SaleBuilder provides a fluent interface for building sales for testing.
type SaleBuilder struct {
	s pos.Sale
}

// NewSale creates a SaleBuilder for a completed cash sale.
func NewSale(id int64) *SaleBuilder {
	return &SaleBuilder{s: pos.Sale{
		ID:            id,
		TicketNumber:  "T-" + TestTime().Format("20060102") + "-0001",
		PaymentMethod: pos.PaymentCash,
		UserID:        1,
		Status:        pos.SaleCompleted,
		CreatedAt:     TestTime(),
		UpdatedAt:     TestTime(),
	}}
}

// WithTotal sets subtotal and total, with no taxes.
func (b *SaleBuilder) WithTotal(total float64) *SaleBuilder {
	b.s.Subtotal = total
	b.s.Total = total
	return b
}

// WithStatus sets the sale status.
func (b *SaleBuilder) WithStatus(status pos.SaleStatus) *SaleBuilder {
	b.s.Status = status
	return b
}

// WithPayment sets the payment method.
func (b *SaleBuilder) WithPayment(m pos.PaymentMethod) *SaleBuilder {
	b.s.PaymentMethod = m
	return b
}

// At sets the creation time.
func (b *SaleBuilder) At(t time.Time) *SaleBuilder {
	b.s.CreatedAt = t
	b.s.UpdatedAt = t
	return b
}

// WithTicket sets the ticket number.
func (b *SaleBuilder) WithTicket(ticket string) *SaleBuilder {
	b.s.TicketNumber = ticket
	return b
}

// Build returns the constructed sale.
func (b *SaleBuilder) Build() pos.Sale {
	return b.s
}

// Identity returns a test identity for role.
func Identity(id int64, role domainauth.Role) domainauth.Identity {
	return domainauth.Identity{
		ID:        id,
		FullName:  "Operador " + string(role),
		Email:     string(role) + "@example.com",
		Role:      role,
		CreatedAt: TestTime(),
	}
}
