package pos

import (
	"fmt"
	"time"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// PaymentMethod enumerates accepted tenders.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentCard     PaymentMethod = "tarjeta"
	PaymentTransfer PaymentMethod = "transferencia"
)

// PaymentMethods lists the tenders in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer}
}

// Valid reports whether m is an accepted tender.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod converts form input into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completada"
	SaleCancelled SaleStatus = "cancelada"
	SalePending   SaleStatus = "pendiente"
)

// SaleLine is one product row of a sale.
type SaleLine struct {
	ID        int64     `json:"id"`
	SaleID    int64     `json:"ventaId"`
	ProductID int64     `json:"productoId"`
	Quantity  int       `json:"cantidad"`
	UnitPrice float64   `json:"precioUnitario"`
	Subtotal  float64   `json:"subtotal"`
	CreatedAt time.Time `json:"createdAt"`
	Product   *Product  `json:"producto,omitempty"`
}

// Sale is a completed, pending or cancelled ticket.
type Sale struct {
	ID            int64                `json:"id"`
	TicketNumber  string               `json:"numeroTicket"`
	Subtotal      float64              `json:"subtotal"`
	Taxes         float64              `json:"impuestos"`
	Total         float64              `json:"total"`
	PaymentMethod PaymentMethod        `json:"metodoPago"`
	CustomerName  *string              `json:"clienteNombre"`
	CustomerPhone *string              `json:"clienteTelefono"`
	UserID        int64                `json:"usuarioId"`
	Status        SaleStatus           `json:"estado"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	User          *domainauth.Identity `json:"usuario,omitempty"`
	Lines         []SaleLine           `json:"detalles,omitempty"`
}

// Cancellable reports whether the sale can still be cancelled.
func (s Sale) Cancellable() bool {
	return s.Status != SaleCancelled
}

// NewSaleLine is a product/quantity pair submitted at checkout.
type NewSaleLine struct {
	ProductID int64 `json:"productoId"`
	Quantity  int   `json:"cantidad"`
}

// NewSale is the POST /ventas payload.
type NewSale struct {
	Lines         []NewSaleLine `json:"productos"`
	PaymentMethod PaymentMethod `json:"metodoPago"`
	CustomerName  string        `json:"clienteNombre,omitempty"`
	CustomerPhone string        `json:"clienteTelefono,omitempty"`
	Taxes         *float64      `json:"impuestos,omitempty"`
}

// SaleQuery filters the sales listing. Dates are YYYY-MM-DD.
type SaleQuery struct {
	Page  int
	Limit int
	From  string
	To    string
}

// SaleStats is the GET /ventas/estadisticas payload.
type SaleStats struct {
	TotalSales   int     `json:"totalVentas"`
	SalesToday   int     `json:"ventasHoy"`
	TotalRevenue float64 `json:"ingresosTotales"`
	RevenueToday float64 `json:"ingresosHoy"`
}
