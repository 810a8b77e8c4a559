package sales

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
)

func strPtr(s string) *string { return &s }

func TestRows(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []pos.Sale{
		{
			ID:           1,
			TicketNumber: "T-0001",
			Total:        116,
			Status:       pos.SaleCompleted,
			CustomerName: strPtr("  Luis  "),
			CreatedAt:    now.Add(-2 * time.Hour),
			User:         &domainauth.Identity{FullName: "Eli Employee"},
		},
		{
			ID:           2,
			TicketNumber: "T-0002",
			Status:       pos.SaleCancelled,
			CreatedAt:    now.Add(-30 * time.Second),
		},
	}

	rows := Rows(in, now)

	require.Len(t, rows, 2)
	assert.Equal(t, "Luis", rows[0].CustomerLabel())
	assert.Equal(t, "Eli Employee", rows[0].Cashier)
	assert.Equal(t, "2 hours ago", rows[0].FriendlyCreatedAt())
	assert.True(t, rows[0].Cancellable)

	assert.Equal(t, "Walk-in", rows[1].CustomerLabel())
	assert.Empty(t, rows[1].Cashier)
	assert.Equal(t, "just now", rows[1].FriendlyCreatedAt())
	assert.False(t, rows[1].Cancellable)
}

func TestCustomerLabel_Truncates(t *testing.T) {
	row := Row{Customer: strings.Repeat("a", 60)}
	label := row.CustomerLabel()

	assert.Equal(t, customerLabelLimit, len([]rune(label)))
	assert.True(t, strings.HasSuffix(label, "…"))
}

func TestNewDetail(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	sale := pos.Sale{
		ID:            3,
		TicketNumber:  "T-0003",
		Subtotal:      100,
		Taxes:         16,
		Total:         116,
		CustomerPhone: strPtr("555-0100"),
		Status:        pos.SaleCompleted,
		CreatedAt:     now,
		Lines: []pos.SaleLine{
			{ProductID: 7, Quantity: 2, UnitPrice: 25, Subtotal: 50, Product: &pos.Product{Code: "750100", Name: "Agua 600ml"}},
			{ProductID: 9, Quantity: 5, UnitPrice: 10, Subtotal: 50},
		},
	}

	d := NewDetail(sale, now)

	assert.Equal(t, "T-0003", d.Ticket)
	assert.InDelta(t, 16, d.Taxes, 0.001)
	assert.Equal(t, "555-0100", d.CustomerPhone)
	assert.Equal(t, 7, d.Units)
	require.Len(t, d.Lines, 2)
	assert.Equal(t, "Agua 600ml", d.Lines[0].Name)
	assert.Equal(t, "750100", d.Lines[0].Code)
	assert.Equal(t, "Product #9", d.Lines[1].Name)
	assert.Empty(t, d.Lines[1].Code)
}
