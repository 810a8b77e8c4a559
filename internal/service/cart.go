package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/session"
)

// CartLine is one product row of the open cart.
type CartLine struct {
	Product  pos.Product
	Quantity int
}

// Subtotal is quantity times the unit price.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.Product.Price
}

// CartSnapshot is a read-only copy of the cart for rendering.
type CartSnapshot struct {
	Lines []CartLine
	Total float64
	Units int
}

// Empty reports whether the snapshot holds no lines.
func (s CartSnapshot) Empty() bool { return len(s.Lines) == 0 }

// Cart is the open sale of the station. It is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
	// key identifies the current contents for checkout retries; any change resets it.
	key string
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts qty units of p in the cart, merging with an existing line.
func (c *Cart) Add(p pos.Product, qty int) error {
	if qty <= 0 {
		return apperrors.ValidationField("cantidad", "Quantity must be at least 1")
	}
	if !p.Active {
		return apperrors.Validationf("%s is not available for sale", p.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(p.ID)
	if i < 0 {
		if err := checkStock(p, qty); err != nil {
			return err
		}
		c.lines = append(c.lines, CartLine{Product: p, Quantity: qty})
		c.key = ""
		return nil
	}
	merged := c.lines[i].Quantity + qty
	if err := checkStock(p, merged); err != nil {
		return err
	}
	// Keep the freshest product data, e.g. a newer stock figure.
	c.lines[i].Product = p
	c.lines[i].Quantity = merged
	c.key = ""
	return nil
}

// SetQuantity changes a line's quantity; qty <= 0 removes the line.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return apperrors.NotFound("Product is not in the cart")
	}
	if qty <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		c.key = ""
		return nil
	}
	if err := checkStock(c.lines[i].Product, qty); err != nil {
		return err
	}
	c.lines[i].Quantity = qty
	c.key = ""
	return nil
}

// Remove drops a line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		c.key = ""
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.key = ""
}

// Snapshot copies the current lines and totals.
func (c *Cart) Snapshot() CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := CartSnapshot{Lines: slices.Clone(c.lines)}
	for _, l := range c.lines {
		snap.Total += l.Subtotal()
		snap.Units += l.Quantity
	}
	return snap
}

// Watch clears the cart whenever the session ends, until ctx is done or
// the subscription closes.
func (c *Cart) Watch(ctx context.Context, sub *session.Subscription) {
	defer sub.Cancel()
	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind == session.EventLogout {
				c.Clear()
			}
		}
	}
}

// order returns the checkout lines and the idempotency key for them.
// The key stays the same until the contents change.
func (c *Cart) order() ([]pos.NewSaleLine, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return nil, ""
	}
	if c.key == "" {
		c.key = uuid.NewString()
	}
	out := make([]pos.NewSaleLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, pos.NewSaleLine{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return out, c.key
}

// clearIfUnchanged empties the cart only if it still holds the order keyed by key.
func (c *Cart) clearIfUnchanged(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" || c.key != key {
		return false
	}
	c.lines = nil
	c.key = ""
	return true
}

func (c *Cart) indexOf(productID int64) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool { return l.Product.ID == productID })
}

func checkStock(p pos.Product, qty int) error {
	if qty > p.Stock {
		return apperrors.ValidationField("cantidad", fmt.Sprintf("Only %d units of %s in stock", p.Stock, p.Name))
	}
	return nil
}
