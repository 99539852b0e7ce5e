// Package cart holds a shopper's pending lines before checkout. Storage is
// behind the Store interface so callers choose between the in-memory store
// and the JSON file store.
package cart

import (
	"errors"
	"fmt"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when a checkout selects no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIndexOutOfRange is returned by Remove for an invalid line index.
	ErrIndexOutOfRange = errors.New("cart line index out of range")
)

// Line is one product added to the cart. Adding the same product twice
// yields two lines.
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Weight    float64         `json:"weight"`
	Dims      model.Dims      `json:"dims"` // Zero when unknown
	Shape     model.Shape     `json:"shape"`
}

// Units returns the quantity, treating anything below one as one.
func (l Line) Units() int {
	if l.Quantity < 1 {
		return 1
	}
	return l.Quantity
}

// Subtotal returns price times units.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Units())))
}

// Store persists cart lines in insertion order.
type Store interface {
	Add(line Line) error
	Remove(index int) error
	List() ([]Line, error)
	Clear() error
}

// Select returns the lines whose mask entry is true. Missing mask entries
// count as unselected.
func Select(lines []Line, mask []bool) []Line {
	var out []Line
	for i, l := range lines {
		if i < len(mask) && mask[i] {
			out = append(out, l)
		}
	}
	return out
}

// Total sums the subtotals of lines.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ToOrderItems converts cart lines to order items.
func ToOrderItems(lines []Line) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			Name:     l.Title,
			Image:    l.Image,
			Category: l.Category,
			Quantity: l.Units(),
			Price:    l.Price,
			Weight:   l.Weight,
			Width:    l.Dims.Width,
			Height:   l.Dims.Height,
			Depth:    l.Dims.Depth,
			Shape:    l.Shape,
		})
	}
	return items
}

func checkIndex(index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("remove line %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	return nil
}
