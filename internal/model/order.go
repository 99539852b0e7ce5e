package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPaid      OrderStatus = "Paid"
	StatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus matches a status name case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "paid":
		return StatusPaid, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	default:
		return "", false
	}
}

// Customer is the identity attached to an order. It comes from the identity
// provider and is treated as opaque, read-only data.
type Customer struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
}

// Name returns the display name, the email, or "Anonymous".
func (c Customer) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Email != "" {
		return c.Email
	}
	return "Anonymous"
}

// OrderItem is one ordered product with its estimated packing dimensions.
type OrderItem struct {
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Weight   float64         `json:"weight"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Depth    float64         `json:"depth"`
	Shape    Shape           `json:"shape"`
}

// Units returns the quantity, treating anything below one as one.
func (oi OrderItem) Units() int {
	if oi.Quantity < 1 {
		return 1
	}
	return oi.Quantity
}

// Impact is the environmental saving reported by the box predictor.
type Impact struct {
	CO2SavedKg     float64 `json:"co2_saved_kg"`
	PlasticSavedKg float64 `json:"plastic_saved_kg"`
}

// BoxInfo is the packaging recommendation stored with an order.
type BoxInfo struct {
	Dimensions    string `json:"dimensions"`
	Category      string `json:"category"`
	Filler        string `json:"filler"`
	Impact        Impact `json:"impact"`
	WeatherAdvice string `json:"weather_advice"`
}

// Order is a placed customer order.
type Order struct {
	ID            string          `json:"id"`
	Customer      string          `json:"customer"`
	CustomerImage string          `json:"customer_image,omitempty"`
	Type          string          `json:"type"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	Address       string          `json:"address"`
	Date          time.Time       `json:"date"`
	Total         decimal.Decimal `json:"total"`
	Items         []OrderItem     `json:"items"`
	BoxInfo       BoxInfo         `json:"box_info"`
}

// Units returns the total number of physical units in the order.
func (o Order) Units() int {
	n := 0
	for _, it := range o.Items {
		n += it.Units()
	}
	return n
}

// ImportStats accumulates the warehouse's imported order counters.
type ImportStats struct {
	Total     int             `json:"total"`
	Revenue   decimal.Decimal `json:"revenue"`
	Paid      int             `json:"paid"`
	Cancelled int             `json:"cancelled"`
	Pending   int             `json:"pending"`
}

// Add returns the sum of s and o.
func (s ImportStats) Add(o ImportStats) ImportStats {
	return ImportStats{
		Total:     s.Total + o.Total,
		Revenue:   s.Revenue.Add(o.Revenue),
		Paid:      s.Paid + o.Paid,
		Cancelled: s.Cancelled + o.Cancelled,
		Pending:   s.Pending + o.Pending,
	}
}

// Count adds one order to the counters.
func (s *ImportStats) Count(o Order) {
	s.Total++
	s.Revenue = s.Revenue.Add(o.Total)
	switch o.Status {
	case StatusPaid:
		s.Paid++
	case StatusCancelled:
		s.Cancelled++
	case StatusPending:
		s.Pending++
	}
}
