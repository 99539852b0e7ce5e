// Package predict talks to the box recommendation service. The service takes
// the estimated item dimensions of an order and answers with a box size,
// category, filler and environmental savings.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/BoxPack/internal/model"
)

// ErrNoItems is returned when a request carries no items.
var ErrNoItems = errors.New("no items provided")

// Default values used when the service cannot be reached.
const (
	FallbackCategory = "Medium"
	FallbackFiller   = "Paper"
)

// Predictor recommends packaging for a set of items.
type Predictor interface {
	Predict(ctx context.Context, req Request) (Recommendation, error)
}

// RequestItem is one order line as sent to the service.
type RequestItem struct {
	Name     string  `json:"name,omitempty"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Depth    float64 `json:"depth"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
}

// Request is the body of a prediction call.
type Request struct {
	Items []RequestItem `json:"items"`
}

// NewRequest builds a request from order items.
func NewRequest(items []model.OrderItem) Request {
	req := Request{Items: make([]RequestItem, 0, len(items))}
	for _, it := range items {
		req.Items = append(req.Items, RequestItem{
			Name:     it.Name,
			Width:    it.Width,
			Height:   it.Height,
			Depth:    it.Depth,
			Weight:   it.Weight,
			Quantity: it.Units(),
		})
	}
	return req
}

// Impact is the environmental saving block of a recommendation.
type Impact struct {
	PlasticSavedKg float64 `json:"Plastic_Saved_kg"`
	CO2SavedKg     float64 `json:"CO2_Saved_kg"`
}

// Recommendation is the service's answer. Field names follow its wire format.
type Recommendation struct {
	PackagingType         string `json:"Packaging_Type"`
	BoxDimensions         string `json:"Box_Dimensions"`
	BoxCategory           string `json:"Box_Category"`
	FillerType            string `json:"Filler_Type"`
	FillerAmount          string `json:"Filler_Amount"`
	WeatherRecommendation string `json:"Weather_Recommendation"`
	Impact                Impact `json:"Environmental_Impact"`
	CostSavingsPerUnit    string `json:"Cost_Savings_Per_Unit"`
	FitStatus             string `json:"Fit_Status"`
	Arrangement           string `json:"Arrangement,omitempty"`
	EcoMaterialSwap       string `json:"Eco_Material_Swap,omitempty"`
	AnomalyLabel          string `json:"Anomaly_Label,omitempty"`
	FixSuggestion         string `json:"Fix_Suggestion,omitempty"`
}

// Fallback returns the recommendation used when the service fails.
func Fallback() Recommendation {
	return Recommendation{
		BoxCategory: FallbackCategory,
		FillerType:  FallbackFiller,
	}
}

// BoxInfo converts the recommendation into the summary stored on an order.
// Missing category and filler are filled from the fallback.
func (r Recommendation) BoxInfo() model.BoxInfo {
	info := model.BoxInfo{
		Dimensions:    r.BoxDimensions,
		Category:      r.BoxCategory,
		Filler:        r.FillerType,
		WeatherAdvice: r.WeatherRecommendation,
		Impact: model.Impact{
			CO2SavedKg:     r.Impact.CO2SavedKg,
			PlasticSavedKg: r.Impact.PlasticSavedKg,
		},
	}
	if info.Category == "" {
		info.Category = FallbackCategory
	}
	if info.Filler == "" {
		info.Filler = FallbackFiller
	}
	return info
}

// defaultSide stands in for a missing item dimension, matching the service.
const defaultSide = 10.0

// CubeSide returns the side of the cube the service proposes for items: the
// cube root of their total volume plus 20%, rounded to two decimals.
func CubeSide(items []RequestItem) float64 {
	total := 0.0
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += orDefault(it.Width) * orDefault(it.Height) * orDefault(it.Depth) * float64(qty)
	}
	return math.Round(math.Cbrt(total)*1.2*100) / 100
}

func orDefault(v float64) float64 {
	if v > 0 {
		return v
	}
	return defaultSide
}

// ParseBoxDimensions parses "AxBxC" with an optional unit suffix such as
// "33.6x33.6x33.6 inches". The three values map to width, height and depth.
func ParseBoxDimensions(s string) (model.Dims, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return model.Dims{}, fmt.Errorf("empty box dimensions")
	}
	parts := strings.Split(strings.ToLower(fields[0]), "x")
	if len(parts) != 3 {
		return model.Dims{}, fmt.Errorf("box dimensions %q: expected AxBxC", s)
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || !(v > 0) || math.IsInf(v, 0) {
			return model.Dims{}, fmt.Errorf("box dimensions %q: invalid value %q", s, p)
		}
		vals[i] = v
	}
	return model.Dims{Width: vals[0], Height: vals[1], Depth: vals[2]}, nil
}
