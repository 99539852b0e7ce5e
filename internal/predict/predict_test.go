package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "Packaging_Type": "Recycled cardboard box",
  "Box_Dimensions": "36.0x36.0x36.0 inches",
  "Box_Category": "Large",
  "Filler_Type": "Paper wrap",
  "Filler_Amount": "0.3 inch",
  "Weather_Recommendation": "Standard eco-packaging is suitable",
  "Environmental_Impact": {"Plastic_Saved_kg": 0.018, "CO2_Saved_kg": 0.105},
  "Cost_Savings_Per_Unit": "$0.91",
  "Fit_Status": "Acceptable Fit"
}`

func TestClient_Predict(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	rec, err := c.Predict(context.Background(), Request{Items: []RequestItem{{Width: 30, Height: 24, Depth: 36, Weight: 27, Quantity: 1}}})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 27.0, got.Items[0].Weight)

	assert.Equal(t, "Large", rec.BoxCategory)
	assert.Equal(t, "36.0x36.0x36.0 inches", rec.BoxDimensions)
	assert.Equal(t, "Paper wrap", rec.FillerType)
	assert.InDelta(t, 0.105, rec.Impact.CO2SavedKg, 1e-12)
	assert.InDelta(t, 0.018, rec.Impact.PlasticSavedKg, 1e-12)
	assert.Equal(t, "Acceptable Fit", rec.FitStatus)
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "No items provided"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Predict(context.Background(), Request{Items: []RequestItem{{Weight: 1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No items provided")
	assert.Contains(t, err.Error(), "400")
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Predict(context.Background(), Request{Items: []RequestItem{{Weight: 1}}})
	assert.Error(t, err)
}

func TestClient_NoItems(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", time.Second, nil).Predict(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, time.Second, nil).Predict(ctx, Request{Items: []RequestItem{{Weight: 1}}})
	assert.True(t, errors.Is(err, context.Canceled))
}

type failingPredictor struct{}

func (failingPredictor) Predict(context.Context, Request) (Recommendation, error) {
	return Recommendation{}, errors.New("unreachable")
}

func TestPredictOrFallback(t *testing.T) {
	rec, ok := PredictOrFallback(context.Background(), failingPredictor{}, Request{}, nil)
	assert.False(t, ok)
	assert.Equal(t, Fallback(), rec)

	rec, ok = PredictOrFallback(context.Background(), nil, Request{}, nil)
	assert.False(t, ok)
	assert.Equal(t, "Medium", rec.BoxCategory)
}

// ─── Helper Tests ──────────────────────────────────────────

func TestBoxInfoFillsFallbacks(t *testing.T) {
	info := Recommendation{BoxDimensions: "1x2x3"}.BoxInfo()
	assert.Equal(t, "Medium", info.Category)
	assert.Equal(t, "Paper", info.Filler)
	assert.Equal(t, "1x2x3", info.Dimensions)
}

func TestNewRequest(t *testing.T) {
	req := NewRequest([]model.OrderItem{
		{Name: "Mug", Quantity: 0, Price: decimal.NewFromInt(3), Weight: 0.4, Width: 8, Height: 10, Depth: 8},
	})
	require.Len(t, req.Items, 1)
	assert.Equal(t, 1, req.Items[0].Quantity)
	assert.Equal(t, 8.0, req.Items[0].Width)
}

func TestCubeSide(t *testing.T) {
	// 1000 cubic units -> cbrt 10 -> 12.0
	assert.Equal(t, 12.0, CubeSide([]RequestItem{{Width: 10, Height: 10, Depth: 10, Quantity: 1}}))

	// Two units of 500 plus a missing-dims item that counts as 10x10x10.
	side := CubeSide([]RequestItem{
		{Width: 5, Height: 10, Depth: 10, Quantity: 2},
		{Quantity: 1},
	})
	assert.InDelta(t, 15.12, side, 1e-9)
}

func TestParseBoxDimensions(t *testing.T) {
	d, err := ParseBoxDimensions("33.6x30x12.25 inches")
	require.NoError(t, err)
	assert.Equal(t, model.Dims{Width: 33.6, Height: 30, Depth: 12.25}, d)

	d, err = ParseBoxDimensions("10X10X10")
	require.NoError(t, err)
	assert.Equal(t, 10.0, d.Depth)

	for _, bad := range []string{"", "10x10", "axbxc", "10x0x10", "10x-1x10 inches"} {
		_, err := ParseBoxDimensions(bad)
		assert.Error(t, err, bad)
	}
}
