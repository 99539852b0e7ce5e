package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/piwi3910/BoxPack/internal/logging"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a prediction call when none is configured.
const DefaultTimeout = 10 * time.Second

// Client calls the prediction service over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewClient creates a client for the /predict endpoint at url.
func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: url,
		client:   &http.Client{Timeout: timeout},
		log:      logging.OrNop(log).Named("predict"),
	}
}

// errorBody is what the service sends on failure.
type errorBody struct {
	Error string `json:"error"`
}

// Predict posts req and decodes the recommendation.
func (c *Client) Predict(ctx context.Context, req Request) (Recommendation, error) {
	if len(req.Items) == 0 {
		return Recommendation{}, ErrNoItems
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Recommendation{}, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			return Recommendation{}, fmt.Errorf("prediction service returned status %d: %s", resp.StatusCode, eb.Error)
		}
		return Recommendation{}, fmt.Errorf("prediction service returned status %d: %s", resp.StatusCode, string(data))
	}

	var rec Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		return Recommendation{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debug("prediction received",
		zap.Int("items", len(req.Items)),
		zap.String("category", rec.BoxCategory),
		zap.String("dimensions", rec.BoxDimensions),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rec, nil
}

// PredictOrFallback calls p and returns Fallback() on any error. The second
// result reports whether the service answered.
func PredictOrFallback(ctx context.Context, p Predictor, req Request, log *zap.Logger) (Recommendation, bool) {
	if p == nil {
		return Fallback(), false
	}
	rec, err := p.Predict(ctx, req)
	if err != nil {
		logging.OrNop(log).Warn("box prediction failed, using fallback", zap.Error(err))
		return Fallback(), false
	}
	return rec, true
}
