package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SwiftPix/Transference-service/internal/domain"
)

// ConversionClient implements domain.ConversionGateway against the
// external rate service.
type ConversionClient struct {
	baseURL string
	client  *http.Client
}

// NewConversionClient creates a new ConversionClient.
func NewConversionClient(baseURL string, timeout time.Duration) *ConversionClient {
	return &ConversionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type conversionRequest struct {
	SenderCurrency   string      `json:"sender_currency"`
	ReceiverCurrency string      `json:"receiver_currency"`
	Value            json.Number `json:"value"`
}

type conversionResponse struct {
	Result decimal.Decimal `json:"result"`
}

// Convert returns amount expressed in the target currency.
func (c *ConversionClient) Convert(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) (decimal.Decimal, error) {
	reqBody, err := json.Marshal(conversionRequest{
		SenderCurrency:   fromCurrency,
		ReceiverCurrency: toCurrency,
		Value:            json.Number(amount.String()),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("marshal conversion request: %w", err)
	}

	url := c.baseURL + "/conversion"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: read response: %v", domain.ErrRateServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("%w: status %d", domain.ErrRateServiceUnavailable, resp.StatusCode)
	}

	if emptyPayload(body) {
		return decimal.Zero, domain.ErrConversionNotFound
	}

	var payload conversionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid conversion payload: %v", domain.ErrRateServiceUnavailable, err)
	}

	return payload.Result, nil
}
