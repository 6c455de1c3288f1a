// Package clients holds the JSON-over-HTTP adapters for the external user
// service (balances and profiles) and the external conversion service. The
// adapters keep no local state; every fault is mapped onto the two-tier
// split the orchestrator relies on: a transport/protocol failure becomes a
// *ServiceUnavailable fault (transient, retryable by callers) and a
// successful call with an empty payload becomes a *NotFound fault
// (confirmed absence, not retryable).
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

// UserServiceClient implements domain.BalanceGateway against the external
// user/ledger service.
type UserServiceClient struct {
	baseURL string
	client  *http.Client
}

// NewUserServiceClient creates a new UserServiceClient.
func NewUserServiceClient(baseURL string, timeout time.Duration) *UserServiceClient {
	return &UserServiceClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type balancePayload struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type profilePayload struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	CPF         string          `json:"cpf"`
	Institution string          `json:"institution"`
	Agency      string          `json:"agency"`
	Account     string          `json:"account"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	Cellphone   string          `json:"cellphone"`
}

// GetBalance returns the account's balance and currency.
func (c *UserServiceClient) GetBalance(ctx context.Context, accountID string) (domain.Balance, error) {
	url := fmt.Sprintf("%s/balance/%s", c.baseURL, accountID)

	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Balance{}, err
	}
	if emptyPayload(body) {
		return domain.Balance{}, domain.ErrBalanceNotFound
	}

	var payload balancePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Balance{}, fmt.Errorf("%w: invalid balance payload: %v", domain.ErrAccountServiceUnavailable, err)
	}

	return domain.Balance{Value: payload.Balance, Currency: payload.Currency}, nil
}

// SetBalance replaces the account's balance with an absolute value.
//
// There is no optimistic-concurrency token on this write: the remote
// contract accepts only the new absolute balance, leaving a race window
// between the preceding read and this write.
func (c *UserServiceClient) SetBalance(ctx context.Context, accountID string, newBalance decimal.Decimal) error {
	url := fmt.Sprintf("%s/balance/%s", c.baseURL, accountID)

	reqBody, err := json.Marshal(struct {
		Balance json.Number `json:"balance"`
	}{Balance: json.Number(newBalance.String())})
	if err != nil {
		return fmt.Errorf("marshal balance: %w", err)
	}

	body, err := c.do(ctx, http.MethodPatch, url, reqBody)
	if err != nil {
		return err
	}
	if emptyPayload(body) {
		return domain.ErrBalanceNotFound
	}

	return nil
}

// GetProfile returns the account's display profile.
func (c *UserServiceClient) GetProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	url := fmt.Sprintf("%s/user/%s", c.baseURL, accountID)

	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Profile{}, err
	}
	if emptyPayload(body) {
		return domain.Profile{}, domain.ErrUserNotFound
	}

	var payload profilePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: invalid profile payload: %v", domain.ErrAccountServiceUnavailable, err)
	}

	profile := domain.Profile{
		AccountID:     payload.ID,
		Name:          payload.Name,
		TaxID:         payload.CPF,
		Institution:   payload.Institution,
		Agency:        payload.Agency,
		AccountNumber: payload.Account,
		Currency:      payload.Currency,
		Balance:       payload.Balance,
		Cellphone:     payload.Cellphone,
	}
	if profile.AccountID == "" {
		profile.AccountID = accountID
	}

	return profile, nil
}

// do issues one request and returns the response body. Any transport error
// or non-2xx status is mapped to domain.ErrAccountServiceUnavailable.
func (c *UserServiceClient) do(ctx context.Context, method, url string, reqBody []byte) ([]byte, error) {
	var reader io.Reader
	if reqBody != nil {
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAccountServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrAccountServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrAccountServiceUnavailable, resp.StatusCode)
	}

	return body, nil
}

// emptyPayload reports whether a successful response carried no usable
// payload. The remote services answer 200 with an empty or null body when
// the entity does not exist.
func emptyPayload(body []byte) bool {
	trimmed := string(bytes.TrimSpace(body))
	return trimmed == "" || trimmed == "null" || trimmed == "{}"
}
