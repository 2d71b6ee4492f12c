// Package payments is the client for the card payment provider (Paystack) used by the
// giving flow, plus webhook verification and payment reference generation.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gracecity/church-backend/internal/provider"
)

const (
	// BaseURL is the Paystack API endpoint.
	BaseURL = "https://api.paystack.co"

	name = "paystack"
)

var (
	ErrNotConfigured = errors.New("payments: secret key not configured")
	// ErrNotCancellable is returned by Cancel for a transaction that has already been paid.
	ErrNotCancellable = errors.New("payments: transaction already completed")
)

// Provider is the payment collaborator used by the donation handlers.
type Provider interface {
	InitializeTransaction(ctx context.Context, req InitRequest) (Checkout, error)
	VerifyTransaction(ctx context.Context, reference string) (Verification, error)
	Cancel(ctx context.Context, reference string) error
	Refund(ctx context.Context, reference string, amount int64) (Refund, error)
}

// Client is an HTTP client for the Paystack transaction API.
type Client struct {
	secretKey   string
	baseURL     string
	callbackURL string
	httpClient  *http.Client
}

// NewClient creates a client. An empty baseURL selects the live API.
func NewClient(secretKey, baseURL, callbackURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		secretKey:   secretKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		callbackURL: callbackURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.secretKey != ""
}

// InitializeTransaction opens a hosted checkout and returns the URL to redirect the donor to.
func (c *Client) InitializeTransaction(ctx context.Context, req InitRequest) (Checkout, error) {
	body := initializeBody{
		Email:       req.Donor.Email,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: c.callbackURL,
		Metadata:    req.Metadata,
	}
	var data initializeData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return Checkout{}, err
	}
	if data.AuthorizationURL == "" {
		return Checkout{}, fmt.Errorf("paystack initialize: empty authorization url")
	}
	ref := data.Reference
	if ref == "" {
		ref = req.Reference
	}
	return Checkout{AuthorizationURL: data.AuthorizationURL, AccessCode: data.AccessCode, Reference: ref}, nil
}

// VerifyTransaction fetches the current state of a transaction.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (Verification, error) {
	var data verifyData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return Verification{}, err
	}
	return Verification{
		Reference:     data.Reference,
		Status:        data.Status,
		TransactionID: data.ID.String(),
		Amount:        data.Amount,
		Currency:      data.Currency,
		Channel:       data.Channel,
		CardLast4:     data.Authorization.Last4,
		PaidAt:        data.PaidAt,
	}, nil
}

// Cancel abandons a checkout. The provider has no cancel endpoint: an unpaid checkout
// simply expires, so Cancel only refuses references that were already paid.
func (c *Client) Cancel(ctx context.Context, reference string) error {
	v, err := c.VerifyTransaction(ctx, reference)
	if err != nil {
		return err
	}
	if v.Status == StatusSuccess {
		return ErrNotCancellable
	}
	return nil
}

// Refund refunds amount minor units of a paid transaction; zero refunds it in full.
func (c *Client) Refund(ctx context.Context, reference string, amount int64) (Refund, error) {
	var data refundData
	if err := c.do(ctx, http.MethodPost, "/refund", refundBody{Transaction: reference, Amount: amount}, &data); err != nil {
		return Refund{}, err
	}
	ref := data.Transaction.Reference
	if ref == "" {
		ref = reference
	}
	return Refund{Reference: ref, Status: data.Status, Amount: data.Amount}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogCall(name, method, path, 0, start, err)
		return fmt.Errorf("paystack request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		err := fmt.Errorf("paystack status %d: %s", resp.StatusCode, msg)
		provider.LogCall(name, method, path, resp.StatusCode, start, err)
		return err
	}
	if decodeErr != nil {
		provider.LogCall(name, method, path, resp.StatusCode, start, decodeErr)
		return fmt.Errorf("decode paystack: %w", decodeErr)
	}
	provider.LogCall(name, method, path, resp.StatusCode, start, nil)

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode paystack data: %w", err)
		}
	}
	return nil
}
