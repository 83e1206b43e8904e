// Package paystack implements the payment verification gateway against a
// Paystack-compatible transaction API.
package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/pkg/slogx"
)

const (
	// DefaultBaseURL is the production Paystack API endpoint.
	DefaultBaseURL = "https://api.paystack.co"

	// defaultTimeout bounds each verification call. Verification is
	// idempotent at the processor, so a timed-out call is safe to retry.
	defaultTimeout = 10 * time.Second

	// retryBackoff is the pause before the single retry of a timed-out call.
	retryBackoff = 500 * time.Millisecond

	// statusSuccess is the processor's terminal success state.
	statusSuccess = "success"
)

// Client verifies payment references against the processor's
// transaction-lookup endpoint using a bearer secret.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

// New creates a gateway client. An empty baseURL selects the production
// endpoint. The secret comes from the environment and is never logged.
func New(baseURL, secret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		http:    &http.Client{Timeout: defaultTimeout},
		sleep:   time.Sleep,
	}
}

// verifyResponse mirrors the fields of the processor's verification payload
// that we consume. Everything else is ignored.
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// Verify looks up a transaction by reference and validates its integrity
// against the expected price. The comparison is exact: integer minor
// currency units, no tolerance, and an exact currency-code match.
//
// The returned VerifiedTransaction is evidence of payment, not a grant;
// callers must still run the ledger's idempotent insert.
func (c *Client) Verify(ctx context.Context, reference string, expectedAmount int64, expectedCurrency string) (domain.VerifiedTransaction, error) {
	var zero domain.VerifiedTransaction

	if strings.TrimSpace(reference) == "" {
		return zero, &domain.PaymentError{Kind: domain.PaymentNotFound, Reference: reference}
	}

	resp, err := c.lookup(ctx, reference)
	if err != nil {
		return zero, err
	}

	if !resp.Status {
		return zero, &domain.PaymentError{Kind: domain.PaymentNotFound, Reference: reference}
	}
	if resp.Data.Status != statusSuccess {
		return zero, &domain.PaymentError{
			Kind:      domain.PaymentNotSuccessful,
			Reference: reference,
			Status:    resp.Data.Status,
		}
	}
	if resp.Data.Amount != expectedAmount {
		return zero, &domain.PaymentError{
			Kind:      domain.PaymentAmountMismatch,
			Reference: reference,
			Err:       fmt.Errorf("settled %d, expected %d", resp.Data.Amount, expectedAmount),
		}
	}
	if resp.Data.Currency != expectedCurrency {
		return zero, &domain.PaymentError{
			Kind:      domain.CurrencyMismatch,
			Reference: reference,
			Err:       fmt.Errorf("settled %q, expected %q", resp.Data.Currency, expectedCurrency),
		}
	}

	return domain.VerifiedTransaction{
		Reference: reference,
		Amount:    resp.Data.Amount,
		Currency:  resp.Data.Currency,
		Status:    resp.Data.Status,
	}, nil
}

// lookup performs the GET /transaction/verify/{reference} call. A timeout is
// retried exactly once after a short backoff; verification is idempotent at
// the processor so the retry cannot double-charge.
func (c *Client) lookup(ctx context.Context, reference string) (*verifyResponse, error) {
	resp, err := c.doLookup(ctx, reference)
	if err == nil || !isTimeout(err) {
		return resp, err
	}

	slogx.FromContext(ctx).Warn("payment verification timed out, retrying once", "reference", reference)
	c.sleep(retryBackoff)

	resp, err = c.doLookup(ctx, reference)
	if err != nil && isTimeout(err) {
		return nil, &domain.PaymentError{Kind: domain.PaymentGatewayTimeout, Reference: reference, Err: err}
	}
	return resp, err
}

func (c *Client) doLookup(ctx context.Context, reference string) (*verifyResponse, error) {
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("paystack: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("paystack: read response: %w", err)
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, &domain.PaymentError{Kind: domain.PaymentNotFound, Reference: reference}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &domain.PaymentError{
			Kind:      domain.PaymentNotSuccessful,
			Reference: reference,
			Err:       fmt.Errorf("processor returned HTTP %d", res.StatusCode),
		}
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("paystack: decode response: %w", err)
	}

	return &parsed, nil
}

// isTimeout reports whether err is a transient timeout worth one retry.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
