package paystack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taxc/storefront/internal/shop/domain"
)

// newMockProcessor serves a Paystack-shaped verification endpoint.
func newMockProcessor(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(srv.URL, "sk_test_secret")
	c.sleep = func(time.Duration) {}
	return c
}

func successBody(status string, amount int64, currency string) string {
	return fmt.Sprintf(`{"status":true,"message":"Verification successful","data":{"status":%q,"amount":%d,"currency":%q}}`,
		status, amount, currency)
}

func TestVerifySuccess(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		fmt.Fprint(w, successBody("success", 90000, "NGN"))
	})

	tx, err := c.Verify(context.Background(), "ref123", 90000, "NGN")
	require.NoError(t, err)
	require.Equal(t, "ref123", tx.Reference)
	require.Equal(t, int64(90000), tx.Amount)
	require.Equal(t, "NGN", tx.Currency)

	require.Equal(t, "Bearer sk_test_secret", gotAuth)
	require.Equal(t, "/transaction/verify/ref123", gotPath)
}

func TestVerifyNotFound(t *testing.T) {
	t.Parallel()

	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status":false,"message":"Transaction reference not found"}`)
	})

	_, err := c.Verify(context.Background(), "missing-ref", 90000, "NGN")
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestVerifyNotSuccessfulPropagatesStatus(t *testing.T) {
	t.Parallel()

	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, successBody("abandoned", 90000, "NGN"))
	})

	_, err := c.Verify(context.Background(), "ref-abandoned", 90000, "NGN")
	require.ErrorIs(t, err, domain.ErrPaymentNotSuccessful)

	var pe *domain.PaymentError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "abandoned", pe.Status)
}

func TestVerifyAmountMismatch(t *testing.T) {
	t.Parallel()

	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, successBody("success", 50000, "NGN"))
	})

	// Expected ₦900 in kobo, processor settled ₦500.
	_, err := c.Verify(context.Background(), "ref-short", 90000, "NGN")
	require.ErrorIs(t, err, domain.ErrAmountMismatch)
}

func TestVerifyCurrencyMismatch(t *testing.T) {
	t.Parallel()

	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, successBody("success", 90000, "USD"))
	})

	// Amount matches exactly but the settled currency is wrong.
	_, err := c.Verify(context.Background(), "ref-usd", 90000, "NGN")
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestVerifyEmptyReference(t *testing.T) {
	t.Parallel()

	c := New("http://unused.invalid", "sk_test_secret")
	_, err := c.Verify(context.Background(), "  ", 90000, "NGN")
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestVerifyRetriesOnceOnTimeout(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond) // first call exceeds the client timeout
		}
		fmt.Fprint(w, successBody("success", 90000, "NGN"))
	})
	c.http.Timeout = 50 * time.Millisecond

	tx, err := c.Verify(context.Background(), "ref-retry", 90000, "NGN")
	require.NoError(t, err)
	require.Equal(t, int64(90000), tx.Amount)
	require.Equal(t, int32(2), calls.Load())
}

func TestVerifyGatewayTimeoutAfterRetry(t *testing.T) {
	t.Parallel()

	c := newMockProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, successBody("success", 90000, "NGN"))
	})
	c.http.Timeout = 50 * time.Millisecond

	_, err := c.Verify(context.Background(), "ref-slow", 90000, "NGN")
	require.ErrorIs(t, err, domain.ErrGatewayTimeout)
	require.NotErrorIs(t, err, domain.ErrPaymentNotSuccessful)
}
