package storesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an HTTP client for the storefront service. The zero value is not
// usable; construct with NewClient. Authenticated calls require SetToken (or
// a Register/Login call, which stores the returned credential).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

// NewClient creates a storefront client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken installs an existing session credential for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current session credential, if any.
func (c *Client) Token() string { return c.token }

// Register creates a new identity and stores the returned session credential
// on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*SessionResponse, error) {
	var out SessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/register",
		RegisterRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login authenticates and stores the returned session credential on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	var out SessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/login",
		LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Me returns the identity behind the current session credential.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the server-side cookie and drops the stored credential.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/v1/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Items returns the catalog.
func (c *Client) Items(ctx context.Context) (*ItemsResponse, error) {
	var out ItemsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/items", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Purchased reports whether the authenticated identity owns itemID.
func (c *Client) Purchased(ctx context.Context, itemID string) (*PurchasedResponse, error) {
	var out PurchasedResponse
	path := "/v1/purchased?item=" + url.QueryEscape(itemID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Library returns everything the authenticated identity owns.
func (c *Client) Library(ctx context.Context) (*LibraryResponse, error) {
	var out LibraryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/library", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPurchase asks the server to confirm a payment reference with the
// processor and record the entitlement. Safe to retry with the same reference.
func (c *Client) VerifyPurchase(ctx context.Context, itemID, reference string) (*PurchaseVerifyResponse, error) {
	var out PurchaseVerifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/purchase/verify",
		PurchaseVerifyRequest{ItemID: itemID, Reference: reference}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Download mints a fresh time-limited signed link for an owned item.
func (c *Client) Download(ctx context.Context, itemID string) (*DownloadResponse, error) {
	var out DownloadResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/download", DownloadRequest{ItemID: itemID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez checks the liveness probe.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs one request/response round trip. A non-2xx response comes
// back as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("storesdk: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("storesdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("storesdk: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("storesdk: read response: %w", err)
	}

	if err := parseErrorResponse(resp, raw); err != nil {
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("storesdk: decode response: %w", err)
		}
	}
	return nil
}
