package storesdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taxc/storefront/pkg/httpx"
)

// API error codes. Clients branch on these, never on descriptions.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeNotAuthenticated   = "not_authenticated"
	ErrorCodeDuplicateIdentity  = "duplicate_identity"
	ErrorCodeBadCredentials     = "bad_credentials"
	ErrorCodeItemNotFound       = "item_not_found"
	ErrorCodePaymentNotFound    = "payment_not_found"
	ErrorCodePaymentNotSuccess  = "payment_not_successful"
	ErrorCodeAmountMismatch     = "amount_mismatch"
	ErrorCodeCurrencyMismatch   = "currency_mismatch"
	ErrorCodeGatewayTimeout     = "gateway_timeout"
	ErrorCodeDuplicateReference = "duplicate_reference"
	ErrorCodeNotEntitled        = "not_entitled"
	ErrorCodeStorageUnavailable = "storage_unavailable"
	ErrorCodeServerError        = "server_error"
)

// APIError is the wire error shape shared by the server handlers and the SDK
// client. It implements the error interface on both sides.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrNotAuthenticated covers every credential failure on protected
	// endpoints. Expired and invalid credentials are deliberately not
	// distinguishable from outside.
	ErrNotAuthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeNotAuthenticated,
		Description: "a valid session is required",
	}

	ErrDuplicateIdentity = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateIdentity,
		Description: "an account with this email already exists",
	}

	// ErrBadCredentials is identical for unknown email and wrong password.
	ErrBadCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeBadCredentials,
		Description: "email or password is incorrect",
	}

	ErrItemNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeItemNotFound,
		Description: "no such catalog item",
	}

	ErrPaymentNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodePaymentNotFound,
		Description: "the payment processor has no record of this reference",
	}

	ErrPaymentNotSuccessful = &APIError{
		StatusCode:  http.StatusPaymentRequired,
		Code:        ErrorCodePaymentNotSuccess,
		Description: "the transaction did not complete successfully",
	}

	ErrAmountMismatch = &APIError{
		StatusCode:  http.StatusPaymentRequired,
		Code:        ErrorCodeAmountMismatch,
		Description: "the amount paid does not match the item price",
	}

	ErrCurrencyMismatch = &APIError{
		StatusCode:  http.StatusPaymentRequired,
		Code:        ErrorCodeCurrencyMismatch,
		Description: "the payment currency does not match the item currency",
	}

	ErrGatewayTimeout = &APIError{
		StatusCode:  http.StatusGatewayTimeout,
		Code:        ErrorCodeGatewayTimeout,
		Description: "the payment processor did not respond in time, retry later",
	}

	ErrDuplicateReference = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateReference,
		Description: "this payment reference has already funded a different purchase",
	}

	ErrNotEntitled = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeNotEntitled,
		Description: "this account does not own the requested item",
	}

	ErrStorageUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeStorageUnavailable,
		Description: "the file store is temporarily unavailable",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx HTTP response into a typed *APIError.
// Returns nil for success responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
