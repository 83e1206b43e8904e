package domain

import "fmt"

// Error kinds, grouped per component. Handlers branch on kind, never on
// message text.
const (
	// Auth
	AuthInvalidCredential = "invalid_credential"
	AuthExpired           = "credential_expired"
	AuthDuplicateIdentity = "duplicate_identity"
	AuthBadPassword       = "bad_password"

	// Payment
	PaymentNotFound       = "payment_not_found"
	PaymentNotSuccessful  = "payment_not_successful"
	PaymentAmountMismatch = "amount_mismatch"
	CurrencyMismatch      = "currency_mismatch"
	PaymentGatewayTimeout = "gateway_timeout"

	// Ledger
	LedgerDuplicateReference = "duplicate_reference"

	// Delivery
	DeliveryNotEntitled        = "not_entitled"
	DeliveryStorageUnavailable = "storage_unavailable"
)

// AuthError reports an identity or credential failure. Callers surface all
// kinds uniformly as "not authenticated" (except registration conflicts);
// the kind exists so server-side logs can distinguish causes.
type AuthError struct {
	Kind string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return "auth: " + e.Kind
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any AuthError of the same kind, so wrapped instances compare
// equal to the package sentinels below.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// PaymentError reports why a payment reference could not fund an
// entitlement. Kind is surfaced to the client (the user needs to know why a
// payment did not register); Status and the wrapped error stay in logs.
type PaymentError struct {
	Kind      string
	Reference string
	Status    string // processor transaction state, for NotSuccessful
	Err       error
}

func (e *PaymentError) Error() string {
	msg := "payment: " + e.Kind
	if e.Reference != "" {
		msg += " (ref " + e.Reference + ")"
	}
	if e.Status != "" {
		msg += " status=" + e.Status
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PaymentError) Unwrap() error { return e.Err }

func (e *PaymentError) Is(target error) bool {
	t, ok := target.(*PaymentError)
	return ok && t.Kind == e.Kind
}

// LedgerError reports an entitlement-ledger conflict.
type LedgerError struct {
	Kind   string
	TxnRef string
	Err    error
}

func (e *LedgerError) Error() string {
	msg := "ledger: " + e.Kind
	if e.TxnRef != "" {
		msg += " (ref " + e.TxnRef + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LedgerError) Unwrap() error { return e.Err }

func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	return ok && t.Kind == e.Kind
}

// DeliveryError reports why a signed link could not be minted.
type DeliveryError struct {
	Kind string
	Err  error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery: %s: %v", e.Kind, e.Err)
	}
	return "delivery: " + e.Kind
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool {
	t, ok := target.(*DeliveryError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidCredential = &AuthError{Kind: AuthInvalidCredential}
	ErrExpiredCredential = &AuthError{Kind: AuthExpired}
	ErrDuplicateIdentity = &AuthError{Kind: AuthDuplicateIdentity}
	ErrBadPassword       = &AuthError{Kind: AuthBadPassword}

	ErrPaymentNotFound      = &PaymentError{Kind: PaymentNotFound}
	ErrPaymentNotSuccessful = &PaymentError{Kind: PaymentNotSuccessful}
	ErrAmountMismatch       = &PaymentError{Kind: PaymentAmountMismatch}
	ErrCurrencyMismatch     = &PaymentError{Kind: CurrencyMismatch}
	ErrGatewayTimeout       = &PaymentError{Kind: PaymentGatewayTimeout}

	ErrDuplicateReference = &LedgerError{Kind: LedgerDuplicateReference}

	ErrNotEntitled        = &DeliveryError{Kind: DeliveryNotEntitled}
	ErrStorageUnavailable = &DeliveryError{Kind: DeliveryStorageUnavailable}
)
