package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/cryptox"
	"github.com/taxc/storefront/pkg/idx"
	"github.com/taxc/storefront/pkg/jwtx"
	"github.com/taxc/storefront/pkg/slogx"
)

// IdentityService registers identities, authenticates logins, and issues
// the stateless signed session credentials presented on later requests.
type IdentityService struct {
	Store      store.Store
	Credential *jwtx.HS256
	Issuer     string
	SessionTTL time.Duration
}

// Register creates a new identity and issues its first session credential.
// The password is stored only as a salted argon2id hash.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return domain.User{}, "", &domain.AuthError{Kind: domain.AuthInvalidCredential, Err: errors.New("all fields required")}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, "", &domain.AuthError{Kind: domain.AuthInvalidCredential, Err: err}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", &domain.AuthError{Kind: domain.AuthDuplicateIdentity, Err: err}
		}
		return domain.User{}, "", err
	}

	token, err := s.Issue(user)
	if err != nil {
		return domain.User{}, "", err
	}

	slogx.FromContext(ctx).Info("identity registered", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates an email/password pair and issues a fresh session
// credential. A missing identity and a wrong password produce the same
// error kind so the response cannot be used to probe registered emails.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", &domain.AuthError{Kind: domain.AuthBadPassword, Err: err}
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, "", &domain.AuthError{Kind: domain.AuthBadPassword, Err: err}
	}

	token, err := s.Issue(user)
	if err != nil {
		return domain.User{}, "", err
	}

	return user, token, nil
}

// Issue produces a signed, time-bounded session credential for the identity.
// Stateless: the server keeps no session table.
func (s *IdentityService) Issue(user domain.User) (string, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(user.ID, user.Name, user.Email, s.Issuer, ttl, time.Now().UTC())
	return s.Credential.Sign(claims)
}

// GetUserByID fetches an identity by id.
func (s *IdentityService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
