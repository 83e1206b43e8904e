package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
	"github.com/taxc/storefront/internal/shop/storage"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/slogx"
)

// DefaultLinkTTL is how long a minted download link stays valid.
const DefaultLinkTTL = time.Hour

// DeliveryService mints short-lived signed download links for owned items.
// The file store itself is never exposed; the only way to a file is through
// a link minted here, and every mint re-checks ownership at mint time.
type DeliveryService struct {
	Store     store.Store
	Presigner storage.Presigner
	LinkTTL   time.Duration
}

// MintLink checks that userID owns itemID right now and, if so, returns a
// signed URL for the item's file that expires after the configured TTL.
// Possession of a previously issued link grants nothing here: each mint is
// a fresh authorization decision.
func (s *DeliveryService) MintLink(ctx context.Context, userID, itemID string) (domain.SignedLink, error) {
	owned, err := s.Store.Entitlements().Exists(ctx, userID, itemID)
	if err != nil {
		return domain.SignedLink{}, fmt.Errorf("check entitlement: %w", err)
	}
	if !owned {
		return domain.SignedLink{}, &domain.DeliveryError{Kind: domain.DeliveryNotEntitled}
	}

	item, err := s.Store.Catalog().GetItemByID(ctx, itemID)
	if err != nil {
		return domain.SignedLink{}, fmt.Errorf("resolve item: %w", err)
	}

	ttl := s.LinkTTL
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	url, err := s.Presigner.PresignGet(ctx, item.FileKey, ttl)
	if err != nil {
		return domain.SignedLink{}, &domain.DeliveryError{Kind: domain.DeliveryStorageUnavailable, Err: err}
	}

	expires := time.Now().UTC().Add(ttl)
	slogx.FromContext(ctx).Info("download link minted",
		"user_id", userID, "item_id", itemID, "expires_at", expires)

	return domain.SignedLink{URL: url, ExpiresAt: expires.Unix()}, nil
}
