package sqlite

import (
	"context"
	"time"

	"github.com/taxc/storefront/internal/shop/domain"
)

type entitlementsRepo struct {
	q queryer
}

const entitlementColumns = `id, user_id, item_id, file_key, price, currency, txn_ref, granted_at`

func (r *entitlementsRepo) CreateEntitlement(ctx context.Context, e domain.Entitlement) error {
	grantedAt := e.GrantedAt
	if grantedAt.IsZero() {
		grantedAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO entitlements (id, user_id, item_id, file_key, price, currency, txn_ref, granted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.ItemID, e.FileKey, e.Price, e.Currency, e.TxnRef, grantedAt)
	return mapConstraint(err)
}

func (r *entitlementsRepo) GetByTxnRef(ctx context.Context, txnRef string) (domain.Entitlement, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+entitlementColumns+` FROM entitlements WHERE txn_ref = ?`, txnRef)
	return scanEntitlement(row)
}

func (r *entitlementsRepo) Exists(ctx context.Context, userID, itemID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entitlements WHERE user_id = ? AND item_id = ?)`,
		userID, itemID).Scan(&exists)
	return exists, err
}

func (r *entitlementsRepo) ListByUser(ctx context.Context, userID string) ([]domain.Entitlement, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+entitlementColumns+` FROM entitlements WHERE user_id = ? ORDER BY granted_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Entitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntitlement(row rowScanner) (domain.Entitlement, error) {
	var e domain.Entitlement
	err := row.Scan(&e.ID, &e.UserID, &e.ItemID, &e.FileKey, &e.Price, &e.Currency, &e.TxnRef, &e.GrantedAt)
	if err != nil {
		return domain.Entitlement{}, mapNotFound(err)
	}
	return e, nil
}
