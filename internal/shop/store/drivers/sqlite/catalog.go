package sqlite

import (
	"context"

	"github.com/taxc/storefront/internal/shop/domain"
)

type catalogRepo struct {
	q queryer
}

const itemColumns = `id, title, file_key, price, currency, created_at`

func (r *catalogRepo) GetItemByID(ctx context.Context, id string) (domain.Item, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE id = ?`, id)

	var it domain.Item
	err := row.Scan(&it.ID, &it.Title, &it.FileKey, &it.Price, &it.Currency, &it.CreatedAt)
	if err != nil {
		return domain.Item{}, mapNotFound(err)
	}
	return it, nil
}

func (r *catalogRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM catalog_items ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.FileKey, &it.Price, &it.Currency, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
