package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// SQLRepository stores items through sqlx. Queries are rebound per driver,
// so the same code serves PostgreSQL and SQLite.
type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) List(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	query := `SELECT item_code, kind, item_name, category, opening_balance, created_at, updated_at FROM items`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY item_code ASC`

	items := []model.Item{}
	err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...)
	return items, err
}

func (r *SQLRepository) FindByCode(ctx context.Context, itemCode string) (*model.Item, error) {
	var it model.Item
	query := `SELECT item_code, kind, item_name, category, opening_balance, created_at, updated_at FROM items WHERE item_code = ?`
	err := r.DB.GetContext(ctx, &it, r.DB.Rebind(query), itemCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, it *model.Item) error {
	query := `
        INSERT INTO items (item_code, kind, item_name, category, opening_balance, created_at, updated_at)
        VALUES (:item_code, :kind, :item_name, :category, :opening_balance, :created_at, :updated_at)
        ON CONFLICT (item_code)
        DO UPDATE SET
            kind = EXCLUDED.kind,
            item_name = EXCLUDED.item_name,
            category = EXCLUDED.category,
            opening_balance = EXCLUDED.opening_balance,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, it)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, itemCode string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM items WHERE item_code = ?`), itemCode)
	return err
}
