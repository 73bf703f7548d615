package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const selectTransactions = `SELECT id, item_code, txn_date, in_qty, out_qty, remark, recorded_by, created_at, updated_at FROM stock_transactions`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

// List applies the item code and date range filters. Text and kind filters are left to the caller.
func (r *SQLRepository) List(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.ItemCode != "" {
		conditions = append(conditions, "item_code = ?")
		args = append(args, f.ItemCode)
	}
	if f.From != "" {
		conditions = append(conditions, "txn_date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		conditions = append(conditions, "txn_date <= ?")
		args = append(args, f.To)
	}

	query := selectTransactions
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY txn_date DESC, created_at DESC"

	txns := []model.Transaction{}
	err := r.DB.SelectContext(ctx, &txns, r.DB.Rebind(query), args...)
	return txns, err
}

func (r *SQLRepository) ListByItem(ctx context.Context, itemCode string) ([]model.Transaction, error) {
	txns := []model.Transaction{}
	query := selectTransactions + ` WHERE item_code = ? ORDER BY txn_date ASC, created_at ASC`
	err := r.DB.SelectContext(ctx, &txns, r.DB.Rebind(query), itemCode)
	return txns, err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.DB.GetContext(ctx, &txn, r.DB.Rebind(selectTransactions+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, txn *model.Transaction) error {
	query := `
        INSERT INTO stock_transactions (
            id, item_code, txn_date, in_qty, out_qty,
            remark, recorded_by, created_at, updated_at
        )
        VALUES (
            :id, :item_code, :txn_date, :in_qty, :out_qty,
            :remark, :recorded_by, :created_at, :updated_at
        )
        ON CONFLICT (id)
        DO UPDATE SET
            item_code = EXCLUDED.item_code,
            txn_date = EXCLUDED.txn_date,
            in_qty = EXCLUDED.in_qty,
            out_qty = EXCLUDED.out_qty,
            remark = EXCLUDED.remark,
            recorded_by = EXCLUDED.recorded_by,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, txn)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM stock_transactions WHERE id = ?`), id)
	return err
}
