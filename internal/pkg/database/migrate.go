package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is plain SQL understood by both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		item_code       VARCHAR(64) PRIMARY KEY,
		kind            VARCHAR(20) NOT NULL,
		item_name       VARCHAR(200) NOT NULL,
		category        VARCHAR(100) NOT NULL DEFAULT '',
		opening_balance BIGINT NOT NULL DEFAULT 0 CHECK (opening_balance >= 0),
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_transactions (
		id          VARCHAR(36) PRIMARY KEY,
		item_code   VARCHAR(64) NOT NULL REFERENCES items (item_code),
		txn_date    VARCHAR(10) NOT NULL,
		in_qty      BIGINT NOT NULL DEFAULT 0 CHECK (in_qty >= 0),
		out_qty     BIGINT NOT NULL DEFAULT 0 CHECK (out_qty >= 0),
		remark      TEXT NOT NULL DEFAULT '',
		recorded_by VARCHAR(100) NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL,
		CHECK ((in_qty > 0 AND out_qty = 0) OR (in_qty = 0 AND out_qty > 0))
	)`,
	`CREATE INDEX IF NOT EXISTS stock_transactions_item_date
		ON stock_transactions (item_code, txn_date)`,
}

func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
