package store

import (
	"database/sql"
	"fmt"
	"strings"
)

func EnsureSchema(pg *sql.DB) error {
	tx, err := pg.Begin()
	if err != nil {
		return fmt.Errorf("transaction begin: %s", err)
	}

	for _, query := range strings.Split(schema, "\n---\n") {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}

		if _, err := tx.Exec(query); err != nil {
			_ = tx.Rollback()
			return &QueryError{Query: query, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit: %s", err)
	}

	return nil
}

const schema = `

CREATE TABLE IF NOT EXISTS transfers (
	id BIGSERIAL PRIMARY KEY,
	transaction_hash TEXT NOT NULL UNIQUE,
	profile TEXT NOT NULL,
	chain_id BIGINT NOT NULL,
	sender TEXT NOT NULL,
	receiver TEXT NOT NULL,
	channel TEXT NOT NULL,
	denom TEXT NOT NULL,
	amount NUMERIC(78, 0) NOT NULL,
	memo TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	block_number BIGINT NOT NULL DEFAULT 0,
	gas_used BIGINT NOT NULL DEFAULT 0,
	dest_tx_hash TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

---

CREATE INDEX IF NOT EXISTS transfers_receiver_idx ON transfers (receiver, status);

---

CREATE INDEX IF NOT EXISTS transfers_channel_idx ON transfers (channel);
`

type QueryError struct {
	Query string
	Args  []interface{}
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %s\n%q", e.Err, e.Query)
}
