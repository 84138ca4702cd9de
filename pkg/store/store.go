package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
)

// NewStore returns a store that provides an access to the transfer journal.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type Store struct {
	db *sql.DB
}

const transferColumns = `transaction_hash, profile, chain_id, sender, receiver, channel, denom,
	amount, memo, status, block_number, gas_used, dest_tx_hash, created_at`

// InsertTransfer adds a journal entry for a submitted transfer.
// This method returns ErrConflict if a transfer with the same hash exists.
func (s *Store) InsertTransfer(ctx context.Context, t models.Transfer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, t.Hash, t.Profile, t.ChainID, t.Sender, t.Receiver, t.Channel, t.Denom,
		t.Amount, t.Memo, string(t.Status), t.BlockNumber, t.GasUsed, t.DestTxHash, t.CreatedAt.UTC())
	return wrapPgErr(err, "insert transfer")
}

// UpdateTransferStatus sets the outcome of a journaled transfer. It returns
// ErrNotFound if no transfer with given hash exists.
func (s *Store) UpdateTransferStatus(ctx context.Context, hash string, status models.TransferStatus, blockNumber, gasUsed int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transfers
		SET status = $2, block_number = $3, gas_used = $4
		WHERE transaction_hash = $1
	`, hash, string(status), blockNumber, gasUsed)
	if err != nil {
		return wrapPgErr(err, "update transfer status")
	}
	return expectRow(res, "no transfer "+hash)
}

// MarkRelayed flags the oldest confirmed transfer matching the packet seen
// on the destination chain as relayed and returns its hash.
func (s *Store) MarkRelayed(ctx context.Context, receiver, denom, amount, destTxHash string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		UPDATE transfers
		SET status = $5, dest_tx_hash = $4
		WHERE id = (
			SELECT id FROM transfers
			WHERE receiver = $1 AND amount = $3 AND status = $6
			AND ($2 = '' OR denom = $2)
			ORDER BY id ASC
			LIMIT 1
		)
		RETURNING transaction_hash
	`, receiver, denom, amount, destTxHash, string(models.StatusRelayed), string(models.StatusConfirmed)).Scan(&hash)
	if err != nil {
		return "", wrapPgErr(err, "mark relayed")
	}
	return hash, nil
}

// LoadTransfer returns the transfer with given transaction hash.
func (s *Store) LoadTransfer(ctx context.Context, hash string) (*models.Transfer, error) {
	var t models.Transfer
	err := scanTransfer(s.db.QueryRowContext(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE transaction_hash = $1
	`, hash), &t)
	if err == nil {
		return &t, nil
	}

	err = castPgErr(err)
	if errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "no transfer")
	}
	return nil, errors.Wrap(err, "cannot select transfer")
}

// LoadLatestNTransfers returns the most recently journaled transfers.
// ErrLimit is returned if more than 100 transfers are requested.
func (s *Store) LoadLatestNTransfers(ctx context.Context, n int) ([]models.Transfer, error) {
	// max number of transfers that is allowed to retrieved is 100
	if n > 100 {
		return nil, errors.Wrapf(ErrLimit, "limit exceeded")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		ORDER BY id DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, errors.Wrap(castPgErr(err), "cannot select transfers")
	}
	return collectTransfers(rows)
}

// LoadTransfersByParams returns at most 100 transfers matching every non
// empty parameter, oldest first.
func (s *Store) LoadTransfersByParams(ctx context.Context, sender, receiver, channel string) ([]models.Transfer, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query := psql.Select(transferColumns).From("transfers").OrderBy("id ASC").Limit(100)

	if sender != "" {
		query = query.Where(sq.Eq{"sender": sender})
	}
	if receiver != "" {
		query = query.Where(sq.Eq{"receiver": receiver})
	}
	if channel != "" {
		query = query.Where(sq.Eq{"channel": channel})
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(castPgErr(err), "cannot select transfers")
	}
	return collectTransfers(rows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransfer(row scanner, t *models.Transfer) error {
	var status string
	err := row.Scan(&t.Hash, &t.Profile, &t.ChainID, &t.Sender, &t.Receiver, &t.Channel, &t.Denom,
		&t.Amount, &t.Memo, &status, &t.BlockNumber, &t.GasUsed, &t.DestTxHash, &t.CreatedAt)
	if err != nil {
		return err
	}
	t.Status = models.TransferStatus(status)
	// normalize it here, as not always stored like this in the db
	t.CreatedAt = t.CreatedAt.UTC()
	return nil
}

// collectTransfers drains rows. ErrNotFound is returned when there are none.
func collectTransfers(rows *sql.Rows) ([]models.Transfer, error) {
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := scanTransfer(rows, &t); err != nil {
			return nil, errors.Wrap(castPgErr(err), "cannot scan transfer")
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "scanning transfers")
	}

	if len(transfers) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no transfers")
	}
	return transfers, nil
}
