package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SwiftPix/Transference-service/internal/domain"
)

// TransferRepository implements domain.TransferRepository using PostgreSQL.
// The transfer_records table is append-only: rows are inserted once by the
// orchestrator and never updated or deleted.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Append persists one side of a completed transfer.
func (r *TransferRepository) Append(ctx context.Context, record *domain.TransferRecord) error {
	query := `
		INSERT INTO transfer_records (
			id, transfer_id, payer_account_id, payee_account_id,
			payee_alias, currency, amount, role, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.TransferID,
		record.PayerAccountID,
		record.PayeeAccountID,
		record.PayeeAlias,
		record.Currency,
		record.Amount.String(),
		string(record.Role),
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append transfer record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by its unique identifier.
func (r *TransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransferRecord, error) {
	query := `
		SELECT id, transfer_id, payer_account_id, payee_account_id,
		       payee_alias, currency, amount::text, role, created_at
		FROM transfer_records
		WHERE id = $1
	`

	record, err := scanTransferRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer record: %w", err)
	}

	return record, nil
}

// ListByParticipant retrieves every record where the account appears as
// payer or payee, ordered by creation time. An empty result is reported as
// domain.ErrTransferNotFound (domain.EmptyResultIsNotFound policy).
func (r *TransferRepository) ListByParticipant(ctx context.Context, accountID string) ([]domain.TransferRecord, error) {
	query := `
		SELECT id, transfer_id, payer_account_id, payee_account_id,
		       payee_alias, currency, amount::text, role, created_at
		FROM transfer_records
		WHERE payer_account_id = $1 OR payee_account_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer records: %w", err)
	}
	defer rows.Close()

	var records []domain.TransferRecord
	for rows.Next() {
		record, err := scanTransferRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transfer records: %w", err)
	}

	if len(records) == 0 {
		return nil, domain.ErrTransferNotFound
	}

	return records, nil
}

func scanTransferRecord(row pgx.Row) (*domain.TransferRecord, error) {
	var record domain.TransferRecord
	var amount, role string

	err := row.Scan(
		&record.ID,
		&record.TransferID,
		&record.PayerAccountID,
		&record.PayeeAccountID,
		&record.PayeeAlias,
		&record.Currency,
		&amount,
		&role,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	record.Role = domain.Role(role)

	return &record, nil
}
