package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SwiftPix/Transference-service/internal/domain"
)

// AliasRepository implements domain.AliasRepository using PostgreSQL.
type AliasRepository struct {
	pool *pgxpool.Pool
}

// NewAliasRepository creates a new AliasRepository.
func NewAliasRepository(pool *pgxpool.Pool) *AliasRepository {
	return &AliasRepository{pool: pool}
}

// Create persists a new alias. The (kind, value) unique index enforces
// directory-wide uniqueness, including server-generated random values.
func (r *AliasRepository) Create(ctx context.Context, alias *domain.Alias) error {
	query := `
		INSERT INTO aliases (id, kind, value, owner_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		alias.ID,
		string(alias.Kind),
		alias.Value,
		alias.OwnerAccountID,
		alias.CreatedAt,
		alias.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAlias
		}
		return fmt.Errorf("failed to create alias: %w", err)
	}

	return nil
}

// GetByID retrieves an alias by its unique identifier.
func (r *AliasRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alias, error) {
	query := `
		SELECT id, kind, value, owner_account_id, created_at, updated_at
		FROM aliases
		WHERE id = $1
	`

	return r.scanAlias(r.pool.QueryRow(ctx, query, id))
}

// GetByValue retrieves an alias by exact value match, regardless of kind.
func (r *AliasRepository) GetByValue(ctx context.Context, value string) (*domain.Alias, error) {
	query := `
		SELECT id, kind, value, owner_account_id, created_at, updated_at
		FROM aliases
		WHERE value = $1
		ORDER BY created_at
		LIMIT 1
	`

	return r.scanAlias(r.pool.QueryRow(ctx, query, value))
}

// ListByOwner retrieves every alias registered to an account.
// An empty result is reported as domain.ErrAliasNotFound
// (domain.EmptyResultIsNotFound policy).
func (r *AliasRepository) ListByOwner(ctx context.Context, ownerAccountID string) ([]domain.Alias, error) {
	query := `
		SELECT id, kind, value, owner_account_id, created_at, updated_at
		FROM aliases
		WHERE owner_account_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []domain.Alias
	for rows.Next() {
		var alias domain.Alias
		var kind string
		if err := rows.Scan(
			&alias.ID,
			&kind,
			&alias.Value,
			&alias.OwnerAccountID,
			&alias.CreatedAt,
			&alias.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		alias.Kind = domain.AliasKind(kind)
		aliases = append(aliases, alias)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}

	if len(aliases) == 0 {
		return nil, domain.ErrAliasNotFound
	}

	return aliases, nil
}

func (r *AliasRepository) scanAlias(row pgx.Row) (*domain.Alias, error) {
	var alias domain.Alias
	var kind string

	err := row.Scan(
		&alias.ID,
		&kind,
		&alias.Value,
		&alias.OwnerAccountID,
		&alias.CreatedAt,
		&alias.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAliasNotFound
		}
		return nil, fmt.Errorf("failed to get alias: %w", err)
	}

	alias.Kind = domain.AliasKind(kind)
	return &alias, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation.
// PostgreSQL error code 23505 indicates unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
