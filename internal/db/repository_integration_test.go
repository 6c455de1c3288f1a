package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/SwiftPix/Transference-service/internal/db"
	"github.com/SwiftPix/Transference-service/internal/domain"
)

// TestRepositoriesIntegration spins up a PostgreSQL container, runs the
// migrations and exercises both repositories against a real database.
func TestRepositoriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, dbURL := startPostgresContainer(t, ctx)
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}()

	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()

	runMigrations(t, ctx, pool)

	aliasRepo := db.NewAliasRepository(pool.Pool)
	transferRepo := db.NewTransferRepository(pool.Pool)

	t.Run("alias create and lookups", func(t *testing.T) {
		alias := &domain.Alias{
			ID:             uuid.New(),
			Kind:           domain.AliasKindEmail,
			Value:          "maria@example.com",
			OwnerAccountID: "acc-1",
			CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
			UpdatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		}

		if err := aliasRepo.Create(ctx, alias); err != nil {
			t.Fatalf("failed to create alias: %v", err)
		}

		byID, err := aliasRepo.GetByID(ctx, alias.ID)
		if err != nil {
			t.Fatalf("failed to get alias by id: %v", err)
		}
		if byID.Value != alias.Value || byID.Kind != domain.AliasKindEmail {
			t.Errorf("unexpected alias %+v", byID)
		}

		byValue, err := aliasRepo.GetByValue(ctx, "maria@example.com")
		if err != nil {
			t.Fatalf("failed to get alias by value: %v", err)
		}
		if byValue.OwnerAccountID != "acc-1" {
			t.Errorf("unexpected owner %s", byValue.OwnerAccountID)
		}
	})

	t.Run("duplicate alias maps unique violation", func(t *testing.T) {
		duplicate := &domain.Alias{
			ID:             uuid.New(),
			Kind:           domain.AliasKindEmail,
			Value:          "maria@example.com",
			OwnerAccountID: "acc-2",
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}

		err := aliasRepo.Create(ctx, duplicate)
		if !errors.Is(err, domain.ErrDuplicateAlias) {
			t.Fatalf("expected ErrDuplicateAlias, got %v", err)
		}
	})

	t.Run("same value different kind is allowed", func(t *testing.T) {
		// A phone-kind alias may carry the same string as an email-kind one;
		// uniqueness is on the (kind, value) pair.
		alias := &domain.Alias{
			ID:             uuid.New(),
			Kind:           domain.AliasKindPhone,
			Value:          "maria@example.com",
			OwnerAccountID: "acc-3",
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}

		if err := aliasRepo.Create(ctx, alias); err != nil {
			t.Fatalf("expected creation to succeed, got %v", err)
		}
	})

	t.Run("missing alias is not found", func(t *testing.T) {
		if _, err := aliasRepo.GetByValue(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrAliasNotFound) {
			t.Errorf("expected ErrAliasNotFound, got %v", err)
		}
		if _, err := aliasRepo.GetByID(ctx, uuid.New()); !errors.Is(err, domain.ErrAliasNotFound) {
			t.Errorf("expected ErrAliasNotFound, got %v", err)
		}
	})

	t.Run("empty owner list is not found", func(t *testing.T) {
		if _, err := aliasRepo.ListByOwner(ctx, "acc-without-keys"); !errors.Is(err, domain.ErrAliasNotFound) {
			t.Errorf("expected ErrAliasNotFound for empty list, got %v", err)
		}

		aliases, err := aliasRepo.ListByOwner(ctx, "acc-1")
		if err != nil {
			t.Fatalf("failed to list aliases: %v", err)
		}
		if len(aliases) != 1 {
			t.Errorf("expected 1 alias, got %d", len(aliases))
		}
	})

	t.Run("ledger append and reads", func(t *testing.T) {
		transferID := uuid.New()
		base := time.Now().UTC().Truncate(time.Microsecond)

		sent := &domain.TransferRecord{
			ID:             uuid.New(),
			TransferID:     transferID,
			PayerAccountID: "acc-1",
			PayeeAccountID: "acc-2",
			PayeeAlias:     "maria@example.com",
			Currency:       "BRL",
			Amount:         decimal.RequireFromString("52.50"),
			Role:           domain.RoleSent,
			CreatedAt:      base,
		}
		received := &domain.TransferRecord{
			ID:             uuid.New(),
			TransferID:     transferID,
			PayerAccountID: "acc-1",
			PayeeAccountID: "acc-2",
			PayeeAlias:     "maria@example.com",
			Currency:       "USD",
			Amount:         decimal.NewFromInt(10),
			Role:           domain.RoleReceived,
			CreatedAt:      base.Add(time.Microsecond),
		}

		if err := transferRepo.Append(ctx, sent); err != nil {
			t.Fatalf("failed to append sent record: %v", err)
		}
		if err := transferRepo.Append(ctx, received); err != nil {
			t.Fatalf("failed to append received record: %v", err)
		}

		got, err := transferRepo.GetByID(ctx, sent.ID)
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("52.50")) {
			t.Errorf("expected amount 52.50, got %s", got.Amount)
		}
		if got.Role != domain.RoleSent || got.TransferID != transferID {
			t.Errorf("unexpected record %+v", got)
		}

		payerSide, err := transferRepo.ListByParticipant(ctx, "acc-1")
		if err != nil {
			t.Fatalf("failed to list by payer: %v", err)
		}
		if len(payerSide) != 2 {
			t.Fatalf("expected 2 records, got %d", len(payerSide))
		}
		if payerSide[0].Role != domain.RoleSent || payerSide[1].Role != domain.RoleReceived {
			t.Errorf("expected creation-time order, got %s then %s", payerSide[0].Role, payerSide[1].Role)
		}

		payeeSide, err := transferRepo.ListByParticipant(ctx, "acc-2")
		if err != nil {
			t.Fatalf("failed to list by payee: %v", err)
		}
		if len(payeeSide) != 2 {
			t.Errorf("expected 2 records for the payee as well, got %d", len(payeeSide))
		}
	})

	t.Run("empty transfer history is not found", func(t *testing.T) {
		if _, err := transferRepo.ListByParticipant(ctx, "acc-without-history"); !errors.Is(err, domain.ErrTransferNotFound) {
			t.Errorf("expected ErrTransferNotFound for empty history, got %v", err)
		}
		if _, err := transferRepo.GetByID(ctx, uuid.New()); !errors.Is(err, domain.ErrTransferNotFound) {
			t.Errorf("expected ErrTransferNotFound, got %v", err)
		}
	})
}

// startPostgresContainer starts a PostgreSQL testcontainer and returns the connection URL.
func startPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	dbURL := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	return container, dbURL
}

// runMigrations runs the database migrations.
func runMigrations(t *testing.T, ctx context.Context, pool *db.Pool) {
	// Run migration SQL directly (same as migration files)
	migrations := []string{
		// 001_create_aliases_table.up.sql
		`CREATE TABLE IF NOT EXISTS aliases (
			id UUID PRIMARY KEY,
			kind VARCHAR(10) NOT NULL,
			value VARCHAR(255) NOT NULL,
			owner_account_id VARCHAR(64) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (kind, value)
		);
		CREATE INDEX IF NOT EXISTS idx_aliases_value ON aliases(value);
		CREATE INDEX IF NOT EXISTS idx_aliases_owner ON aliases(owner_account_id);`,
		// 002_create_transfer_records_table.up.sql
		`CREATE TABLE IF NOT EXISTS transfer_records (
			id UUID PRIMARY KEY,
			transfer_id UUID NOT NULL,
			payer_account_id VARCHAR(64) NOT NULL,
			payee_account_id VARCHAR(64) NOT NULL,
			payee_alias VARCHAR(255) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			amount NUMERIC(15, 2) NOT NULL,
			role VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_transfer_records_transfer_id ON transfer_records(transfer_id);
		CREATE INDEX IF NOT EXISTS idx_transfer_records_payer ON transfer_records(payer_account_id);
		CREATE INDEX IF NOT EXISTS idx_transfer_records_payee ON transfer_records(payee_account_id);`,
	}

	for i, migration := range migrations {
		if _, err := pool.Pool.Exec(ctx, migration); err != nil {
			t.Fatalf("failed to run migration %d: %v", i+1, err)
		}
	}
}
