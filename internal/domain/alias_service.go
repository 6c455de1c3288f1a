package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AliasService handles registration and lookup of transfer aliases.
type AliasService struct {
	repo AliasRepository
}

// NewAliasService creates a new AliasService.
func NewAliasService(repo AliasRepository) *AliasService {
	return &AliasService{repo: repo}
}

// Register creates a new alias for an account. For the random kind the
// value is generated server-side and any caller-supplied value is ignored.
// Returns ErrDuplicateAlias when the (kind, value) pair is already taken.
func (s *AliasService) Register(ctx context.Context, kind AliasKind, value, ownerAccountID string) (*Alias, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown alias kind %q", ErrInvalidInput, kind)
	}

	if strings.TrimSpace(ownerAccountID) == "" {
		return nil, fmt.Errorf("%w: owner account id is required", ErrInvalidInput)
	}

	if kind == AliasKindRandom {
		value = uuid.NewString()
	} else {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("%w: alias value is required for kind %q", ErrInvalidInput, kind)
		}
	}

	now := time.Now().UTC()
	alias := &Alias{
		ID:             uuid.New(),
		Kind:           kind,
		Value:          value,
		OwnerAccountID: ownerAccountID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, alias); err != nil {
		return nil, err
	}

	return alias, nil
}

// Resolve finds the alias matching a value exactly, regardless of kind.
func (s *AliasService) Resolve(ctx context.Context, value string) (*Alias, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: alias value is required", ErrInvalidInput)
	}
	return s.repo.GetByValue(ctx, value)
}

// ListByOwner returns every alias registered to an account.
// Returns ErrAliasNotFound when the account has none.
func (s *AliasService) ListByOwner(ctx context.Context, ownerAccountID string) ([]Alias, error) {
	return s.repo.ListByOwner(ctx, ownerAccountID)
}

// GetByID returns one alias by its identifier.
func (s *AliasService) GetByID(ctx context.Context, id uuid.UUID) (*Alias, error) {
	return s.repo.GetByID(ctx, id)
}
