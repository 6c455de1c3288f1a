// Package handlers exposes the transfer and alias-directory operations over
// JSON HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SwiftPix/Transference-service/internal/domain"
)

// AliasDirectory is the alias-facing surface the handlers depend on.
type AliasDirectory interface {
	Register(ctx context.Context, kind domain.AliasKind, value, ownerAccountID string) (*domain.Alias, error)
	Resolve(ctx context.Context, value string) (*domain.Alias, error)
	ListByOwner(ctx context.Context, ownerAccountID string) ([]domain.Alias, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alias, error)
}

// TransferOrchestrator is the transfer-facing surface the handlers depend on.
type TransferOrchestrator interface {
	Execute(ctx context.Context, in domain.TransferInput) (*domain.Receipt, error)
	GetReceipt(ctx context.Context, recordID uuid.UUID) (*domain.Receipt, error)
	ListTransfers(ctx context.Context, accountID string) ([]domain.TransferRecord, error)
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	aliases   AliasDirectory
	transfers TransferOrchestrator
}

// NewHandler creates a new Handler.
func NewHandler(aliases AliasDirectory, transfers TransferOrchestrator) *Handler {
	return &Handler{aliases: aliases, transfers: transfers}
}

// Router builds the chi router with all routes registered.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Post("/keys", h.RegisterKey)
	r.Get("/keys/{keyID}", h.GetKey)
	r.Post("/keys/resolve", h.ResolveKey)
	r.Get("/users/{userID}/keys", h.ListUserKeys)

	r.Post("/transfers", h.CreateTransfer)
	r.Get("/transfers/{transferID}", h.GetTransfer)
	r.Get("/users/{userID}/transfers", h.ListUserTransfers)

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerKeyRequest struct {
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	OwnerID string `json:"owner_id"`
}

// RegisterKey handles alias registration requests.
func (h *Handler) RegisterKey(w http.ResponseWriter, r *http.Request) {
	var req registerKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "failed to parse request body")
		return
	}

	alias, err := h.aliases.Register(r.Context(), domain.AliasKind(req.Kind), req.Value, req.OwnerID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, aliasToJSON(alias))
}

// GetKey returns one alias by its identifier.
func (h *Handler) GetKey(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "key id must be a UUID")
		return
	}

	alias, err := h.aliases.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, aliasToJSON(alias))
}

type resolveKeyRequest struct {
	Value string `json:"value"`
}

// ResolveKey finds the alias matching a value exactly.
func (h *Handler) ResolveKey(w http.ResponseWriter, r *http.Request) {
	var req resolveKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "failed to parse request body")
		return
	}

	alias, err := h.aliases.Resolve(r.Context(), req.Value)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, aliasToJSON(alias))
}

// ListUserKeys returns every alias registered to an account.
func (h *Handler) ListUserKeys(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	aliases, err := h.aliases.ListByOwner(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]aliasJSON, 0, len(aliases))
	for i := range aliases {
		out = append(out, aliasToJSON(&aliases[i]))
	}
	sendJSON(w, http.StatusOK, out)
}

type createTransferRequest struct {
	ReceiverKey string      `json:"receiver_key"`
	PayerID     string      `json:"payer_id"`
	Value       json.Number `json:"value"`
	Currency    string      `json:"currency"`
}

// CreateTransfer runs one transfer end to end.
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "failed to parse request body")
		return
	}
	if req.ReceiverKey == "" || req.PayerID == "" || req.Value == "" {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "receiver_key, payer_id and value are required")
		return
	}

	value, err := decimalFromNumber(req.Value)
	if err != nil {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "value must be a number")
		return
	}

	receipt, err := h.transfers.Execute(r.Context(), domain.TransferInput{
		ReceiverKey:    req.ReceiverKey,
		PayerAccountID: req.PayerID,
		Value:          value,
		Currency:       req.Currency,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, receiptToJSON(receipt))
}

// GetTransfer rebuilds the receipt for a stored ledger record.
func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "transferID"))
	if err != nil {
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", "transfer id must be a UUID")
		return
	}

	receipt, err := h.transfers.GetReceipt(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, receiptToJSON(receipt))
}

// ListUserTransfers returns every ledger record where the account
// participated.
func (h *Handler) ListUserTransfers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	records, err := h.transfers.ListTransfers(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]transferRecordJSON, 0, len(records))
	for i := range records {
		out = append(out, transferRecordToJSON(&records[i]))
	}
	sendJSON(w, http.StatusOK, out)
}

// handleDomainError converts domain errors to HTTP responses.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		sendErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_REQUEST", err.Error())
	case domain.IsNotFound(err):
		sendErrorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrDuplicateAlias):
		sendErrorResponse(w, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnsupportedConversionPath),
		errors.Is(err, domain.ErrConversionNotFound):
		sendErrorResponse(w, http.StatusBadRequest, "TRANSFER_REJECTED", err.Error())
	case domain.IsUnavailable(err):
		sendErrorResponse(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", err.Error())
	default:
		log.Printf("internal error: %v", err)
		sendErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}

// sendErrorResponse sends an error response in the expected format.
func sendErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	sendJSON(w, statusCode, map[string]string{
		"code":    code,
		"message": message,
	})
}

func sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
