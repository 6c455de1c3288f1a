package handlers

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SwiftPix/Transference-service/internal/domain"
)

// Monetary values cross the wire as plain JSON numbers, never strings.
// decimal.Decimal marshals quoted, so view types carry json.Number instead.

type aliasJSON struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Value     string    `json:"value"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func aliasToJSON(alias *domain.Alias) aliasJSON {
	return aliasJSON{
		ID:        alias.ID.String(),
		Kind:      string(alias.Kind),
		Value:     alias.Value,
		OwnerID:   alias.OwnerAccountID,
		CreatedAt: alias.CreatedAt,
	}
}

type partyJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CPF         string `json:"cpf"`
	Institution string `json:"institution"`
	Agency      string `json:"agency"`
	Account     string `json:"account"`
}

func partyToJSON(p domain.Party) partyJSON {
	return partyJSON{
		ID:          p.ID,
		Name:        p.Name,
		CPF:         p.TaxID,
		Institution: p.Institution,
		Agency:      p.Agency,
		Account:     p.AccountNumber,
	}
}

type receiptJSON struct {
	ID       string      `json:"_id"`
	Value    json.Number `json:"value"`
	Currency string      `json:"currency"`
	Date     time.Time   `json:"date"`
	From     partyJSON   `json:"from"`
	To       partyJSON   `json:"to"`
}

func receiptToJSON(receipt *domain.Receipt) receiptJSON {
	return receiptJSON{
		ID:       receipt.ID.String(),
		Value:    json.Number(receipt.Value.String()),
		Currency: receipt.Currency,
		Date:     receipt.Date,
		From:     partyToJSON(receipt.From),
		To:       partyToJSON(receipt.To),
	}
}

type transferRecordJSON struct {
	ID         string      `json:"id"`
	TransferID string      `json:"transfer_id"`
	PayerID    string      `json:"payer_id"`
	PayeeID    string      `json:"payee_id"`
	PayeeKey   string      `json:"payee_key"`
	Currency   string      `json:"currency"`
	Value      json.Number `json:"value"`
	Role       string      `json:"role"`
	CreatedAt  time.Time   `json:"created_at"`
}

func transferRecordToJSON(record *domain.TransferRecord) transferRecordJSON {
	return transferRecordJSON{
		ID:         record.ID.String(),
		TransferID: record.TransferID.String(),
		PayerID:    record.PayerAccountID,
		PayeeID:    record.PayeeAccountID,
		PayeeKey:   record.PayeeAlias,
		Currency:   record.Currency,
		Value:      json.Number(record.Amount.String()),
		Role:       string(record.Role),
		CreatedAt:  record.CreatedAt,
	}
}

// decimalFromNumber parses a JSON number into a decimal without a float
// round-trip.
func decimalFromNumber(n json.Number) (decimal.Decimal, error) {
	return decimal.NewFromString(n.String())
}
