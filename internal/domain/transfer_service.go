package domain

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// TransferInput is the inbound request shape accepted by the orchestrator.
type TransferInput struct {
	ReceiverKey    string
	PayerAccountID string
	Value          decimal.Decimal
	Currency       string
}

// TransferService is the transfer orchestrator. It resolves the receiver
// alias, fetches both balances, decides a conversion path, enforces
// sufficiency, applies both balance mutations through the gateway, records
// both ledger entries and assembles the receipt.
//
// Each invocation is one saga over remote state with no shared in-process
// mutable state, so transfers may run concurrently. The service does not
// serialize concurrent transfers touching the same account: the gateway
// contract carries no concurrency token, so two simultaneous transfers from
// one payer can both read a stale balance and over-debit.
type TransferService struct {
	aliases  AliasRepository
	ledger   TransferRepository
	balances BalanceGateway
	rates    ConversionGateway
	// Optional notifier for best-effort SMS fan-out.
	notifier Notifier
}

// NewTransferService creates a new TransferService.
// Pass nil for notifier if no notifications should be sent.
func NewTransferService(
	aliases AliasRepository,
	ledger TransferRepository,
	balances BalanceGateway,
	rates ConversionGateway,
	notifier Notifier,
) *TransferService {
	return &TransferService{
		aliases:  aliases,
		ledger:   ledger,
		balances: balances,
		rates:    rates,
		notifier: notifier,
	}
}

// sagaLog records a state transition of one orchestration.
func sagaLog(transferID uuid.UUID, state SagaState) {
	log.Printf("transfer %s: %s", transferID, state)
}

// Execute runs one transfer end to end and returns the receipt.
//
// Every fault before the first balance mutation aborts with no side effect.
// Once the receiver has been credited the saga detaches from the caller's
// cancellation and runs to completion or explicit failure; if the payer
// debit then fails, a compensating credit-back restores the receiver.
func (s *TransferService) Execute(ctx context.Context, in TransferInput) (*Receipt, error) {
	if !in.Value.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := ValidateCurrencyCode(in.Currency); err != nil {
		return nil, err
	}

	transferID := uuid.New()
	sagaLog(transferID, StateResolving)

	alias, err := s.aliases.GetByValue(ctx, in.ReceiverKey)
	if err != nil {
		return nil, fmt.Errorf("resolve receiver key: %w", err)
	}
	receiverID := alias.OwnerAccountID

	// The two reads have no ordering dependency.
	var receiverBalance, payerBalance Balance
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receiverBalance, err = s.balances.GetBalance(gctx, receiverID)
		return err
	})
	g.Go(func() error {
		var err error
		payerBalance, err = s.balances.GetBalance(gctx, in.PayerAccountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch balances: %w", err)
	}
	sagaLog(transferID, StateBalancesFetched)

	path := SelectConversionPath(payerBalance.Currency, receiverBalance.Currency, in.Currency)

	var (
		debit          decimal.Decimal // leaves the payer, in debitCurrency
		credit         decimal.Decimal // reaches the receiver, in creditCurrency
		debitCurrency  string
		creditCurrency string
	)

	switch path {
	case PathSameCurrency:
		debit, credit = in.Value, in.Value
		debitCurrency, creditCurrency = in.Currency, in.Currency

	case PathSharedCurrency:
		converted, err := s.rates.Convert(ctx, in.Currency, payerBalance.Currency, in.Value)
		if err != nil {
			return nil, fmt.Errorf("convert to shared currency: %w", err)
		}
		debit, credit = converted, converted
		debitCurrency, creditCurrency = payerBalance.Currency, payerBalance.Currency

	case PathReceiverMatch:
		converted, err := s.rates.Convert(ctx, in.Currency, payerBalance.Currency, in.Value)
		if err != nil {
			return nil, fmt.Errorf("convert payer side: %w", err)
		}
		debit, credit = converted, in.Value
		debitCurrency, creditCurrency = payerBalance.Currency, in.Currency

	default:
		return nil, fmt.Errorf("%w: payer=%s receiver=%s requested=%s",
			ErrUnsupportedConversionPath, payerBalance.Currency, receiverBalance.Currency, in.Currency)
	}
	sagaLog(transferID, StateConversionDecided)

	newPayerBalance := payerBalance.Value.Sub(debit)
	if newPayerBalance.IsNegative() {
		return nil, ErrInsufficientBalance
	}
	newReceiverBalance := receiverBalance.Value.Add(credit)
	sagaLog(transferID, StateValidated)

	// First mutation issued: from here the saga must not be abandoned, so
	// the remaining steps ignore the caller's cancellation.
	ctx = context.WithoutCancel(ctx)

	if err := s.balances.SetBalance(ctx, receiverID, newReceiverBalance); err != nil {
		return nil, fmt.Errorf("credit receiver: %w", err)
	}
	if err := s.balances.SetBalance(ctx, in.PayerAccountID, newPayerBalance); err != nil {
		// Receiver credited, payer not debited. Compensate by restoring the
		// receiver's previous balance.
		if compErr := s.balances.SetBalance(ctx, receiverID, receiverBalance.Value); compErr != nil {
			log.Printf("FATAL: transfer %s: receiver %s credited %s but payer debit and credit-back both failed: debit=%v credit-back=%v",
				transferID, receiverID, credit, err, compErr)
			return nil, fmt.Errorf("%w: debit failed (%v), credit-back failed (%v)", ErrInconsistentBalances, err, compErr)
		}
		log.Printf("transfer %s: payer debit failed, receiver balance restored: %v", transferID, err)
		return nil, fmt.Errorf("debit payer: %w", err)
	}
	sagaLog(transferID, StateBalancesApplied)

	payerProfile, err := s.balances.GetProfile(ctx, in.PayerAccountID)
	if err != nil {
		return nil, fmt.Errorf("fetch payer profile: %w", err)
	}
	receiverProfile, err := s.balances.GetProfile(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("fetch receiver profile: %w", err)
	}

	now := time.Now().UTC()
	sent := &TransferRecord{
		ID:             uuid.New(),
		TransferID:     transferID,
		PayerAccountID: in.PayerAccountID,
		PayeeAccountID: receiverID,
		PayeeAlias:     in.ReceiverKey,
		Currency:       debitCurrency,
		Amount:         debit,
		Role:           RoleSent,
		CreatedAt:      now,
	}
	received := &TransferRecord{
		ID:             uuid.New(),
		TransferID:     transferID,
		PayerAccountID: in.PayerAccountID,
		PayeeAccountID: receiverID,
		PayeeAlias:     in.ReceiverKey,
		Currency:       creditCurrency,
		Amount:         credit,
		Role:           RoleReceived,
		CreatedAt:      now,
	}
	if err := s.ledger.Append(ctx, sent); err != nil {
		return nil, fmt.Errorf("record payer side: %w", err)
	}
	if err := s.ledger.Append(ctx, received); err != nil {
		return nil, fmt.Errorf("record receiver side: %w", err)
	}
	sagaLog(transferID, StateRecorded)

	s.notify(ctx, payerProfile.Cellphone,
		fmt.Sprintf("You sent %s %s to %s", debit, debitCurrency, receiverProfile.Name))
	s.notify(ctx, receiverProfile.Cellphone,
		fmt.Sprintf("You received %s %s from %s", credit, creditCurrency, payerProfile.Name))
	sagaLog(transferID, StateNotified)

	receipt := buildReceipt(sent, payerProfile, receiverProfile)
	sagaLog(transferID, StateComplete)

	return receipt, nil
}

// notify sends one best-effort message. Failures are logged and swallowed.
func (s *TransferService) notify(ctx context.Context, phone, message string) {
	if s.notifier == nil || phone == "" {
		return
	}
	if err := s.notifier.Send(ctx, phone, message); err != nil {
		log.Printf("warning: failed to send notification to %s: %v", phone, err)
	}
}

// GetReceipt rebuilds the receipt for a stored ledger record.
func (s *TransferService) GetReceipt(ctx context.Context, recordID uuid.UUID) (*Receipt, error) {
	record, err := s.ledger.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	payerProfile, err := s.balances.GetProfile(ctx, record.PayerAccountID)
	if err != nil {
		return nil, fmt.Errorf("fetch payer profile: %w", err)
	}
	receiverProfile, err := s.balances.GetProfile(ctx, record.PayeeAccountID)
	if err != nil {
		return nil, fmt.Errorf("fetch receiver profile: %w", err)
	}

	return buildReceipt(record, payerProfile, receiverProfile), nil
}

// ListTransfers returns every ledger record where the account participated,
// ordered by creation time. Returns ErrTransferNotFound when there are none.
func (s *TransferService) ListTransfers(ctx context.Context, accountID string) ([]TransferRecord, error) {
	return s.ledger.ListByParticipant(ctx, accountID)
}

func buildReceipt(record *TransferRecord, payer, receiver Profile) *Receipt {
	return &Receipt{
		ID:       record.ID,
		Value:    record.Amount,
		Currency: record.Currency,
		Date:     record.CreatedAt,
		From:     payer.Party(),
		To:       receiver.Party(),
	}
}
