package domain

// SagaState enumerates the stages of one transfer orchestration. Every
// state before BalancesApplied is safely abortable: no external side effect
// has happened yet. From BalancesApplied onward the saga must run to
// completion or explicit failure, because the external balance service has
// already been mutated.
type SagaState string

const (
	StateResolving         SagaState = "RESOLVING"
	StateBalancesFetched   SagaState = "BALANCES_FETCHED"
	StateConversionDecided SagaState = "CONVERSION_DECIDED"
	StateValidated         SagaState = "VALIDATED"
	StateBalancesApplied   SagaState = "BALANCES_APPLIED"
	StateRecorded          SagaState = "RECORDED"
	StateNotified          SagaState = "NOTIFIED"
	StateComplete          SagaState = "COMPLETE"
)

// Abortable reports whether abandoning the saga in this state leaves no
// external side effect behind.
func (s SagaState) Abortable() bool {
	switch s {
	case StateResolving, StateBalancesFetched, StateConversionDecided, StateValidated:
		return true
	}
	return false
}
