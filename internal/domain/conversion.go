package domain

// ConversionPath is the decision of whether and how to convert currency
// between the requested, payer and receiver currencies of one transfer.
type ConversionPath int

const (
	// PathSameCurrency: all three currencies match, no conversion.
	PathSameCurrency ConversionPath = iota

	// PathSharedCurrency: payer and receiver share a currency that differs
	// from the requested one. One conversion from the requested currency to
	// the shared currency, applied to both sides.
	PathSharedCurrency

	// PathReceiverMatch: the requested currency equals the receiver's but
	// not the payer's. The receiver is credited the amount as-is; one
	// conversion into the payer's currency is applied to the payer side.
	PathReceiverMatch

	// PathUnsupported: any remaining combination. These fail fast with
	// ErrUnsupportedConversionPath before any side effect.
	PathUnsupported
)

func (p ConversionPath) String() string {
	switch p {
	case PathSameCurrency:
		return "same_currency"
	case PathSharedCurrency:
		return "shared_currency"
	case PathReceiverMatch:
		return "receiver_match"
	default:
		return "unsupported"
	}
}

// SelectConversionPath classifies the currency triple of a transfer.
// The classification is exhaustive: every triple maps to exactly one path.
func SelectConversionPath(payerCurrency, receiverCurrency, requestedCurrency string) ConversionPath {
	switch {
	case receiverCurrency == payerCurrency && requestedCurrency == payerCurrency:
		return PathSameCurrency
	case receiverCurrency == payerCurrency:
		return PathSharedCurrency
	case requestedCurrency == receiverCurrency:
		return PathReceiverMatch
	default:
		return PathUnsupported
	}
}
