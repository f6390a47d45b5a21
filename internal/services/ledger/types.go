package ledger

// Default configuration values
const (
	// DefaultBonusConversionRate is the deposit amount that earns one gem.
	DefaultBonusConversionRate = 150.0

	// DefaultCurrency is used when a request omits the currency code.
	DefaultCurrency = "INR"
)

// Config holds configuration for ledger operations
type Config struct {
	DefaultCurrency     string
	BonusConversionRate float64
}

// DepositResult is the success payload of a deposit.
type DepositResult struct {
	Balance    float64 `json:"balance"`
	GemsEarned int     `json:"bonus_gems"`
}
