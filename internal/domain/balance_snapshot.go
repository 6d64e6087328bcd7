package domain

// BalanceSnapshot is a point-in-time balance of one asset for one account.
type BalanceSnapshot struct {
	Account     string
	Mint        string // native mint address for SOL
	Symbol      string
	Decimals    uint8
	RawAmount   uint64
	Amount      float64 // RawAmount / 10^Decimals
	TimestampMs int64
}
