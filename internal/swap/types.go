package swap

import (
	"bytes"
	"encoding/json"
)

// SwapInfo is one hop of a route.
type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

// RoutePlan splits a swap across hops by percent.
type RoutePlan struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  uint8    `json:"percent"`
}

// PlatformFee is the integrator fee taken from the output.
type PlatformFee struct {
	Amount string `json:"amount"`
	FeeBps int32  `json:"feeBps"`
}

// MostReliableAmmsQuoteReport maps AMM keys to their quoted amounts.
type MostReliableAmmsQuoteReport struct {
	Info map[string]string `json:"info"`
}

// Quote is the aggregator's answer to a quote request. Amounts are decimal strings.
type Quote struct {
	InputMint                     string                       `json:"inputMint"`
	InAmount                      string                       `json:"inAmount"`
	OutputMint                    string                       `json:"outputMint"`
	OutAmount                     string                       `json:"outAmount"`
	OtherAmountThreshold          string                       `json:"otherAmountThreshold"`
	SwapMode                      string                       `json:"swapMode"`
	SlippageBps                   uint64                       `json:"slippageBps"`
	PlatformFee                   *PlatformFee                 `json:"platformFee"`
	PriceImpactPct                string                       `json:"priceImpactPct"`
	RoutePlan                     []RoutePlan                  `json:"routePlan"`
	ContextSlot                   uint64                       `json:"contextSlot"`
	TimeTaken                     float64                      `json:"timeTaken"`
	SwapUsdValue                  *string                      `json:"swapUsdValue,omitempty"`
	SimplerRouteUsed              *bool                        `json:"simplerRouteUsed,omitempty"`
	MostReliableAmmsQuoteReport   *MostReliableAmmsQuoteReport `json:"mostReliableAmmsQuoteReport,omitempty"`
	UseIncurredSlippageForQuoting *bool                        `json:"useIncurredSlippageForQuoting,omitempty"`
	OtherRoutePlans               []RoutePlan                  `json:"otherRoutePlans,omitempty"`
	AggregatorVersion             *string                      `json:"aggregatorVersion,omitempty"`

	raw json.RawMessage
	// fields is the encoding of the known fields at decode time.
	fields []byte
}

type plainQuote Quote

// UnmarshalJSON decodes the quote and keeps the original bytes for echoing.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var p plainQuote
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	fields, err := json.Marshal(p)
	if err != nil {
		return err
	}
	*q = Quote(p)
	q.raw = append(json.RawMessage(nil), data...)
	q.fields = fields
	return nil
}

// MarshalJSON echoes the aggregator's bytes, including fields this type does
// not model, as long as no known field was changed after decoding. An edited
// quote is encoded from its fields.
func (q Quote) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(plainQuote(q))
	if err != nil {
		return nil, err
	}
	if len(q.raw) > 0 && bytes.Equal(out, q.fields) {
		return q.raw, nil
	}
	return out, nil
}

// PriorityConfig caps the prioritization fee.
type PriorityConfig struct {
	MaxLamports   uint64
	PriorityLevel string // e.g. "veryHigh"
}

type priorityLevelWithMaxLamports struct {
	MaxLamports   uint64 `json:"maxLamports"`
	PriorityLevel string `json:"priorityLevel"`
}

type prioritizationFeeLamports struct {
	PriorityLevelWithMaxLamports priorityLevelWithMaxLamports `json:"priorityLevelWithMaxLamports"`
}

// TransactionRequest is the body of a swap build request.
type TransactionRequest struct {
	QuoteResponse             *Quote                    `json:"quoteResponse"`
	UserPublicKey             string                    `json:"userPublicKey"`
	DynamicComputeUnitLimit   bool                      `json:"dynamicComputeUnitLimit"`
	DynamicSlippage           bool                      `json:"dynamicSlippage"`
	PrioritizationFeeLamports prioritizationFeeLamports `json:"prioritizationFeeLamports"`
}

// ComputeBudget reports the priced compute unit fee.
type ComputeBudget struct {
	MicroLamports          uint64 `json:"microLamports"`
	EstimatedMicroLamports uint64 `json:"estimatedMicroLamports"`
}

// PrioritizationType describes how the priority fee was set.
type PrioritizationType struct {
	ComputeBudget ComputeBudget `json:"computeBudget"`
}

// DynamicSlippageReport is returned when dynamic slippage was requested.
type DynamicSlippageReport struct {
	SlippageBps                  uint64 `json:"slippageBps"`
	OtherAmount                  uint64 `json:"otherAmount"`
	SimulatedIncurredSlippageBps int64  `json:"simulatedIncurredSlippageBps"`
	AmplificationRatio           string `json:"amplificationRatio"`
	CategoryName                 string `json:"categoryName"`
	HeuristicMaxSlippageBps      uint64 `json:"heuristicMaxSlippageBps"`
}

// TransactionPayload carries an unsigned, base64 encoded swap transaction.
type TransactionPayload struct {
	SwapTransaction           string                 `json:"swapTransaction"`
	LastValidBlockHeight      uint64                 `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports uint64                 `json:"prioritizationFeeLamports"`
	ComputeUnitLimit          uint64                 `json:"computeUnitLimit"`
	PrioritizationType        *PrioritizationType    `json:"prioritizationType,omitempty"`
	DynamicSlippageReport     *DynamicSlippageReport `json:"dynamicSlippageReport,omitempty"`
	SimulationError           json.RawMessage        `json:"simulationError,omitempty"`
}

// SimulationFailed reports whether the aggregator's simulation returned an error.
func (p *TransactionPayload) SimulationFailed() bool {
	return len(p.SimulationError) > 0 && string(p.SimulationError) != "null"
}
