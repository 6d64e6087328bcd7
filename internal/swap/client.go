// Package swap talks to a Jupiter-compatible swap aggregator. It quotes and builds
// unsigned swap transactions; signing and submission belong to the transfer package.
package swap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
)

// Aggregator defaults.
const (
	DefaultBaseURL  = "https://lite-api.jup.ag"
	QuotePath       = "swap/v1/quote"
	TransactionPath = "swap/v1/swap"
	DefaultTimeout  = 30 * time.Second

	maxErrorBody = 4 << 10
)

// Client queries the aggregator. PlatformFeeBps and FeeAccount are independent:
// the fee account is only sent when set.
type Client struct {
	BaseURL        string
	PlatformFeeBps uint16
	FeeAccount     string
	HTTP           *http.Client
}

// NewClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Quote asks for the best route swapping amount raw units of from into to.
func (c *Client) Quote(ctx context.Context, from, to string, amount, slippageBps uint64) (q *Quote, err error) {
	start := time.Now()
	defer func() { c.observe("quote", start, err) }()

	params := url.Values{}
	params.Set("inputMint", from)
	params.Set("outputMint", to)
	params.Set("amount", strconv.FormatUint(amount, 10))
	params.Set("slippageBps", strconv.FormatUint(slippageBps, 10))
	params.Set("platformFeeBps", strconv.FormatUint(uint64(c.PlatformFeeBps), 10))
	if c.FeeAccount != "" {
		params.Set("feeAccount", c.FeeAccount)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(QuotePath)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	q = &Quote{}
	if err := c.do(req, q); err != nil {
		return nil, fmt.Errorf("quote %s -> %s: %w", from, to, err)
	}

	logging.Swap.Debug().
		Str("input_mint", from).
		Str("output_mint", to).
		Str("in_amount", q.InAmount).
		Str("out_amount", q.OutAmount).
		Int("hops", len(q.RoutePlan)).
		Msg("Quote received")
	return q, nil
}

// BuildTransaction requests the unsigned transaction executing q for user.
// The quote is sent back exactly as it was received.
func (c *Client) BuildTransaction(ctx context.Context, q *Quote, user string, p PriorityConfig) (payload *TransactionPayload, err error) {
	start := time.Now()
	defer func() { c.observe("swap", start, err) }()

	if q == nil {
		return nil, fmt.Errorf("build swap transaction: nil quote")
	}

	body, err := json.Marshal(TransactionRequest{
		QuoteResponse:           q,
		UserPublicKey:           user,
		DynamicComputeUnitLimit: true,
		DynamicSlippage:         true,
		PrioritizationFeeLamports: prioritizationFeeLamports{
			PriorityLevelWithMaxLamports: priorityLevelWithMaxLamports{
				MaxLamports:   p.MaxLamports,
				PriorityLevel: p.PriorityLevel,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(TransactionPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	payload = &TransactionPayload{}
	if err := c.do(req, payload); err != nil {
		return nil, fmt.Errorf("build swap transaction: %w", err)
	}

	if payload.SimulationFailed() {
		logging.Swap.Warn().RawJSON("simulation_error", payload.SimulationError).Msg("Swap simulation reported an error")
	}
	return payload, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + path
}

func (c *Client) observe(op string, start time.Time, err error) {
	observability.RecordHTTPLatency("swap", op, time.Since(start).Seconds())
	observability.RecordSwapRequest(op, err)
}
