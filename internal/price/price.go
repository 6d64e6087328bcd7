// Package price fetches USD prices for token mints.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
)

// Service defaults.
const (
	DefaultBaseURL   = "https://public-api.birdeye.so"
	DefaultPath      = "/defi/multi_price"
	DefaultUserAgent = "solana-wallet-kit"
	DefaultTimeout   = 15 * time.Second
)

// TokenPrice is the quote for one mint.
type TokenPrice struct {
	USDPrice       float64 `json:"usdPrice"`
	BlockID        uint64  `json:"blockId"`
	Decimals       uint8   `json:"decimals"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// PriceChangePercentage formats the 24h change, e.g. "1.29%".
func (p TokenPrice) PriceChangePercentage() string {
	return fmt.Sprintf("%.2f%%", p.PriceChange24h)
}

// IsPriceUp reports a positive 24h change.
func (p TokenPrice) IsPriceUp() bool {
	return p.PriceChange24h > 0
}

// FormattedUSDPrice uses more decimals the smaller the price.
func (p TokenPrice) FormattedUSDPrice() string {
	switch {
	case p.USDPrice >= 1:
		return fmt.Sprintf("$%.2f", p.USDPrice)
	case p.USDPrice >= 0.01:
		return fmt.Sprintf("$%.4f", p.USDPrice)
	default:
		return fmt.Sprintf("$%.6f", p.USDPrice)
	}
}

// Prices maps mint address to price.
type Prices map[string]TokenPrice

// Price pairs an identifier with its USD price.
type Price struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// Get returns the price of address.
func (p Prices) Get(address string) (TokenPrice, bool) {
	tp, ok := p[address]
	return tp, ok
}

// Addresses returns every address in sorted order.
func (p Prices) Addresses() []string {
	out := make([]string, 0, len(p))
	for addr := range p {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// ToPriceList returns one Price per address, keyed by address, in address order.
func (p Prices) ToPriceList() []Price {
	out := make([]Price, 0, len(p))
	for _, addr := range p.Addresses() {
		out = append(out, Price{Symbol: addr, Price: p[addr].USDPrice})
	}
	return out
}

// Client queries the price service.
type Client struct {
	BaseURL   string
	Path      string
	APIKey    string
	UserAgent string
	HTTP      *http.Client
}

// NewClient creates a client with default endpoint and user agent.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		Path:      DefaultPath,
		APIKey:    apiKey,
		UserAgent: DefaultUserAgent,
		HTTP:      &http.Client{Timeout: DefaultTimeout},
	}
}

// Prices fetches prices for addresses in one request.
func (c *Client) Prices(ctx context.Context, addresses ...string) (prices Prices, err error) {
	start := time.Now()
	defer func() { observability.RecordHTTPLatency("price", "prices", time.Since(start).Seconds()) }()

	if len(addresses) == 0 {
		return Prices{}, nil
	}

	u := strings.TrimRight(c.BaseURL, "/") + c.Path + "?address=" + url.QueryEscape(strings.Join(addresses, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create price request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("price request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	prices = Prices{}
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}

	logging.Price.Debug().Int("requested", len(addresses)).Int("received", len(prices)).Msg("Prices fetched")
	return prices, nil
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}
