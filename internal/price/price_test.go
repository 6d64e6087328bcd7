package price

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jupMint = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
	solMint = "So11111111111111111111111111111111111111112"
)

const pricesJSON = `{
  "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN": {"usdPrice": 0.4056018512541055, "blockId": 348004026, "decimals": 6, "priceChange24h": 0.5292887924920519},
  "So11111111111111111111111111111111111111112": {"usdPrice": 147.4789340738336, "blockId": 348004023, "decimals": 9, "priceChange24h": -1.2907622140620008}
}`

func TestClientPrices(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, pricesJSON)
	}))
	defer server.Close()

	c := NewClient("secret")
	c.BaseURL = server.URL
	c.Path = "/price"
	c.UserAgent = "wallet-test/1.0"

	prices, err := c.Prices(context.Background(), jupMint, solMint)
	require.NoError(t, err)

	assert.Equal(t, "/price", got.URL.Path)
	assert.Equal(t, jupMint+","+solMint, got.URL.Query().Get("address"))
	assert.Equal(t, "secret", got.Header.Get("X-API-KEY"))
	assert.Equal(t, "wallet-test/1.0", got.Header.Get("User-Agent"))

	sol, ok := prices.Get(solMint)
	require.True(t, ok)
	assert.Equal(t, uint8(9), sol.Decimals)
	assert.Equal(t, uint64(348004023), sol.BlockID)
	assert.Equal(t, []string{jupMint, solMint}, prices.Addresses())
}

func TestClientPrices_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient("")
	c.BaseURL = server.URL
	_, err := c.Prices(context.Background(), solMint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClientPrices_NoAddresses(t *testing.T) {
	c := NewClient("")
	c.BaseURL = "http://127.0.0.1:0"
	prices, err := c.Prices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestTokenPriceFormatting(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{147.4789, "$147.48"},
		{1, "$1.00"},
		{0.4056018, "$0.4056"},
		{0.01, "$0.0100"},
		{0.000123456, "$0.000123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TokenPrice{USDPrice: tt.price}.FormattedUSDPrice())
	}

	up := TokenPrice{PriceChange24h: 0.5292887924920519}
	assert.Equal(t, "0.53%", up.PriceChangePercentage())
	assert.True(t, up.IsPriceUp())
	assert.False(t, TokenPrice{PriceChange24h: 0}.IsPriceUp())
	assert.Equal(t, "-1.29%", TokenPrice{PriceChange24h: -1.2907}.PriceChangePercentage())
}

func TestPricesToPriceList(t *testing.T) {
	p := Prices{
		solMint: {USDPrice: 150},
		jupMint: {USDPrice: 0.4},
	}
	assert.Equal(t, []Price{{Symbol: jupMint, Price: 0.4}, {Symbol: solMint, Price: 150}}, p.ToPriceList())

	_, ok := p.Get("missing")
	assert.False(t, ok)
}
