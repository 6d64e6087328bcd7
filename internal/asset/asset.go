// Package asset holds the closed catalog of Solana assets the wallet understands.
package asset

import "strconv"

// TokenProgramID is the SPL Token program that owns every non-native catalog asset.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// Metadata describes an asset. Values are immutable once built.
type Metadata struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	IconURI  string `json:"logo_uri"`
}

// Kind is the stable identifier of a catalog entry.
type Kind string

// Catalog kinds.
const (
	KindSOL    Kind = "sol"
	KindBACH   Kind = "bach"
	KindJUP    Kind = "jup"
	KindZBTC   Kind = "zbtc"
	KindCbBTC  Kind = "cbbtc"
	KindXBTC   Kind = "xbtc"
	KindUSDC   Kind = "usdc"
	KindUSDT   Kind = "usdt"
	KindUSDG   Kind = "usdg"
	KindUSDS   Kind = "usds"
	KindUSD1   Kind = "usd1"
	KindEURC   Kind = "eurc"
	KindMSFTx  Kind = "msftx"
	KindAMZNx  Kind = "amznx"
	KindMETAx  Kind = "metax"
	KindAAPLx  Kind = "aaplx"
	KindGOOGLx Kind = "googlx"
	KindNVDAx  Kind = "nvdax"
	KindTSLAx  Kind = "tslax"

	// Local development tokens, never part of VerifiedAssets.
	KindBACHLocal0 Kind = "bach_local_0"
	KindBACHLocal1 Kind = "bach_local_1"
)

// Asset is a catalog entry: a kind plus its metadata. Copy freely.
type Asset struct {
	kind Kind
	meta Metadata
}

// Kind returns the catalog identifier.
func (a Asset) Kind() Kind { return a.kind }

// Metadata returns a copy of the asset metadata.
func (a Asset) Metadata() Metadata { return a.meta }

// Address returns the mint address (the wrapped SOL mint for the native coin).
func (a Asset) Address() string { return a.meta.Address }

// Symbol returns the ticker symbol.
func (a Asset) Symbol() string { return a.meta.Symbol }

// Decimals returns the decimal precision.
func (a Asset) Decimals() uint8 { return a.meta.Decimals }

// IsNative reports whether the asset is the chain's native coin.
// Every other kind is an SPL Token balance held in a token account.
func (a Asset) IsNative() bool { return a.kind == KindSOL }

// SmallestDenomination returns 10^decimals.
func (a Asset) SmallestDenomination() float64 {
	p, ok := pow10(a.meta.Decimals)
	if !ok {
		// Beyond uint64 range, fall back to parsing the exact decimal literal.
		f, _ := strconv.ParseFloat("1e"+strconv.Itoa(int(a.meta.Decimals)), 64)
		return f
	}
	return float64(p)
}

// ToScaled converts a raw integer amount to human units.
func (a Asset) ToScaled(raw uint64) float64 {
	return float64(raw) / a.SmallestDenomination()
}

func (a Asset) String() string {
	return a.meta.Symbol + " (" + a.meta.Address + ")"
}

// pow10 computes 10^n exactly when it fits in a uint64 (n <= 19).
func pow10(n uint8) (uint64, bool) {
	if n > 19 {
		return 0, false
	}
	p := uint64(1)
	for i := uint8(0); i < n; i++ {
		p *= 10
	}
	return p, true
}
