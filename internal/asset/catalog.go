package asset

import (
	"net/url"
	"strings"

	"solana-wallet-kit/internal/logging"
)

// Catalog addresses.
const (
	AddressSOL       = "So11111111111111111111111111111111111111112"
	AddressBACHToken = "CTQBjyrX8pYyqbNa8vAhQfnRXfu9cUxnvrxj5PvbzTmf"
	AddressJupiter   = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
	AddressUSDC      = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	AddressUSDT      = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	AddressUSDG      = "2u1tszSeqZ3qBWF3uNGPFc8TzMk2tdiwknnRMWGWjGWH"
	AddressUSDS      = "USDSwr9ApdHk5bvJKMjzff41FfuX8bSxdKcR81vTwcA"
	AddressUSD1      = "USD1ttGY1N17NEEHLmELoaybftRBUSErhqYiQzvEmuB"
	AddressEURC      = "HzwqbKZw8HxMN6bF2yFZNrht3c2iXXzpKcFu7uBEDKtr"
	AddressZBTC      = "zBTCug3er3tLyffELcvDNrKkCymbPWysGcWihESYfLg"
	AddressCbBTC     = "cbbtcf3aa214zXHbiAZQwf4122FBYbraNdFqgw4iMij"
	AddressXBTC      = "CtzPWv73Sn1dMGVU3ZtLv9yWSyUAanBni19YWDaznnkn"
	AddressGOOGLx    = "XsCPL9dNWBMvFtTmwcCA5v3xWPSMEBCszbQdiLLq6aN"
	AddressAMZNx     = "Xs3eBt7uRfJX8QUs4suhyU8p2M6DoUDrJyWBa8LLZsg"
	AddressAAPLx     = "XsbEhLAtcf6HdfpFZ5xEMdqW8nfAvcsP5bdudRLJzJp"
	AddressMETAx     = "Xsa62P5mvPszXL1krVUnU5ar38bBSVcWAB6fmPCo5Zu"
	AddressMSFTx     = "XspzcW1PRtgf6Wj92HCiZdjzKCyFekVD8P5Ueh3dRMX"
	AddressNVDAx     = "Xsc9qvGR1efVDFGLrVsmkzv3qi45LTBjeUKSPmx9qEh"
	AddressTSLAx     = "XsDoVfqeBukxuZHWhdvWHBhgEHjGNst4MLodqsJHzoB"

	// Network-specific BACH mints.
	AddressBACHTokenDevnet  = "DENNuKzCcrLhEtxZ8tm7nSeef8qvKgGGrdxX6euNkNS7"
	AddressBACHTokenTestnet = "A6a2s9LTZcYZQgxrDatLHYfvHhJEfb5ZWuFENhHtxJtR"

	// Local validator mints.
	AddressBACHLocal0 = "38JsCWEZ3dLRzcwxiCbL9rkkZqwwoWLAoCmqu7mWGSwq"
	AddressBACHLocal1 = "F1DKyNUT1zax4j241GiCPFJ9mG79HJtxeXPXH66L51Tp"
)

const (
	bachLogo   = "https://raw.githubusercontent.com/solana-labs/token-list/badd1dbe8c2d1e38c4f77b77f1d5fd5c60d3cccb/assets/mainnet/CTQBjyrX8pYyqbNa8vAhQfnRXfu9cUxnvrxj5PvbzTmf/bach-token-logo-Est.2022.png"
	tokenList  = "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/"
	xStocksCDN = "https://cdn.prod.website-files.com/655f3efc4be468487052e35a/"
)

// verified is the catalog in display order. The native coin comes first.
var verified = []Asset{
	{KindSOL, Metadata{AddressSOL, "Solana", "SOL", 9, "https://raw.githubusercontent.com/TheStableFoundation/notwallet/refs/heads/development/public/images/solana-coin.svg"}},
	{KindBACH, Metadata{AddressBACHToken, "BACH Token", "BACH", 12, bachLogo}},
	{KindJUP, Metadata{AddressJupiter, "Jupiter", "JUP", 6, tokenList + AddressJupiter + "/logo.png"}},
	{KindZBTC, Metadata{AddressZBTC, "zBTC (zBTC)", "zBTC", 8, "https://raw.githubusercontent.com/ZeusNetworkHQ/zbtc-metadata/main/lgoo-v2.png"}},
	{KindCbBTC, Metadata{AddressCbBTC, "Coinbase Wrapped BTC", "cbBTC", 8, "https://ipfs.io/ipfs/QmZ7L8yd5j36oXXydUiYFiFsRHbi3EdgC4RuFwvM7dcqge"}},
	{KindXBTC, Metadata{AddressXBTC, "OKX Wrapped BTC", "xBTC", 8, "https://assets.coingecko.com/coins/images/66627/standard/xbtc.png"}},
	{KindUSDC, Metadata{AddressUSDC, "USD Coin", "USDC", 6, tokenList + AddressUSDC + "/logo.png"}},
	{KindUSDT, Metadata{AddressUSDT, "Tether USD", "USDT", 6, tokenList + AddressUSDT + "/logo.svg"}},
	{KindUSDG, Metadata{AddressUSDG, "Global Dollar", "USDG", 6, "https://424565.fs1.hubspotusercontent-na1.net/hubfs/424565/GDN-USDG-Token-512x512.png"}},
	{KindUSDS, Metadata{AddressUSDS, "USDS", "USDS", 6, tokenList + AddressUSDS + "/logo.svg"}},
	{KindUSD1, Metadata{AddressUSD1, "USD1", "USD1", 6, "https://cdn.usd1protocol.com/logo.png"}},
	{KindEURC, Metadata{AddressEURC, "Euro Coin", "EURC", 6, tokenList + AddressEURC + "/logo.png"}},
	{KindMSFTx, Metadata{AddressMSFTx, "Microsoft xStock", "MSFTx", 8, xStocksCDN + "68497bdc918924ea97fd8211_Ticker%3DMSFT%2C%20Company%20Name%3DMicrosoft%20Inc.%2C%20size%3D256x256.svg"}},
	{KindAMZNx, Metadata{AddressAMZNx, "Amazon xStock", "AMZNx", 8, xStocksCDN + "68497d354d7140b01657a793_Ticker%3DAMZN%2C%20Company%20Name%3DAmazon.com%20Inc.%2C%20size%3D256x256.svg"}},
	{KindMETAx, Metadata{AddressMETAx, "Meta xStock", "METAx", 8, xStocksCDN + "68497dee3db1bae97b91ac05_Ticker%3DMETA%2C%20Company%20Name%3DMeta%20Platforms%20Inc.%2C%20size%3D256x256.svg"}},
	{KindAAPLx, Metadata{AddressAAPLx, "Apple xStock", "AAPLx", 8, xStocksCDN + "6849799260ee65bf38841f90_Ticker%3DAAPL%2C%20Company%20Name%3DApple%20Inc.%2C%20size%3D256x256.svg"}},
	{KindGOOGLx, Metadata{AddressGOOGLx, "Alphabet xStock", "GOOGLx", 8, xStocksCDN + "684aae04a3d8452e0ae4bad8_Ticker%3DGOOG%2C%20Company%20Name%3DAlphabet%20Inc.%2C%20size%3D256x256.svg"}},
	{KindNVDAx, Metadata{AddressNVDAx, "NVIDIA xStock", "NVDAx", 8, xStocksCDN + "684961bfb45e3c4d777b9997_Ticker%3DNVDA%2C%20Company%20Name%3DNVIDIA%20Corp%2C%20size%3D256x256.svg"}},
	{KindTSLAx, Metadata{AddressTSLAx, "Tesla xStock", "TSLAx", 8, xStocksCDN + "684aaf9559b2312c162731f5_Ticker%3DTSLA%2C%20Company%20Name%3DTesla%20Inc.%2C%20size%3D256x256.svg"}},
}

// development holds local-validator tokens resolved by literal address match.
var development = []Asset{
	{KindBACHLocal0, Metadata{AddressBACHLocal0, "BACH Token Local 0", "BACHLOCAL0", 9, bachLogo}},
	{KindBACHLocal1, Metadata{AddressBACHLocal1, "BACH Token Local 1", "BACHLOCAL1", 9, bachLogo}},
}

var (
	byAddress = make(map[string]Asset, len(verified))
	byKind    = make(map[Kind]Asset, len(verified)+len(development))
)

func init() {
	for _, a := range verified {
		byAddress[a.meta.Address] = a
		byKind[a.kind] = a
	}
	for _, a := range development {
		byKind[a.kind] = a
	}
}

// networkBach maps cluster names to their BACH mint. Mainnet uses the catalog entry.
var networkBach = map[string]string{
	"devnet":  AddressBACHTokenDevnet,
	"testnet": AddressBACHTokenTestnet,
}

// BachFor returns the BACH asset for the cluster behind rpcEndpoint. Devnet and
// testnet endpoints get their own mint; anything else gets the mainnet mint.
func BachFor(rpcEndpoint string) Asset {
	a := BachToken()
	u, err := url.Parse(rpcEndpoint)
	if err != nil {
		return a
	}
	host := strings.ToLower(u.Hostname())
	for cluster, mint := range networkBach {
		if strings.Contains(host, cluster) {
			a.meta.Address = mint
			return a
		}
	}
	return a
}

// Resolve looks an asset up by mint address. Unknown addresses are not an
// error: the second return value is false and a diagnostic is logged.
func Resolve(address string) (Asset, bool) {
	if a, ok := byAddress[address]; ok {
		return a, true
	}
	for _, a := range development {
		if a.meta.Address == address {
			return a, true
		}
	}
	for _, mint := range networkBach {
		if mint == address {
			a := BachToken()
			a.meta.Address = mint
			return a, true
		}
	}
	logging.Registry.Debug().Str("address", address).Msg("unsupported solana asset")
	return Asset{}, false
}

// ByKind returns the catalog entry for k.
func ByKind(k Kind) (Asset, bool) {
	a, ok := byKind[k]
	return a, ok
}

// BySymbol finds a catalog or development asset by ticker, case-sensitive.
func BySymbol(symbol string) (Asset, bool) {
	for _, a := range verified {
		if a.meta.Symbol == symbol {
			return a, true
		}
	}
	for _, a := range development {
		if a.meta.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

// VerifiedAssets returns the catalog in its fixed display order.
func VerifiedAssets() []Asset {
	out := make([]Asset, len(verified))
	copy(out, verified)
	return out
}

// Named constructors.

func Native() Asset    { return byKind[KindSOL] }
func BachToken() Asset { return byKind[KindBACH] }
func Jupiter() Asset   { return byKind[KindJUP] }
func ZBTC() Asset      { return byKind[KindZBTC] }
func CbBTC() Asset     { return byKind[KindCbBTC] }
func XBTC() Asset      { return byKind[KindXBTC] }
func USDC() Asset      { return byKind[KindUSDC] }
func USDT() Asset      { return byKind[KindUSDT] }
func USDG() Asset      { return byKind[KindUSDG] }
func USDS() Asset      { return byKind[KindUSDS] }
func USD1() Asset      { return byKind[KindUSD1] }
func EURC() Asset      { return byKind[KindEURC] }
func MSFTx() Asset     { return byKind[KindMSFTx] }
func AMZNx() Asset     { return byKind[KindAMZNx] }
func METAx() Asset     { return byKind[KindMETAx] }
func AAPLx() Asset     { return byKind[KindAAPLx] }
func GOOGLx() Asset    { return byKind[KindGOOGLx] }
func NVDAx() Asset     { return byKind[KindNVDAx] }
func TSLAx() Asset     { return byKind[KindTSLAx] }

// Custom builds an ad-hoc SPL token asset outside the catalog.
func Custom(address, name, symbol string, decimals uint8, iconURI string) Asset {
	return Asset{kind: Kind("custom:" + address), meta: Metadata{address, name, symbol, decimals, iconURI}}
}
