package solana

import "context"

// RPCClient defines the Solana JSON-RPC methods the wallet engine uses.
type RPCClient interface {
	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetAccountInfo retrieves account info. Returns nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenAccountsByOwner lists owner's token accounts for a mint.
	GetTokenAccountsByOwner(ctx context.Context, owner, mint string) ([]TokenAccount, error)

	// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for a data size.
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)

	// GetLatestBlockhash returns the most recent blockhash.
	GetLatestBlockhash(ctx context.Context) (*Blockhash, error)

	// SendTransaction submits a base64-encoded signed transaction and returns its signature.
	SendTransaction(ctx context.Context, encoded string) (string, error)

	// GetSignatureStatuses returns one entry per signature; nil entries are unknown signatures.
	GetSignatureStatuses(ctx context.Context, signatures ...string) ([]*SignatureStatus, error)
}

// ClientFactory opens an RPC client for an endpoint. Services call it once per operation.
type ClientFactory func(endpoint string) RPCClient

// DefaultClientFactory opens an HTTPClient with default options.
func DefaultClientFactory(opts ...ClientOption) ClientFactory {
	return func(endpoint string) RPCClient {
		return NewHTTPClient(endpoint, opts...)
	}
}
