// Package stub provides an in-memory Solana chain implementing solana.RPCClient.
// Submitted transactions are decoded, signature-checked and applied, so tests
// observe the same balance and account effects a validator would produce.
package stub

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	solanago "github.com/gagliardetto/solana-go"

	"solana-wallet-kit/internal/solana"
)

// Fee and rent parameters of the stub chain.
const (
	LamportsPerSignature = 5000

	rentStorageOverhead  = 128
	rentLamportsPerByte  = 3480
	rentExemptionYearsX2 = 2
)

var (
	// ErrRejected is returned for transactions the chain refuses to process.
	ErrRejected = errors.New("transaction rejected")
	// ErrInjected marks failures configured with Fail.
	ErrInjected = errors.New("injected failure")
)

// Submission is one accepted transaction.
type Submission struct {
	Signature    string
	Instructions []string // program:instruction
}

type tokenAccount struct {
	mint   string
	owner  string
	amount uint64
}

type state struct {
	lamports map[string]uint64
	mints    map[string]uint8
	tokens   map[string]*tokenAccount
	order    []string // token account creation order
	// allocated accounts not yet initialized, keyed by address → owner program
	allocated map[string]string
}

func (s *state) clone() *state {
	c := &state{
		lamports:  make(map[string]uint64, len(s.lamports)),
		mints:     make(map[string]uint8, len(s.mints)),
		tokens:    make(map[string]*tokenAccount, len(s.tokens)),
		order:     append([]string(nil), s.order...),
		allocated: make(map[string]string, len(s.allocated)),
	}
	for k, v := range s.lamports {
		c.lamports[k] = v
	}
	for k, v := range s.mints {
		c.mints[k] = v
	}
	for k, v := range s.tokens {
		cp := *v
		c.tokens[k] = &cp
	}
	for k, v := range s.allocated {
		c.allocated[k] = v
	}
	return c
}

// Chain is an in-memory ledger. Safe for concurrent use.
type Chain struct {
	mu          sync.Mutex
	st          *state
	submissions []Submission
	seen        map[string]bool
	failures    map[string]error
	blockhashN  uint64
	calls       map[string]int
}

// Compile-time interface check.
var _ solana.RPCClient = (*Chain)(nil)

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{
		st: &state{
			lamports:  make(map[string]uint64),
			mints:     make(map[string]uint8),
			tokens:    make(map[string]*tokenAccount),
			allocated: make(map[string]string),
		},
		seen:     make(map[string]bool),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Factory returns a ClientFactory that always yields this chain.
func (c *Chain) Factory() solana.ClientFactory {
	return func(string) solana.RPCClient { return c }
}

// SetBalance sets the lamport balance of an address.
func (c *Chain) SetBalance(address string, lamports uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.lamports[address] = lamports
}

// AddMint registers a token mint.
func (c *Chain) AddMint(mint string, decimals uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.mints[mint] = decimals
	if c.st.lamports[mint] == 0 {
		c.st.lamports[mint] = RentExempt(solana.MintSize)
	}
}

// AddTokenAccount registers an initialized token holding account.
func (c *Chain) AddTokenAccount(address, mint, owner string, amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.st.tokens[address]; !ok {
		c.st.order = append(c.st.order, address)
	}
	c.st.tokens[address] = &tokenAccount{mint: mint, owner: owner, amount: amount}
	if c.st.lamports[address] == 0 {
		c.st.lamports[address] = RentExempt(solana.TokenAccountSize)
	}
}

// Fail makes every call to method return err until cleared with a nil err.
func (c *Chain) Fail(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, method)
		return
	}
	c.failures[method] = fmt.Errorf("%w: %w", ErrInjected, err)
}

// Submissions returns accepted transactions in order.
func (c *Chain) Submissions() []Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Submission(nil), c.submissions...)
}

// Calls returns how many times method was invoked.
func (c *Chain) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// Balance returns the lamport balance of an address.
func (c *Chain) Balance(address string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.lamports[address]
}

// TokenBalance sums owner's holdings of mint.
func (c *Chain) TokenBalance(owner, mint string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total uint64
	for _, ta := range c.st.tokens {
		if ta.owner == owner && ta.mint == mint {
			total += ta.amount
		}
	}
	return total
}

// RentExempt returns the rent-exempt minimum for dataSize bytes.
func RentExempt(dataSize uint64) uint64 {
	return (rentStorageOverhead + dataSize) * rentLamportsPerByte * rentExemptionYearsX2
}

// begin records the call and returns any injected failure. Caller holds mu.
func (c *Chain) begin(method string) error {
	c.calls[method]++
	return c.failures[method]
}

// GetBalance implements solana.RPCClient.
func (c *Chain) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("getBalance"); err != nil {
		return 0, err
	}
	return c.st.lamports[pubkey], nil
}

// GetAccountInfo implements solana.RPCClient.
func (c *Chain) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("getAccountInfo"); err != nil {
		return nil, err
	}

	if decimals, ok := c.st.mints[pubkey]; ok {
		return &solana.AccountInfo{
			Lamports: c.st.lamports[pubkey],
			Owner:    solana.TokenProgramID,
			Data:     base64.StdEncoding.EncodeToString(solana.EncodeMint(0, decimals)),
		}, nil
	}
	if ta, ok := c.st.tokens[pubkey]; ok {
		raw, err := solana.EncodeTokenAccount(ta.mint, ta.owner, ta.amount)
		if err != nil {
			return nil, err
		}
		return &solana.AccountInfo{
			Lamports: c.st.lamports[pubkey],
			Owner:    solana.TokenProgramID,
			Data:     base64.StdEncoding.EncodeToString(raw),
		}, nil
	}
	if lamports, ok := c.st.lamports[pubkey]; ok && lamports > 0 {
		return &solana.AccountInfo{
			Lamports: lamports,
			Owner:    solana.SystemProgramID,
		}, nil
	}
	return nil, nil
}

// GetTokenAccountsByOwner implements solana.RPCClient.
func (c *Chain) GetTokenAccountsByOwner(_ context.Context, owner, mint string) ([]solana.TokenAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("getTokenAccountsByOwner"); err != nil {
		return nil, err
	}

	var out []solana.TokenAccount
	for _, addr := range c.st.order {
		ta := c.st.tokens[addr]
		if ta.owner != owner || ta.mint != mint {
			continue
		}
		out = append(out, solana.TokenAccount{
			Address: addr,
			Mint:    ta.mint,
			Owner:   ta.owner,
			Program: solana.TokenProgramID,
			Amount:  ta.amount,
		})
	}
	return out, nil
}

// GetMinimumBalanceForRentExemption implements solana.RPCClient.
func (c *Chain) GetMinimumBalanceForRentExemption(_ context.Context, dataSize uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("getMinimumBalanceForRentExemption"); err != nil {
		return 0, err
	}
	return RentExempt(dataSize), nil
}

// GetLatestBlockhash implements solana.RPCClient.
func (c *Chain) GetLatestBlockhash(_ context.Context) (*solana.Blockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("getLatestBlockhash"); err != nil {
		return nil, err
	}
	c.blockhashN++
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], c.blockhashN)
	return &solana.Blockhash{
		Hash:                 solanago.Hash(sha256.Sum256(seed[:])).String(),
		LastValidBlockHeight: 1000 + c.blockhashN,
	}, nil
}

// SendTransaction implements solana.RPCClient. The transaction is applied
// atomically: any failing instruction leaves the ledger unchanged.
func (c *Chain) SendTransaction(_ context.Context, encoded string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("sendTransaction"); err != nil {
		return "", err
	}

	tx, err := solana.DecodeTransaction(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if len(tx.Signatures) == 0 || len(tx.Message.AccountKeys) == 0 {
		return "", fmt.Errorf("%w: unsigned transaction", ErrRejected)
	}
	if err := tx.VerifySignatures(); err != nil {
		return "", fmt.Errorf("%w: signature verification failed: %v", ErrRejected, err)
	}

	sig := tx.Signatures[0].String()
	if c.seen[sig] {
		return "", fmt.Errorf("%w: already processed", ErrRejected)
	}

	next := c.st.clone()
	payer := tx.Message.AccountKeys[0].String()
	fee := uint64(len(tx.Signatures)) * LamportsPerSignature
	if next.lamports[payer] < fee {
		return "", fmt.Errorf("%w: insufficient funds for fee", ErrRejected)
	}
	next.lamports[payer] -= fee

	sub := Submission{Signature: sig}
	for i, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(tx.Message.AccountKeys) {
			return "", fmt.Errorf("%w: instruction %d: bad program index", ErrRejected, i)
		}
		accounts := make([]string, len(ix.Accounts))
		for j, idx := range ix.Accounts {
			if int(idx) >= len(tx.Message.AccountKeys) {
				return "", fmt.Errorf("%w: instruction %d: bad account index", ErrRejected, i)
			}
			accounts[j] = tx.Message.AccountKeys[idx].String()
		}

		program := tx.Message.AccountKeys[ix.ProgramIDIndex].String()
		var name string
		switch program {
		case solana.SystemProgramID:
			name, err = applySystem(next, accounts, ix.Data)
		case solana.TokenProgramID:
			name, err = applyToken(next, accounts, ix.Data)
		default:
			name = "unknown"
		}
		if err != nil {
			return "", fmt.Errorf("%w: instruction %d: %v", ErrRejected, i, err)
		}
		sub.Instructions = append(sub.Instructions, programName(program)+":"+name)
	}

	c.st = next
	c.seen[sig] = true
	c.submissions = append(c.submissions, sub)
	return sig, nil
}

// GetSignatureStatuses implements solana.RPCClient. Accepted signatures are
// reported as confirmed.
func (c *Chain) GetSignatureStatuses(_ context.Context, signatures ...string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("getSignatureStatuses"); err != nil {
		return nil, err
	}

	out := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		if c.seen[sig] {
			out[i] = &solana.SignatureStatus{Slot: 1, ConfirmationStatus: solana.CommitmentConfirmed}
		}
	}
	return out, nil
}

func programName(program string) string {
	switch program {
	case solana.SystemProgramID:
		return "system"
	case solana.TokenProgramID:
		return "token"
	default:
		return program
	}
}
