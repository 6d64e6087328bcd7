package stub

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"solana-wallet-kit/internal/solana"
)

// System program instruction tags (u32 LE).
const (
	systemCreateAccount = 0
	systemTransfer      = 2
)

// Token program instruction tags (u8).
const (
	tokenInitializeAccount = 1
	tokenTransfer          = 3
)

func applySystem(st *state, accounts []string, data []byte) (string, error) {
	if len(data) < 4 {
		return "", errors.New("system: short data")
	}
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case systemTransfer:
		if len(data) < 12 || len(accounts) < 2 {
			return "", errors.New("system transfer: malformed")
		}
		lamports := binary.LittleEndian.Uint64(data[4:12])
		from, to := accounts[0], accounts[1]
		if st.lamports[from] < lamports {
			return "", fmt.Errorf("system transfer: insufficient lamports %d, need %d", st.lamports[from], lamports)
		}
		st.lamports[from] -= lamports
		st.lamports[to] += lamports
		return "transfer", nil

	case systemCreateAccount:
		if len(data) < 52 || len(accounts) < 2 {
			return "", errors.New("system create account: malformed")
		}
		lamports := binary.LittleEndian.Uint64(data[4:12])
		space := binary.LittleEndian.Uint64(data[12:20])
		owner := base58.Encode(data[20:52])
		funder, account := accounts[0], accounts[1]

		if st.lamports[account] > 0 {
			return "", fmt.Errorf("system create account: %s already in use", account)
		}
		if lamports < RentExempt(space) {
			return "", fmt.Errorf("system create account: %d lamports below rent-exempt minimum %d", lamports, RentExempt(space))
		}
		if st.lamports[funder] < lamports {
			return "", fmt.Errorf("system create account: insufficient lamports %d, need %d", st.lamports[funder], lamports)
		}
		st.lamports[funder] -= lamports
		st.lamports[account] = lamports
		st.allocated[account] = owner
		return "createAccount", nil
	}
	return "", errors.New("system: unsupported instruction")
}

func applyToken(st *state, accounts []string, data []byte) (string, error) {
	if len(data) < 1 {
		return "", errors.New("token: empty data")
	}
	switch data[0] {
	case tokenInitializeAccount:
		if len(accounts) < 3 {
			return "", errors.New("token initialize account: malformed")
		}
		account, mint, owner := accounts[0], accounts[1], accounts[2]
		if st.allocated[account] != solana.TokenProgramID {
			return "", fmt.Errorf("token initialize account: %s not allocated to token program", account)
		}
		if _, ok := st.mints[mint]; !ok {
			return "", fmt.Errorf("token initialize account: mint %s not found", mint)
		}
		delete(st.allocated, account)
		st.tokens[account] = &tokenAccount{mint: mint, owner: owner}
		st.order = append(st.order, account)
		return "initializeAccount", nil

	case tokenTransfer:
		if len(data) < 9 || len(accounts) < 3 {
			return "", errors.New("token transfer: malformed")
		}
		amount := binary.LittleEndian.Uint64(data[1:9])
		src, dst, authority := st.tokens[accounts[0]], st.tokens[accounts[1]], accounts[2]
		if src == nil || dst == nil {
			return "", errors.New("token transfer: account not initialized")
		}
		if src.mint != dst.mint {
			return "", errors.New("token transfer: mint mismatch")
		}
		if src.owner != authority {
			return "", errors.New("token transfer: owner does not match")
		}
		if src.amount < amount {
			return "", fmt.Errorf("token transfer: insufficient funds %d, need %d", src.amount, amount)
		}
		src.amount -= amount
		dst.amount += amount
		return "transfer", nil
	}
	return "", errors.New("token: unsupported instruction")
}
