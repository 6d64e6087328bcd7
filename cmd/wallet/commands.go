package main

import (
	"context"
	"fmt"
	"strings"

	"solana-wallet-kit/internal/asset"
	"solana-wallet-kit/internal/balance"
	"solana-wallet-kit/internal/fee"
	"solana-wallet-kit/internal/price"
	"solana-wallet-kit/internal/swap"
	"solana-wallet-kit/internal/transfer"
)

type balanceResult struct {
	Account string  `json:"account"`
	Mint    string  `json:"mint"`
	Symbol  string  `json:"symbol"`
	Raw     uint64  `json:"raw"`
	Balance float64 `json:"balance"`
}

type sendResult struct {
	Signature string `json:"signature"`
	From      string `json:"from"`
	To        string `json:"to"`
	Symbol    string `json:"symbol"`
	Raw       uint64 `json:"raw"`
}

type swapResult struct {
	Signature string `json:"signature"`
	InAmount  string `json:"in_amount"`
	OutAmount string `json:"out_amount"`
}

func (a *app) assets() []asset.Metadata {
	verified := asset.VerifiedAssets()
	out := make([]asset.Metadata, len(verified))
	for i, v := range verified {
		out[i] = v.Metadata()
	}
	return out
}

func (a *app) balance(ctx context.Context, opts options) (*balanceResult, error) {
	account, err := accountOf(opts)
	if err != nil {
		return nil, err
	}
	as, err := resolveAsset(opts.asset)
	if err != nil {
		return nil, err
	}
	raw, scaled, err := a.balances.Balance(ctx, as, a.cfg.Solana.RPCEndpoint, account)
	if err != nil {
		return nil, err
	}
	return &balanceResult{Account: account, Mint: as.Address(), Symbol: as.Symbol(), Raw: raw, Balance: scaled}, nil
}

func (a *app) portfolio(ctx context.Context, opts options) ([]balance.Balance, error) {
	account, err := accountOf(opts)
	if err != nil {
		return nil, err
	}
	return a.balances.Portfolio(ctx, a.cfg.Solana.RPCEndpoint, account, asset.VerifiedAssets())
}

func (a *app) send(ctx context.Context, opts options) (*sendResult, error) {
	signer, err := loadSigner(opts)
	if err != nil {
		return nil, err
	}
	logSigner(signer)

	as, err := resolveAsset(opts.asset)
	if err != nil {
		return nil, err
	}
	if opts.to == "" {
		return nil, fmt.Errorf("-to is required")
	}
	raw, err := as.ToRawString(opts.amount)
	if err != nil {
		return nil, fmt.Errorf("-amount: %w", err)
	}

	from := signer.PublicKey().String()
	sig, err := a.builder.Transfer(ctx, transfer.Request{
		Endpoint: a.cfg.Solana.RPCEndpoint,
		Sender:   signer,
		From:     from,
		To:       opts.to,
		Asset:    as,
		Amount:   raw,
	})
	if err != nil {
		return nil, err
	}
	return &sendResult{Signature: sig, From: from, To: opts.to, Symbol: as.Symbol(), Raw: raw}, nil
}

func (a *app) fee(opts options) (*fee.Breakdown, error) {
	as, err := resolveAsset(opts.asset)
	if err != nil {
		return nil, err
	}
	raw, err := as.ToRawString(opts.amount)
	if err != nil {
		return nil, fmt.Errorf("-amount: %w", err)
	}
	b, err := a.fees.Default(as.ToScaled(raw), as.Symbol())
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *app) quote(ctx context.Context, opts options) (*swap.Quote, error) {
	in, out, raw, err := swapLegs(opts)
	if err != nil {
		return nil, err
	}
	return a.swaps.Quote(ctx, in.Address(), out.Address(), raw, opts.slippageBps)
}

func (a *app) swap(ctx context.Context, opts options) (*swapResult, error) {
	signer, err := loadSigner(opts)
	if err != nil {
		return nil, err
	}
	logSigner(signer)

	in, out, raw, err := swapLegs(opts)
	if err != nil {
		return nil, err
	}
	q, err := a.swaps.Quote(ctx, in.Address(), out.Address(), raw, opts.slippageBps)
	if err != nil {
		return nil, err
	}
	payload, err := a.swaps.BuildTransaction(ctx, q, signer.PublicKey().String(), swap.PriorityConfig{
		MaxLamports:   opts.maxPriority,
		PriorityLevel: opts.priority,
	})
	if err != nil {
		return nil, err
	}
	if payload.SimulationFailed() {
		return nil, fmt.Errorf("swap simulation failed: %s", payload.SimulationError)
	}

	sig, err := a.builder.SubmitPrebuilt(ctx, a.cfg.Solana.RPCEndpoint, signer, payload.SwapTransaction)
	if err != nil {
		return nil, err
	}
	return &swapResult{Signature: sig, InAmount: q.InAmount, OutAmount: q.OutAmount}, nil
}

func swapLegs(opts options) (in, out asset.Asset, raw uint64, err error) {
	if in, err = resolveAsset(opts.asset); err != nil {
		return
	}
	if out, err = resolveAsset(opts.outputAsset); err != nil {
		return
	}
	if raw, err = in.ToRawString(opts.amount); err != nil {
		err = fmt.Errorf("-amount: %w", err)
	}
	return
}

func (a *app) price(ctx context.Context, opts options) ([]price.Price, error) {
	var addresses []string
	if opts.assets == "" {
		for _, v := range asset.VerifiedAssets() {
			addresses = append(addresses, v.Address())
		}
	} else {
		for _, s := range strings.Split(opts.assets, ",") {
			as, err := resolveAsset(strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			addresses = append(addresses, as.Address())
		}
	}

	quotes, err := a.prices.Prices(ctx, addresses...)
	if err != nil {
		return nil, err
	}
	list := quotes.ToPriceList()
	for i := range list {
		if as, ok := asset.Resolve(list[i].Symbol); ok {
			list[i].Symbol = as.Symbol()
		}
	}
	return list, nil
}

func (a *app) treasury(ctx context.Context) ([]balance.Balance, error) {
	treasury, err := fee.TreasuryAddress(a.cfg.Fee.TreasuryAddress)
	if err != nil {
		return nil, err
	}
	return a.balances.Portfolio(ctx, a.cfg.Solana.RPCEndpoint, treasury.String(), []asset.Asset{asset.Native(), asset.BachFor(a.cfg.Solana.RPCEndpoint)})
}
