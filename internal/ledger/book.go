package ledger

import (
	"context"
	"fmt"
	"sync"
)

// Book is an in-memory Ledger. Balances are kept per asset and holder; only
// holders registered as vaults can be debited by system transfers.
type Book struct {
	mu       sync.RWMutex
	balances map[string]map[string]uint64
	vaults   map[string]struct{}
}

var _ Ledger = (*Book)(nil)

func NewBook(vaults ...string) *Book {
	b := &Book{
		balances: make(map[string]map[string]uint64),
		vaults:   make(map[string]struct{}),
	}
	for _, v := range vaults {
		b.RegisterVault(v)
	}
	return b
}

func (b *Book) RegisterVault(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.vaults[name] = struct{}{}
}

// Mint credits amount of asset to holder out of thin air.
func (b *Book) Mint(asset, holder string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.credit(asset, holder, amount)
}

func (b *Book) Balance(asset, holder string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.balances[asset][holder]
}

func (b *Book) TransferAsUser(_ context.Context, owner string, t Transfer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.From != owner {
		return fmt.Errorf("%w: %s cannot move funds of %s", ErrNotOwner, owner, t.From)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.move(t)
}

func (b *Book) TransferAsSystem(_ context.Context, t Transfer) error {
	if err := t.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.vaults[t.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVault, t.From)
	}
	return b.move(t)
}

// move must be called with b.mu held
func (b *Book) move(t Transfer) error {
	balance := b.balances[t.Asset][t.From]
	if balance < t.Amount {
		return fmt.Errorf(
			"%w: %s holds %d %s, %d requested", ErrInsufficientBalance, t.From, balance, t.Asset, t.Amount,
		)
	}

	if err := b.credit(t.Asset, t.To, t.Amount); err != nil {
		return err
	}
	b.balances[t.Asset][t.From] = balance - t.Amount
	return nil
}

// credit must be called with b.mu held
func (b *Book) credit(asset, holder string, amount uint64) error {
	holders, ok := b.balances[asset]
	if !ok {
		holders = make(map[string]uint64)
		b.balances[asset] = holders
	}

	current := holders[holder]
	if current+amount < current {
		return fmt.Errorf("balance of %s in %s overflows", holder, asset)
	}
	holders[holder] = current + amount
	return nil
}
