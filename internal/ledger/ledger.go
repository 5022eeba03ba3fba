// Package ledger moves fungible assets between holders. The staking
// operations only describe transfers, a Ledger carries them out.
package ledger

import (
	"context"
	"errors"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotOwner            = errors.New("transfer source is not owned by the signer")
	ErrUnknownVault        = errors.New("transfer source is not a system vault")
	ErrInvalidTransfer     = errors.New("invalid transfer")
)

// Transfer moves Amount of Asset from holder From to holder To.
type Transfer struct {
	Asset  string `json:"asset"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (t Transfer) Validate() error {
	if t.Asset == "" || t.From == "" || t.To == "" {
		return ErrInvalidTransfer
	}
	if t.From == t.To {
		return ErrInvalidTransfer
	}
	if t.Amount == 0 {
		return ErrInvalidTransfer
	}
	return nil
}

// Reverse returns the transfer that undoes t.
func (t Transfer) Reverse() Transfer {
	return Transfer{
		Asset:  t.Asset,
		From:   t.To,
		To:     t.From,
		Amount: t.Amount,
	}
}

//go:generate mockery --name=Ledger --output=../../testutil/mocks --outpkg=mocks --filename=ledger.go
type Ledger interface {
	// TransferAsUser moves funds out of a holding owned by owner, it fails
	// unless t.From == owner.
	TransferAsUser(ctx context.Context, owner string, t Transfer) error
	// TransferAsSystem moves funds out of one of the system vaults.
	TransferAsSystem(ctx context.Context, t Transfer) error
}
