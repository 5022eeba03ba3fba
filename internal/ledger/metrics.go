package ledger

import (
	"context"
	"time"

	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
)

type ledgerWithMetrics struct {
	ledger Ledger
}

func NewLedgerWithMetrics(ledger Ledger) *ledgerWithMetrics {
	return &ledgerWithMetrics{ledger: ledger}
}

func (l *ledgerWithMetrics) TransferAsUser(ctx context.Context, owner string, t Transfer) error {
	return runLedgerMethodWithMetrics("TransferAsUser", func() error {
		return l.ledger.TransferAsUser(ctx, owner, t)
	})
}

func (l *ledgerWithMetrics) TransferAsSystem(ctx context.Context, t Transfer) error {
	return runLedgerMethodWithMetrics("TransferAsSystem", func() error {
		return l.ledger.TransferAsSystem(ctx, t)
	})
}

func runLedgerMethodWithMetrics(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordLedgerLatency(duration, method, err != nil)
	return err
}
