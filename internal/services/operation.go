package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

const (
	opInitializeEconomics = "initialize_economics"
	opCreateStakingPool   = "create_staking_pool"
	opStake               = "stake"
	opClaimRewards        = "claim_rewards"
	opUnstake             = "unstake"
	opEmergencyUnstake    = "emergency_unstake"
	opSetPauseState       = "set_pause_state"
	opSetEmergencyMode    = "set_emergency_mode"
	opUpdateRewardRate    = "update_reward_rate"
	opFundRewards         = "fund_rewards"
)

// instruction is a transfer issued while the records are committed. An
// empty signer means the transfer is authorized by the system.
type instruction struct {
	signer   string
	transfer ledger.Transfer
}

// plan is the outcome of one attempt of an operation: the records to
// commit, the transfers to issue with them and the event to publish.
type plan struct {
	// changeset is nil for operations that only move funds
	changeset    *db.Changeset
	instructions []instruction
	event        *types.Event
	// transferred is set once every instruction was issued
	transferred bool
}

// buildFunc loads the records, checks the preconditions and prepares the
// changes for one attempt at time now. It must not have side effects.
type buildFunc func(ctx context.Context, now int64) (*plan, error)

// run serializes op and records its outcome.
func (s *Service) run(ctx context.Context, op string, f func(ctx context.Context) error) error {
	start := time.Now()

	s.mu.Lock()
	err := f(ctx)
	s.mu.Unlock()

	status := metrics.Success.String()
	if err != nil {
		status = errorCode(err).String()
		log.Ctx(ctx).Debug().Err(err).Str("operation", op).Msg("operation failed")
	}
	metrics.RecordOperationDuration(time.Since(start), op, status)
	return err
}

// execute runs op to completion. The transfers are issued by the commit
// once the records passed their version check, and the records become
// visible only if every transfer succeeded. Version conflicts found
// before any transfer are retried with a fresh plan.
func (s *Service) execute(ctx context.Context, op string, build buildFunc) error {
	return s.run(ctx, op, func(ctx context.Context) error {
		p, err := s.applyWithRetry(ctx, op, build)
		if err != nil {
			return err
		}

		s.publish(ctx, p.event)
		return nil
	})
}

func (s *Service) applyWithRetry(ctx context.Context, op string, build buildFunc) (*plan, error) {
	p, err := retry.DoWithData(
		func() (*plan, error) {
			p, err := build(ctx, s.clock.Now())
			if err != nil {
				return nil, err
			}
			if err := s.apply(ctx, op, p); err != nil {
				return nil, err
			}
			return p, nil
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.Economics.CommitMaxRetryTimes),
		retry.Delay(s.cfg.Economics.CommitRetryInterval),
		retry.LastErrorOnly(true),
		retry.RetryIf(db.IsConcurrentUpdateError),
		retry.OnRetry(func(n uint, err error) {
			metrics.IncOperationRetries(op)
			log.Ctx(ctx).Debug().
				Str("operation", op).
				Uint("attempt", n+1).
				Err(err).
				Msg("records changed concurrently, retrying operation")
		}),
	)
	if err != nil {
		if db.IsConcurrentUpdateError(err) {
			return nil, types.NewStateError(fmt.Errorf("records kept changing during %s: %w", op, err))
		}
		var typed *types.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to commit %s: %w", op, err))
	}
	return p, nil
}

// apply commits p with its transfers issued from the commit hook.
func (s *Service) apply(ctx context.Context, op string, p *plan) error {
	if p.changeset == nil {
		return s.issueTransfers(ctx, op, p)
	}

	p.changeset.BeforeCommit = func(ctx context.Context) error {
		return s.issueTransfers(ctx, op, p)
	}

	err := s.db.Commit(ctx, p.changeset)
	if err == nil || !p.transferred {
		return err
	}

	// The funds moved but the records did not. Retrying would pay twice,
	// so the transfers are reversed and the error is final.
	log.Ctx(ctx).Error().Err(err).Str("operation", op).
		Msg("failed to commit records after issuing transfers")
	transfers := make([]ledger.Transfer, 0, len(p.instructions))
	for _, in := range p.instructions {
		transfers = append(transfers, in.transfer)
	}
	s.reverse(ctx, op, transfers)
	return types.NewInternalServiceError(fmt.Errorf("failed to commit %s after transfers: %v", op, err))
}

// issueTransfers issues the instructions of p in order. If one fails the
// ones already issued are reversed.
func (s *Service) issueTransfers(ctx context.Context, op string, p *plan) error {
	var issued []ledger.Transfer
	for _, in := range p.instructions {
		var err error
		if in.signer != "" {
			err = s.ledger.TransferAsUser(ctx, in.signer, in.transfer)
		} else {
			err = s.ledger.TransferAsSystem(ctx, in.transfer)
		}
		if err != nil {
			s.reverse(ctx, op, issued)
			return types.NewTransferFailedError(fmt.Errorf("%w: %w", types.ErrTransferFailed, err))
		}
		issued = append(issued, in.transfer)
	}
	p.transferred = true
	return nil
}

// reverse sends issued transfers back, last first. Only transfers whose
// destination is a system vault can be reversed by the system.
func (s *Service) reverse(ctx context.Context, op string, issued []ledger.Transfer) {
	log := log.Ctx(ctx).With().Str("operation", op).Logger()
	failed := false

	for i := len(issued) - 1; i >= 0; i-- {
		rev := issued[i].Reverse()
		if !s.isVault(rev.From) {
			failed = true
			log.Error().
				Str("asset", rev.Asset).
				Str("from", rev.From).
				Str("to", rev.To).
				Uint64("amount", rev.Amount).
				Msg("issued transfer cannot be reversed by the system")
			continue
		}
		if err := s.ledger.TransferAsSystem(ctx, rev); err != nil {
			failed = true
			log.Error().Err(err).
				Str("asset", rev.Asset).
				Str("from", rev.From).
				Str("to", rev.To).
				Uint64("amount", rev.Amount).
				Msg("failed to reverse issued transfer")
		}
	}

	metrics.IncOperationRollbacks(op, failed)
	if !failed {
		log.Warn().Int("transfers", len(issued)).Msg("operation rolled back after transfer failure")
	}
}

func (s *Service) isVault(holder string) bool {
	return s.cfg.Economics.IsVault(holder)
}

// newPlan returns a plan committing copies of the given records.
func newPlan(econ *model.Economics, pool *model.StakingPool, stake *model.UserStake) *plan {
	return &plan{
		changeset: &db.Changeset{
			Economics: econ.Clone(),
			Pool:      pool.Clone(),
			Stake:     stake.Clone(),
		},
	}
}

func errorCode(err error) types.ErrorCode {
	var e *types.Error
	if errors.As(err, &e) {
		return e.ErrorCode
	}
	return types.InternalServiceError
}
