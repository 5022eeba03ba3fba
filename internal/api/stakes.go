package api

import (
	"context"
	"net/http"
)

// stakeOperation runs op for the caller in the pool of the request and
// responds with the resulting stake.
func (h *handlers) stakeOperation(
	r *http.Request,
	op func(ctx context.Context, caller string, poolID uint8) error,
) (*Result, error) {
	poolID, err := poolIDParam(r)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	principal := caller(r)
	if err := op(ctx, principal, poolID); err != nil {
		return nil, err
	}

	stake, err := h.svc.GetUserStake(ctx, principal, poolID)
	if err != nil {
		return nil, err
	}
	return ok(newStakeResponse(stake)), nil
}

func (h *handlers) stake(r *http.Request) (*Result, error) {
	var req AmountRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	return h.stakeOperation(r, func(ctx context.Context, caller string, poolID uint8) error {
		return h.svc.Stake(ctx, caller, poolID, req.Amount)
	})
}

func (h *handlers) claimRewards(r *http.Request) (*Result, error) {
	return h.stakeOperation(r, h.svc.ClaimRewards)
}

// unstake withdraws the whole principal when the amount is omitted or 0.
func (h *handlers) unstake(r *http.Request) (*Result, error) {
	var req AmountRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
	}
	return h.stakeOperation(r, func(ctx context.Context, caller string, poolID uint8) error {
		return h.svc.Unstake(ctx, caller, poolID, req.Amount)
	})
}

func (h *handlers) emergencyUnstake(r *http.Request) (*Result, error) {
	return h.stakeOperation(r, h.svc.EmergencyUnstake)
}
