package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *handlers) listPools(r *http.Request) (*Result, error) {
	pools, err := h.svc.ListStakingPools(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]*PoolResponse, 0, len(pools))
	for _, p := range pools {
		resp = append(resp, newPoolResponse(p))
	}
	return ok(resp), nil
}

func (h *handlers) getPool(r *http.Request) (*Result, error) {
	poolID, err := poolIDParam(r)
	if err != nil {
		return nil, err
	}
	pool, err := h.svc.GetStakingPool(r.Context(), poolID)
	if err != nil {
		return nil, err
	}
	return ok(newPoolResponse(pool)), nil
}

func (h *handlers) createPool(r *http.Request) (*Result, error) {
	var req CreatePoolRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	ctx := r.Context()
	err := h.svc.CreateStakingPool(ctx, caller(r),
		req.PoolID, req.RewardMultiplier, req.MinStakePeriod, req.MaxCapacity)
	if err != nil {
		return nil, err
	}

	pool, err := h.svc.GetStakingPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusCreated, Data: newPoolResponse(pool)}, nil
}

func (h *handlers) getStake(r *http.Request) (*Result, error) {
	poolID, err := poolIDParam(r)
	if err != nil {
		return nil, err
	}
	stake, err := h.svc.GetUserStake(r.Context(), chi.URLParam(r, "user"), poolID)
	if err != nil {
		return nil, err
	}
	return ok(newStakeResponse(stake)), nil
}

func (h *handlers) previewRewards(r *http.Request) (*Result, error) {
	poolID, err := poolIDParam(r)
	if err != nil {
		return nil, err
	}
	preview, err := h.svc.PreviewRewards(r.Context(), chi.URLParam(r, "user"), poolID)
	if err != nil {
		return nil, err
	}
	return ok(preview), nil
}

func (h *handlers) listUserStakes(r *http.Request) (*Result, error) {
	stakes, err := h.svc.ListUserStakes(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		return nil, err
	}

	resp := make([]*StakeResponse, 0, len(stakes))
	for _, s := range stakes {
		resp = append(resp, newStakeResponse(s))
	}
	return ok(resp), nil
}
