package api

import (
	"net/http"
)

func (h *handlers) healthCheck(r *http.Request) (*Result, error) {
	return ok(map[string]string{"status": "ok"}), nil
}

func (h *handlers) getEconomics(r *http.Request) (*Result, error) {
	econ, err := h.svc.GetEconomics(r.Context())
	if err != nil {
		return nil, err
	}
	return ok(newEconomicsResponse(econ)), nil
}

func (h *handlers) initializeEconomics(r *http.Request) (*Result, error) {
	var req InitializeEconomicsRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	ctx := r.Context()
	err := h.svc.InitializeEconomics(ctx, caller(r),
		req.RewardRatePerSecond, req.GovernanceFeeBps, req.MinStakeAmount, req.MaxStakeAmount)
	if err != nil {
		return nil, err
	}

	econ, err := h.svc.GetEconomics(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusCreated, Data: newEconomicsResponse(econ)}, nil
}

func (h *handlers) setPauseState(r *http.Request) (*Result, error) {
	var req FlagRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if err := h.svc.SetPauseState(r.Context(), caller(r), req.Enabled); err != nil {
		return nil, err
	}
	return h.getEconomics(r)
}

func (h *handlers) setEmergencyMode(r *http.Request) (*Result, error) {
	var req FlagRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if err := h.svc.SetEmergencyMode(r.Context(), caller(r), req.Enabled); err != nil {
		return nil, err
	}
	return h.getEconomics(r)
}

func (h *handlers) updateRewardRate(r *http.Request) (*Result, error) {
	var req RewardRateRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if err := h.svc.UpdateRewardRate(r.Context(), caller(r), req.Rate); err != nil {
		return nil, err
	}
	return h.getEconomics(r)
}

func (h *handlers) fundRewards(r *http.Request) (*Result, error) {
	var req AmountRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if err := h.svc.FundRewards(r.Context(), caller(r), req.Amount); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusNoContent}, nil
}
