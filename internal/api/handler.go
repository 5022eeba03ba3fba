package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/services"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

// maxBodySize bounds request bodies, every request fits in a few hundred bytes
const maxBodySize = 1 << 16

type StakingService interface {
	InitializeEconomics(ctx context.Context, caller string, rate uint64, feeBps uint16, minStake, maxStake uint64) error
	GetEconomics(ctx context.Context) (*model.Economics, error)

	CreateStakingPool(ctx context.Context, caller string, poolID uint8, multiplier uint16, minPeriod int64, maxCapacity uint64) error
	GetStakingPool(ctx context.Context, poolID uint8) (*model.StakingPool, error)
	ListStakingPools(ctx context.Context) ([]*model.StakingPool, error)

	Stake(ctx context.Context, caller string, poolID uint8, amount uint64) error
	ClaimRewards(ctx context.Context, caller string, poolID uint8) error
	Unstake(ctx context.Context, caller string, poolID uint8, amount uint64) error
	EmergencyUnstake(ctx context.Context, caller string, poolID uint8) error

	GetUserStake(ctx context.Context, user string, poolID uint8) (*model.UserStake, error)
	ListUserStakes(ctx context.Context, user string) ([]*model.UserStake, error)
	PreviewRewards(ctx context.Context, user string, poolID uint8) (*services.RewardsPreview, error)

	SetPauseState(ctx context.Context, caller string, paused bool) error
	SetEmergencyMode(ctx context.Context, caller string, enabled bool) error
	UpdateRewardRate(ctx context.Context, caller string, rate uint64) error
	FundRewards(ctx context.Context, caller string, amount uint64) error
}

var _ StakingService = (*services.Service)(nil)

type handlers struct {
	svc StakingService
}

// Result is a successful response, Data is encoded as json.
type Result struct {
	Status int
	Data   any
}

func ok(data any) *Result {
	return &Result{Status: http.StatusOK, Data: data}
}

type handlerFunc func(r *http.Request) (*Result, error)

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func wrap(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := f(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, res.Status, res.Data)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *types.Error
	if !errors.As(err, &apiErr) {
		apiErr = types.NewInternalServiceError(err)
	}

	message := apiErr.Error()
	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
		if apiErr.ErrorCode == types.InternalServiceError {
			message = "internal service error"
		}
	}

	writeJSON(w, apiErr.StatusCode, ErrorResponse{
		ErrorCode: apiErr.ErrorCode.String(),
		Message:   message,
	})
}

// decodeBody decodes a json body, unknown fields are rejected.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func poolIDParam(r *http.Request) (uint8, error) {
	raw := chi.URLParam(r, "poolID")
	id, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("invalid pool id %q", raw))
	}
	return uint8(id), nil
}

// caller returns the principal resolved by authMiddleware
func caller(r *http.Request) string {
	principal, _ := auth.PrincipalFromContext(r.Context())
	return principal
}
