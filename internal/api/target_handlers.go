package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/entity"
	"github.com/limbo/logbook/pkg/httputil"
)

type SetTargetRequest struct {
	Weight  float64 `json:"weight"`
	DueDate string  `json:"due_date"`
}

type UpdateTargetRequest struct {
	Weight  *float64 `json:"weight,omitempty"`
	DueDate *string  `json:"due_date,omitempty"`
}

type CloseTargetRequest struct {
	Outcome string `json:"outcome"`
}

type ProfileRequest struct {
	Name           string  `json:"name,omitempty"`
	BirthMonth     *int    `json:"birth_month,omitempty"`
	BirthYear      *int    `json:"birth_year,omitempty"`
	HeightCm       int     `json:"height_cm,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	ActivityLevel  float64 `json:"activity_level,omitempty"`
	StartingWeight float64 `json:"starting_weight,omitempty"`
}

type ProfileSummaryResponse struct {
	Health store.HealthSummary `json:"health"`
	Weekly store.WeeklySummary `json:"weekly"`
}

func (s *Server) GetTarget(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	summary, err := s.store.TargetSummary()
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNoActiveTarget):
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no active target", nil)
		default:
			logger.Error("get target error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting target", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, summary)
}

func (s *Server) GetTargetHistory(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"past_targets": s.store.PastTargets(),
	})
}

func (s *Server) SetTarget(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req SetTargetRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("set target error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	target, err := s.store.SetTarget(ctx, &store.SetTargetRequest{
		Weight:  req.Weight,
		DueDate: req.DueDate,
	})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Error("set target error: rejected input")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msg, nil)
			return
		}
		switch {
		case errors.Is(err, errorvalues.ErrNoBaselineWeight):
			logger.Error("set target error: no baseline weight")
			httputil.WriteErrorResponse(w, http.StatusConflict, "log a weight or set a starting weight first", nil)
		default:
			logger.Error("set target error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while setting target", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, target)
	logger.Info("target set")
}

func (s *Server) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req UpdateTargetRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update target error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	target, err := s.store.UpdateTarget(ctx, &store.UpdateTargetRequest{
		Weight:  req.Weight,
		DueDate: req.DueDate,
	})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Error("update target error: rejected input")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msg, nil)
			return
		}
		switch {
		case errors.Is(err, errorvalues.ErrNoActiveTarget):
			logger.Error("update target error: no active target")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no active target", nil)
		default:
			logger.Error("update target error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating target", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, target)
	logger.Info("target updated")
}

func (s *Server) CloseTarget(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CloseTargetRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("close target error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	past, err := s.store.CloseTarget(ctx, entity.TargetOutcome(req.Outcome))
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidOutcome):
			logger.Error("close target error: invalid outcome")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "outcome must be completed or cancelled", nil)
		case errors.Is(err, errorvalues.ErrNoActiveTarget):
			logger.Error("close target error: no active target")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no active target", nil)
		default:
			logger.Error("close target error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while closing target", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, past)
	logger.Info("target closed", slog.String("outcome", string(past.Outcome)))
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.store.Profile())
}

func (s *Server) SetProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ProfileRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("set profile error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.store.SetProfile(ctx, &store.ProfileRequest{
		Name:           req.Name,
		BirthMonth:     req.BirthMonth,
		BirthYear:      req.BirthYear,
		HeightCm:       req.HeightCm,
		Gender:         req.Gender,
		ActivityLevel:  req.ActivityLevel,
		StartingWeight: req.StartingWeight,
	})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Error("set profile error: rejected input")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msg, nil)
			return
		}
		logger.Error("set profile error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving profile", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, profile)
	logger.Info("profile saved")
}

func (s *Server) GetProfileSummary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	weekly, err := s.store.WeeklySummary()
	if err != nil {
		logger.Error("profile summary error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building summary", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ProfileSummaryResponse{
		Health: s.store.HealthSummary(),
		Weekly: weekly,
	})
}
