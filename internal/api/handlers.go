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
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/httputil"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	AccessKey string `json:"access_key"`
}

type CreateCategoryRequest struct {
	Label string `json:"label"`
	Glyph string `json:"glyph"`
	Color string `json:"color"`
}

// validationMessage unwraps a rejected-input error so handlers can answer
// 400 with the store's message instead of a blank 500.
func validationMessage(err error) (string, bool) {
	var vErr *store.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Msg, true
	}
	return "", false
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	err = bcrypt.CompareHashAndPassword([]byte(s.accessKeyHash), []byte(req.AccessKey))
	if err != nil {
		logger.Error("login error: wrong access key")
		httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid access key", nil)
		return
	}
	token, err := s.jwtService.GenerateToken()
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"categories": s.store.Categories(),
	})
}

func (s *Server) GetCategoryInfo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "empty category id in path value", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, s.store.CategoryInfo(id))
}

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateCategoryRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create category error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	cat, err := s.store.UpsertCategory(ctx, &store.UpsertCategoryRequest{
		Label: req.Label,
		Glyph: req.Glyph,
		Color: req.Color,
	})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Error("create category error: rejected input")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msg, nil)
			return
		}
		logger.Error("create category error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating category", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, cat)
	logger.Info("category created", slog.String("category_id", cat.ID))
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id := r.PathValue("id")
	if id == "" {
		logger.Error("category deletion error: empty id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "empty category id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := s.store.RemoveCategory(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrCategoryNotFound):
			logger.Error("category deletion error: unexist category")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "category doesn't exist", nil)
		default:
			logger.Error("category deletion error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting category", nil)
		}
		return
	}
	logger.Info("category removed", slog.String("category_id", id))
}

func (s *Server) IncrementCount(w http.ResponseWriter, r *http.Request) {
	s.changeCount(w, r, s.store.IncrementCount)
}

func (s *Server) DecrementCount(w http.ResponseWriter, r *http.Request) {
	s.changeCount(w, r, s.store.DecrementCount)
}

func (s *Server) changeCount(w http.ResponseWriter, r *http.Request, apply func(context.Context, string, datekey.Key) (int, error)) {
	logger := GetLoggerFromCtx(r.Context())
	categoryID := r.PathValue("categoryID")
	if categoryID == "" {
		logger.Error("count change error: empty category id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "empty category id in path value", nil)
		return
	}
	date := datekey.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := datekey.Parse(raw)
		if err != nil {
			logger.Error("count change error: invalid date param")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date param, expected YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	count, err := apply(ctx, categoryID, date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrCategoryNotFound):
			logger.Error("count change error: unexist category")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "category doesn't exist", nil)
		default:
			logger.Error("count change error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while changing count", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"category_id": categoryID,
		"date":        date,
		"count":       count,
	})
	logger.Info("count changed", slog.String("category_id", categoryID))
}

func (s *Server) GetTotals(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.store.Totals())
}

func (s *Server) GetAggregate(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	start, end, err := rangeParams(r)
	if err != nil {
		logger.Error("aggregate error: invalid range params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid start/end params, expected YYYY-MM-DD", nil)
		return
	}
	totals, err := s.store.Aggregate(start, end)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidDateRange):
			logger.Error("aggregate error: end before start")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "end date before start date", nil)
		default:
			logger.Error("aggregate error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while aggregating", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"start":  start,
		"end":    end,
		"totals": totals,
	})
}

func (s *Server) GetSeries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	start, end, err := rangeParams(r)
	if err != nil {
		logger.Error("series error: invalid range params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid start/end params, expected YYYY-MM-DD", nil)
		return
	}
	series, err := s.store.Series(start, end)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidDateRange):
			logger.Error("series error: end before start")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "end date before start date", nil)
		default:
			logger.Error("series error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building series", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, series)
}

func rangeParams(r *http.Request) (datekey.Key, datekey.Key, error) {
	start, err := datekey.Parse(r.URL.Query().Get("start"))
	if err != nil {
		return "", "", err
	}
	end, err := datekey.Parse(r.URL.Query().Get("end"))
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}
