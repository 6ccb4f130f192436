package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/httputil"
)

type SetThemeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) GetProblems(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"topics": s.store.Problems(),
	})
}

func (s *Server) GetProblemStats(w http.ResponseWriter, r *http.Request) {
	stats, byTopic := s.store.ProblemStats()
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"stats":  stats,
		"topics": byTopic,
	})
}

func (s *Server) ToggleSolved(w http.ResponseWriter, r *http.Request) {
	s.toggleProblemFlag(w, r, "solved", s.store.ToggleSolved)
}

func (s *Server) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	s.toggleProblemFlag(w, r, "bookmarked", s.store.ToggleBookmark)
}

func (s *Server) toggleProblemFlag(w http.ResponseWriter, r *http.Request, field string, apply func(context.Context, string) (bool, error)) {
	logger := GetLoggerFromCtx(r.Context())
	id := r.PathValue("id")
	if id == "" {
		logger.Error("toggle error: empty problem id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "empty problem id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	state, err := apply(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrProblemNotFound):
			logger.Error("toggle error: unexist problem")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "problem doesn't exist", nil)
		default:
			logger.Error("toggle error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while toggling flag", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"id":  id,
		field: state,
	})
	logger.Info("problem flag toggled", slog.String("problem_id", id))
}

func (s *Server) GetTheme(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"theme": s.store.Theme(),
	})
}

func (s *Server) SetTheme(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req SetThemeRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("set theme error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.store.SetTheme(ctx, req.Theme)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Error("set theme error: rejected input")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msg, nil)
			return
		}
		logger.Error("set theme error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving theme", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"theme": req.Theme,
	})
	logger.Info("theme saved", slog.String("theme", req.Theme))
}

func (s *Server) ClearData(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	err := s.store.ClearAll(ctx)
	if err != nil {
		logger.Error("clear data error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while clearing data", nil)
		return
	}
	logger.Info("all data cleared")
}
