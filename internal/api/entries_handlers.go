package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
	"github.com/limbo/logbook/pkg/httputil"
)

func (s *Server) GetEntries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	filter := &store.EntryFilter{
		Activity: entity.Activity(r.URL.Query().Get("activity")),
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := datekey.Parse(raw)
		if err != nil {
			logger.Error("get entries error: invalid from param")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid from param, expected YYYY-MM-DD", nil)
			return
		}
		filter.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := datekey.Parse(raw)
		if err != nil {
			logger.Error("get entries error: invalid to param")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid to param, expected YYYY-MM-DD", nil)
			return
		}
		filter.To = to
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"entries": s.store.Entries(filter),
	})
}

func (s *Server) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	date, err := datekey.Parse(r.PathValue("date"))
	if err != nil {
		logger.Error("upsert entry error: invalid date in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date in path value, expected YYYY-MM-DD", nil)
		return
	}
	var patch store.EntryPatch
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		logger.Error("upsert entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.store.UpsertLogEntry(ctx, date, &patch)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Error("upsert entry error: rejected input")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msg, nil)
			return
		}
		logger.Error("upsert entry error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while saving entry", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
	logger.Info("entry saved", slog.String("date", string(date)))
}

func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("entry deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.store.DeleteLogEntry(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEntryNotFound):
			logger.Error("entry deletion error: unexist entry")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "entry doesn't exist", nil)
		default:
			logger.Error("entry deletion error: store error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting entry", nil)
		}
		return
	}
	logger.Info("entry deleted", slog.Int64("entry_id", id))
}

func (s *Server) ExportEntries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	httputil.SetAttachmentHeaders(w, "health-log.csv", "text/csv")
	if err := s.store.ExportCSV(w); err != nil {
		logger.Error("export error", slog.String("error", err.Error()))
		return
	}
	logger.Info("log exported")
}
