package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/pkg/entity"
	"github.com/ndelacroix/habitude/pkg/httputil"
)

// Dates on the wire are plain calendar days, the way the web client sends
// them (toISOString().split('T')[0]).
const wireDateLayout = "2006-01-02"

type ToggleHabitRequest struct {
	Date string `json:"date"`
}

type UseJokerRequest struct {
	Habit string `json:"habit"`
	Date  string `json:"date"`
}

func (s *Server) GetUsers(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	users, err := s.userService.ListWithStats(ctx)
	if err != nil {
		logger.Error("getting users list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting users list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, users)
	logger.Info("users list provided")
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	name := r.PathValue("name")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.GetWithStats(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("get user error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		}
		logger.Error("get user error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting user", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("user with stats provided")
}

func (s *Server) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	name := r.PathValue("name")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	monthly, err := s.userService.GetMonthlyStats(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("monthly stats error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		}
		logger.Error("monthly stats error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building monthly stats", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, monthly)
	logger.Info("monthly stats provided")
}

func (s *Server) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	name := r.PathValue("name")
	habit, err := entity.ParseHabit(r.PathValue("habit"))
	if err != nil {
		logger.Error("toggle error: invalid habit key")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown habit key", nil)
		return
	}
	var req ToggleHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("toggle error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	day, err := time.Parse(wireDateLayout, req.Date)
	if err != nil {
		logger.Error("toggle error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.habitLogService.Toggle(ctx, name, habit, day)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("toggle error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		}
		logger.Error("toggle error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while toggling habit", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("habit toggled")
}

func (s *Server) BuyJoker(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	name := r.PathValue("name")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.userService.BuyJoker(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("joker purchase error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		}
		logger.Error("joker purchase error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while buying joker", nil)
		return
	}
	// A declined purchase is still a 200: the client shows the message
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("joker purchase handled", slog.Bool("success", result.Success))
}

func (s *Server) UseJoker(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	name := r.PathValue("name")
	var req UseJokerRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("joker redemption error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	habit, err := entity.ParseHabit(req.Habit)
	if err != nil {
		logger.Error("joker redemption error: invalid habit key")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown habit key", nil)
		return
	}
	day, err := time.Parse(wireDateLayout, req.Date)
	if err != nil {
		logger.Error("joker redemption error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.habitLogService.UseJoker(ctx, name, habit, day)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("joker redemption error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		}
		logger.Error("joker redemption error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while using joker", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("joker redemption handled", slog.Bool("success", result.Success))
}
