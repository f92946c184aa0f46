// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/extrack/internal/adapters/repository"
	"github.com/okian/extrack/internal/domain/model"
	"github.com/okian/extrack/internal/domain/types"
	"github.com/okian/extrack/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	CreateUser(ctx context.Context, username string) (types.UserView, error)
	ListUsers(ctx context.Context) ([]types.UserView, error)
	AddExercise(ctx context.Context, userID string, in model.ExerciseInput) (types.ExerciseView, error)
	Log(ctx context.Context, userID string, f model.LogFilter) (types.LogView, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	usersHandler     *UsersHandler
	exercisesHandler *ExercisesHandler
	logsHandler      *LogsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		usersHandler:     NewUsersHandler(deps),
		exercisesHandler: NewExercisesHandler(deps),
		logsHandler:      NewLogsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/users", MetricsMiddleware(s.usersHandler.HandleCreateUser, "create_user"))
	mux.HandleFunc("GET /api/users", MetricsMiddleware(s.usersHandler.HandleListUsers, "list_users"))
	mux.HandleFunc("POST /api/users/{id}/exercises", MetricsMiddleware(s.exercisesHandler.HandleAddExercise, "add_exercise"))
	mux.HandleFunc("GET /api/users/{id}/logs", MetricsMiddleware(s.logsHandler.HandleGetLogs, "get_logs"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Code: code, Message: http.StatusText(status)}
	var fe *FieldError
	if errors.As(err, &fe) {
		resp.Message = fe.Error()
		resp.Field = fe.Field
	} else if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeText writes a plain text body, the format clients of the original
// service expect for 404 and 500 responses.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// Plain text bodies for non-validation failures.
const (
	msgUserNotFound = "User not found"
	msgCreateUser   = "Error creating user"
	msgFetchUsers   = "Error fetching users"
	msgAddExercise  = "Error adding exercise"
	msgFetchLogs    = "Error fetching logs"
)

// Error codes for JSON error bodies.
const (
	codeBadRequest  = "bad_request"
	codeUnavailable = "unavailable"
)

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// rejectInvalid writes a 400 for a validation error and records the failing
// field against endpoint.
func rejectInvalid(w http.ResponseWriter, endpoint, op string, err error) {
	field := "body"
	var fe *FieldError
	if errors.As(err, &fe) {
		field = fe.Field
	}
	metrics.RecordValidationFailure(endpoint, field)
	writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
}
