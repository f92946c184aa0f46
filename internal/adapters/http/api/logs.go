package api

import (
	"net/http"

	"github.com/okian/extrack/pkg/logger"
)

// LogsHandler handles GET /api/users/{id}/logs.
type LogsHandler struct {
	deps Dependencies
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(deps Dependencies) *LogsHandler {
	return &LogsHandler{deps: deps}
}

// HandleGetLogs returns the user's exercise log filtered by the from, to and
// limit query parameters.
func (h *LogsHandler) HandleGetLogs(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_logs"
	userID := r.PathValue("id")

	filter, err := newLogQuery(r).parse()
	if err != nil {
		rejectInvalid(w, "get_logs", op, err)
		return
	}

	log, err := h.deps.Log(r.Context(), userID, filter)
	switch {
	case isNotFound(err):
		writeText(w, http.StatusNotFound, msgUserNotFound)
		return
	case err != nil:
		logger.Get().Error(r.Context(), "fetch logs failed",
			logger.String("user_id", userID), logger.Error(Wrap(op, err)))
		writeText(w, http.StatusInternalServerError, msgFetchLogs)
		return
	}
	writeJSON(w, http.StatusOK, log)
}
