package api

import (
	"net/http"

	"github.com/okian/extrack/pkg/logger"
)

// ExercisesHandler handles POST /api/users/{id}/exercises.
type ExercisesHandler struct {
	deps Dependencies
}

// NewExercisesHandler creates a new exercises handler.
func NewExercisesHandler(deps Dependencies) *ExercisesHandler {
	return &ExercisesHandler{deps: deps}
}

// HandleAddExercise validates the body before touching the store, then logs
// the exercise for the user named in the path.
func (h *ExercisesHandler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_exercise"
	userID := r.PathValue("id")

	f, err := readFields(w, r)
	if err != nil {
		rejectInvalid(w, "add_exercise", op, err)
		return
	}
	in, err := newExerciseRequest(f).parse()
	if err != nil {
		rejectInvalid(w, "add_exercise", op, err)
		return
	}

	ex, err := h.deps.AddExercise(r.Context(), userID, in)
	switch {
	case isNotFound(err):
		writeText(w, http.StatusNotFound, msgUserNotFound)
		return
	case err != nil:
		logger.Get().Error(r.Context(), "add exercise failed",
			logger.String("user_id", userID), logger.Error(Wrap(op, err)))
		writeText(w, http.StatusInternalServerError, msgAddExercise)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}
