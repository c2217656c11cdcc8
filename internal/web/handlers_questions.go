package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/factoscope/internal/core"
)

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	courseID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	qs, err := s.service.ListQuestions(r.Context(), courseID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, qs)
}

// handleUpdateQuestion applies a partial JSON update. Absent keys are left
// unchanged; unknown keys are rejected.
func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var patch core.QuestionPatch
	if err := dec.Decode(&patch); err != nil {
		s.respondUploadError(w, r, fmt.Errorf("%w: %w", core.ErrInvalidInput, err))
		return
	}

	q, err := s.service.UpdateQuestion(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, q)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.DeleteQuestion(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
