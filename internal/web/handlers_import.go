package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/factoscope/internal/core"
	"github.com/JonMunkholm/factoscope/internal/web/views"
)

// courseResponse is the body returned after a course import.
type courseResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	ModuleID    *int64      `json:"module_id"`
	Pages       []core.Page `json:"pages"`
}

// questionUploadResponse is the body returned after a question import.
type questionUploadResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Details questionUploadDetails `json:"details"`
}

type questionUploadDetails struct {
	TotalRows      int   `json:"total_rows"`
	DataRows       int   `json:"data_rows"`
	ValidRows      int   `json:"valid_rows"`
	QuestionsAdded int64 `json:"questions_added"`
	InvalidRows    int   `json:"invalid_rows"`
}

// handleImportCourse creates a course, its module and its pages from a CSV.
// The optional title, description and theme form fields override row 1.
func (s *Server) handleImportCourse(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondUploadError(w, r, err)
		return
	}
	if !up.isCSVType() {
		s.respondError(w, r, fmt.Errorf("%w: %s", core.ErrUnsupportedFile, up.contentType))
		return
	}

	ctx := withRequestMetadata(r.Context(), r)
	res, err := s.service.ImportCourse(ctx, core.CourseImport{
		FileName:    up.name,
		Data:        up.data,
		Encoding:    up.charset,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Theme:       r.FormValue("theme"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		msg := fmt.Sprintf("Cours « %s » importé (%d pages)", res.Course.Title, len(res.Pages))
		views.SuccessAlert(msg).Render(ctx, w)
		return
	}

	pages := res.Pages
	if pages == nil {
		pages = []core.Page{}
	}
	writeJSONStatus(w, http.StatusCreated, courseResponse{
		ID:          res.Course.ID,
		Title:       res.Course.Title,
		Description: res.Course.Description,
		Content:     res.Course.Content,
		ModuleID:    res.Course.ModuleID,
		Pages:       pages,
	})
}

// handleUploadQuestions imports fill-in-the-blank questions for a course.
func (s *Server) handleUploadQuestions(w http.ResponseWriter, r *http.Request) {
	courseID, err := idParam(r, "courseID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondUploadError(w, r, err)
		return
	}
	if !up.hasCSVExtension() {
		s.respondError(w, r, fmt.Errorf("%w: %q is not a .csv file", core.ErrUnsupportedFile, up.name))
		return
	}

	ctx := withRequestMetadata(r.Context(), r)
	report, err := s.service.ImportQuestions(ctx, core.QuestionImport{
		CourseID: courseID,
		FileName: up.name,
		Data:     up.data,
		Encoding: up.charset,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	message := fmt.Sprintf("%d questions ont été ajoutées avec succès", report.Inserted)
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		views.SuccessAlert(message).Render(ctx, w)
		return
	}

	writeJSONStatus(w, http.StatusCreated, questionUploadResponse{
		Status:  "success",
		Message: message,
		Details: questionUploadDetails{
			TotalRows:      report.TotalRows,
			DataRows:       report.DataRows,
			ValidRows:      report.Accepted,
			QuestionsAdded: report.Inserted,
			InvalidRows:    report.Rejected,
		},
	})
}

// handleListImports returns the recent import history.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.ListImports(r.Context(), parseIntParam(r, "limit", 20))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, recs)
}
