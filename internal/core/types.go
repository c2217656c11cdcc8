// Package core provides the business logic for course content imports.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Module is a thematic grouping of courses. Titles are unique by convention
// only: the course importer deduplicates on exact title match.
type Module struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Course is the top-level content unit. Content mirrors Title on import.
type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ModuleID    *int64 `json:"module_id"`
}

// Page is one unit of course content. Media holds the raw '@'-joined URLs
// exactly as authored. Pages have no sequence column; their ids follow
// source row order.
type Page struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Media       string `json:"media"`
	Viewed      int    `json:"viewed"`
	CourseID    int64  `json:"course_id"`
}

// FillBlankQuestion is a question with four options and the 1-based index of
// the correct one. JSON keys follow the public question API.
type FillBlankQuestion struct {
	ID            int64   `json:"id"`
	Text          string  `json:"texte"`
	Option1       string  `json:"reponse1"`
	Option2       string  `json:"reponse2"`
	Option3       string  `json:"reponse3"`
	Option4       string  `json:"reponse4"`
	CorrectOption int     `json:"numero_reponse_correcte"`
	Explanation   *string `json:"explication"`
	CourseID      int64   `json:"id_cours"`
}

// QuestionPatch carries the fields of a partial question update.
// Nil fields are left untouched. ClearExplanation sets the explanation to
// NULL; decoding sets it for an explicit "explication": null.
type QuestionPatch struct {
	Text          *string `json:"texte" validate:"omitempty,max=1000"`
	Option1       *string `json:"reponse1" validate:"omitempty,max=255"`
	Option2       *string `json:"reponse2" validate:"omitempty,max=255"`
	Option3       *string `json:"reponse3" validate:"omitempty,max=255"`
	Option4       *string `json:"reponse4" validate:"omitempty,max=255"`
	CorrectOption *int    `json:"numero_reponse_correcte"`
	Explanation   *string `json:"explication" validate:"omitempty,max=2000"`

	ClearExplanation bool `json:"-"`
}

// UnmarshalJSON decodes a patch body, rejecting unknown keys.
func (p *QuestionPatch) UnmarshalJSON(data []byte) error {
	type plain QuestionPatch
	var v plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	for k, raw := range keys {
		if strings.EqualFold(k, "explication") && string(bytes.TrimSpace(raw)) == "null" {
			v.ClearExplanation = true
		}
	}

	*p = QuestionPatch(v)
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p QuestionPatch) IsEmpty() bool {
	return p.Text == nil && p.Option1 == nil && p.Option2 == nil && p.Option3 == nil &&
		p.Option4 == nil && p.CorrectOption == nil && p.Explanation == nil && !p.ClearExplanation
}

// ImportKind identifies which importer produced an ImportRecord.
type ImportKind string

const (
	ImportCourse    ImportKind = "course"
	ImportQuestions ImportKind = "questions"
)

// ImportRecord is one entry of the import history.
type ImportRecord struct {
	ID         string     `json:"id"`
	Kind       ImportKind `json:"kind"`
	FileName   string     `json:"file_name"`
	CourseID   int64      `json:"course_id"`
	TotalRows  int        `json:"total_rows"`
	Accepted   int        `json:"accepted"`
	Rejected   int        `json:"rejected"`
	ArchiveKey string     `json:"archive_key,omitempty"`
	ClientIP   string     `json:"client_ip,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CourseImport is the input of Service.ImportCourse. Title, Description and
// Theme are the optional form overrides; any non-blank one switches the
// import to form mode.
type CourseImport struct {
	FileName    string
	Data        []byte
	Encoding    string
	Title       string `validate:"max=255"`
	Description string `validate:"max=5000"`
	Theme       string `validate:"max=255"`
}

// CourseResult is the outcome of a successful course import.
type CourseResult struct {
	ImportID      string  `json:"import_id"`
	Course        Course  `json:"course"`
	Module        *Module `json:"module,omitempty"`
	ModuleCreated bool    `json:"module_created"`
	Pages         []Page  `json:"pages"`
}

// QuestionImport is the input of Service.ImportQuestions.
type QuestionImport struct {
	CourseID int64
	FileName string
	Data     []byte
	Encoding string
}

// Rejection describes a question row that failed validation.
type Rejection struct {
	Line   int      `json:"line"`
	Reason string   `json:"reason"`
	Cells  []string `json:"cells"`
}

// ImportReport summarises a question import. Accepted+Rejected equals
// DataRows, and DataRows plus the skipped header equals TotalRows.
type ImportReport struct {
	ImportID      string      `json:"import_id"`
	CourseID      int64       `json:"course_id"`
	TotalRows     int         `json:"total_rows"`
	DataRows      int         `json:"data_rows"`
	HeaderSkipped bool        `json:"header_skipped"`
	Accepted      int         `json:"accepted"`
	Rejected      int         `json:"rejected"`
	Inserted      int64       `json:"inserted"`
	Rejections    []Rejection `json:"rejections,omitempty"`
}
