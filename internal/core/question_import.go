package core

// question_import.go appends fill-in-the-blank questions to an existing
// course. Each data row is
//
//	text;answer1;answer2;answer3;answer4;correct answer number (1-4)
//
// Lines whose first cell starts with '#' are comments. A first line with a
// single non-blank cell is a title line and is skipped. Bad rows are
// rejected one by one; the import only fails when no row is accepted.

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/factoscope/internal/logging"
)

// QuestionColumns is the number of cells a question row must carry.
// Extra cells, typically from a trailing ';', are ignored.
const QuestionColumns = 6

// MaxOptionLength is the longest answer, in characters, the store accepts.
const MaxOptionLength = 255

// Row rejection reasons.
const (
	ReasonTooFewColumns  = "fewer than 6 columns"
	ReasonMissingFields  = "missing required fields"
	ReasonFieldTooLong   = "answer longer than 255 characters"
	ReasonNotNumeric     = "correct answer number is not an integer"
	ReasonOptionOutRange = "correct answer number outside 1..4"
)

// QuestionBatch is the outcome of validating every data row of a question
// CSV. Accepted and Rejections together cover DataRows.
type QuestionBatch struct {
	HeaderSkipped bool
	DataRows      int
	Accepted      []FillBlankQuestion
	Rejections    []Rejection
}

// BuildQuestionBatch validates rows for courseID. rows must already be free
// of blank and comment lines.
func BuildQuestionBatch(courseID int64, rows []Row) QuestionBatch {
	var b QuestionBatch

	if len(rows) > 0 && ClassifyQuestionHeader(rows[0]) == RowHeader {
		b.HeaderSkipped = true
		rows = rows[1:]
	}
	b.DataRows = len(rows)

	for _, r := range rows {
		q, reason := questionFromRow(r, courseID)
		if reason != "" {
			b.Rejections = append(b.Rejections, Rejection{Line: r.Line, Reason: reason, Cells: r.Cells})
			continue
		}
		b.Accepted = append(b.Accepted, q)
	}
	return b
}

// questionFromRow returns the question for r, or the reason it was rejected.
func questionFromRow(r Row, courseID int64) (FillBlankQuestion, string) {
	if len(r.Cells) < QuestionColumns {
		return FillBlankQuestion{}, ReasonTooFewColumns
	}

	cells := make([]string, QuestionColumns)
	for i := range cells {
		cells[i] = r.Cell(i)
		if cells[i] == "" {
			return FillBlankQuestion{}, ReasonMissingFields
		}
	}
	for _, opt := range cells[1:5] {
		if utf8.RuneCountInString(opt) > MaxOptionLength {
			return FillBlankQuestion{}, ReasonFieldTooLong
		}
	}

	correct, err := strconv.Atoi(cells[5])
	if err != nil {
		return FillBlankQuestion{}, ReasonNotNumeric
	}
	if !ValidOption(correct) {
		return FillBlankQuestion{}, ReasonOptionOutRange
	}

	return FillBlankQuestion{
		Text:          cells[0],
		Option1:       cells[1],
		Option2:       cells[2],
		Option3:       cells[3],
		Option4:       cells[4],
		CorrectOption: correct,
		CourseID:      courseID,
	}, ""
}

// ValidOption reports whether n is a 1-based answer index.
func ValidOption(n int) bool {
	return n >= 1 && n <= 4
}

func dropCommentRows(rows []Row) []Row {
	out := rows[:0:0]
	for _, r := range rows {
		if strings.HasPrefix(r.Cell(0), "#") {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ImportQuestions validates a question CSV and inserts the accepted rows for
// an existing course in one transaction.
func (s *Service) ImportQuestions(ctx context.Context, in QuestionImport) (*ImportReport, error) {
	ctx, done, err := s.beginImport(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	if _, err := s.gw.GetCourse(ctx, in.CourseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("course %d: %w", in.CourseID, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("look up course %d: %w", in.CourseID, err)
	}

	importID := s.newID()
	log := logging.WithFields(ctx, "import_id", importID, "course_id", in.CourseID, "file", in.FileName)

	rows, err := ParseRows(in.Data, in.Encoding)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", in.FileName, err)
	}
	rows = dropCommentRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	batch := BuildQuestionBatch(in.CourseID, rows)
	for _, rej := range batch.Rejections {
		log.Warn("question row rejected", "line", rej.Line, "reason", rej.Reason)
	}

	if len(batch.Accepted) == 0 {
		return nil, fmt.Errorf("%w: %d of %d rows rejected", ErrNoValidRows, len(batch.Rejections), batch.DataRows)
	}

	var inserted int64
	err = s.gw.InTx(ctx, func(repo Repository) error {
		n, err := repo.InsertQuestions(ctx, batch.Accepted)
		if err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		ImportID:      importID,
		CourseID:      in.CourseID,
		TotalRows:     len(rows),
		DataRows:      batch.DataRows,
		HeaderSkipped: batch.HeaderSkipped,
		Accepted:      len(batch.Accepted),
		Rejected:      len(batch.Rejections),
		Inserted:      inserted,
		Rejections:    batch.Rejections,
	}

	log.Info("questions imported",
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"header_skipped", report.HeaderSkipped,
	)

	s.finishImport(ctx, ImportRecord{
		ID:        importID,
		Kind:      ImportQuestions,
		FileName:  in.FileName,
		CourseID:  in.CourseID,
		TotalRows: report.TotalRows,
		Accepted:  report.Accepted,
		Rejected:  report.Rejected,
	}, in.Data)

	return report, nil
}
