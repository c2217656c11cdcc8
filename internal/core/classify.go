package core

import "fmt"

// RowKind tags the first row of an upload as metadata or content.
type RowKind int

const (
	RowData RowKind = iota
	RowHeader
)

func (k RowKind) String() string {
	switch k {
	case RowHeader:
		return "header"
	case RowData:
		return "data"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// CourseMeta is the title;description;theme triple carried by a course
// CSV header or by the upload form.
type CourseMeta struct {
	Title       string `validate:"max=255"`
	Description string
	Theme       string `validate:"max=255"`
}

// Classification is the verdict on a row. Meta is only set for course
// headers.
type Classification struct {
	Kind RowKind
	Meta CourseMeta
}

// ClassifyCourseHeader treats row as a metadata header when its first three
// cells are all non-blank.
func ClassifyCourseHeader(row Row) Classification {
	title, desc, theme := row.Cell(0), row.Cell(1), row.Cell(2)
	if title == "" || desc == "" || theme == "" {
		return Classification{Kind: RowData}
	}
	return Classification{
		Kind: RowHeader,
		Meta: CourseMeta{Title: title, Description: desc, Theme: theme},
	}
}

// SplitCourseRows separates the metadata header from the page rows. In form
// mode the caller supplies the metadata and every row is a page. Otherwise
// the first row must be a header or ErrInvalidFormat is returned.
func SplitCourseRows(rows []Row, formMode bool) (CourseMeta, []Row, error) {
	if formMode || len(rows) == 0 {
		return CourseMeta{}, rows, nil
	}

	c := ClassifyCourseHeader(rows[0])
	if c.Kind != RowHeader {
		return CourseMeta{}, nil, fmt.Errorf("%w: line %d must be title;description;theme", ErrInvalidFormat, rows[0].Line)
	}
	return c.Meta, rows[1:], nil
}

// ClassifyQuestionHeader treats row as a title line when exactly one cell is
// non-blank, e.g. "Course_title;".
func ClassifyQuestionHeader(row Row) RowKind {
	if row.NonEmptyCount() == 1 {
		return RowHeader
	}
	return RowData
}
