package core

import "context"

// Repository is the persistence surface the importers need. Lookups that
// match nothing return an error wrapping ErrNotFound.
type Repository interface {
	FindModuleByTitle(ctx context.Context, title string) (*Module, error)
	CreateModule(ctx context.Context, m *Module) error

	GetCourse(ctx context.Context, id int64) (*Course, error)
	CreateCourse(ctx context.Context, c *Course) error

	CreatePage(ctx context.Context, p *Page) error

	// InsertQuestions bulk-inserts questions and returns the number written.
	// A missing course surfaces as ErrCourseNotFound.
	InsertQuestions(ctx context.Context, qs []FillBlankQuestion) (int64, error)
	ListQuestions(ctx context.Context, courseID int64) ([]FillBlankQuestion, error)
	GetQuestion(ctx context.Context, id int64) (*FillBlankQuestion, error)
	UpdateQuestion(ctx context.Context, q *FillBlankQuestion) error
	DeleteQuestion(ctx context.Context, id int64) error

	RecordImport(ctx context.Context, rec *ImportRecord) error
	ListImports(ctx context.Context, limit int) ([]ImportRecord, error)
}

// Gateway is a Repository that can also open a transaction. Calls made
// directly on the Gateway autocommit.
type Gateway interface {
	Repository

	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back on error or panic.
	InTx(ctx context.Context, fn func(Repository) error) error
}
