// Package core provides the business logic for course content imports.
//
// It holds the domain rules independent of any transport or database. The
// web handlers, the tests and any future CLI all go through [Service].
//
// # Pipeline
//
// Both importers follow the same steps:
//
//   - Parse: [ParseRows] decodes UTF-8 (a BOM is tolerated) and splits
//     ';'-delimited records, dropping blank rows.
//   - Classify: [SplitCourseRows] and [ClassifyQuestionHeader] decide which
//     rows are headers and which are data.
//   - Validate: course pages need a description or media; question rows are
//     checked one by one into a [QuestionBatch].
//   - Persist: writes go through a [Gateway] transaction and either commit as
//     a whole or leave nothing behind.
//
// # Course import
//
// [Service.ImportCourse] creates one Course with one Page per data row. The
// course title, description and theme come from the CSV's first row or from
// the form overrides. A theme resolves to a Module by exact title, created in
// its own transaction when missing.
//
// # Question import
//
// [Service.ImportQuestions] appends fill-in-the-blank questions to an
// existing course. Invalid rows are reported, not fatal, unless none is
// accepted.
//
// # Errors
//
// Failures wrap the sentinels in errors.go. [MapError] turns any error into a
// [UserMessage] with a stable code:
//
//	res, err := svc.ImportCourse(ctx, in)
//	if err != nil {
//	    msg := core.MapError(err) // e.g. FILE003 for a non UTF-8 file
//	}
//
// # Concurrency
//
// Imports share an [ImportLimiter]. When every slot is busy past the wait
// time the import fails with [ErrTooManyImports].
package core
