package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/factoscope/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ----------------------------------------------------------------------------
// Modules
// ----------------------------------------------------------------------------

const findModuleByTitle = `-- name: FindModuleByTitle :one
SELECT id, titre, description FROM module
WHERE titre = $1
ORDER BY id
LIMIT 1`

// FindModuleByTitle returns the oldest module with exactly this title.
func (q *Queries) FindModuleByTitle(ctx context.Context, title string) (*core.Module, error) {
	var m core.Module
	err := q.db.QueryRow(ctx, findModuleByTitle, title).Scan(&m.ID, &m.Title, &m.Description)
	if err != nil {
		return nil, mapErr(fmt.Sprintf("module %q", title), err)
	}
	return &m, nil
}

const createModule = `-- name: CreateModule :one
INSERT INTO module (titre, description)
VALUES ($1, $2)
RETURNING id`

func (q *Queries) CreateModule(ctx context.Context, m *core.Module) error {
	err := q.db.QueryRow(ctx, createModule, m.Title, m.Description).Scan(&m.ID)
	return mapErr("create module", err)
}

// ----------------------------------------------------------------------------
// Courses and pages
// ----------------------------------------------------------------------------

const getCourse = `-- name: GetCourse :one
SELECT id, titre, description, contenu, id_module FROM cours
WHERE id = $1`

func (q *Queries) GetCourse(ctx context.Context, id int64) (*core.Course, error) {
	var (
		c        core.Course
		moduleID pgtype.Int8
	)
	err := q.db.QueryRow(ctx, getCourse, id).Scan(&c.ID, &c.Title, &c.Description, &c.Content, &moduleID)
	if err != nil {
		return nil, mapErr(fmt.Sprintf("course %d", id), err)
	}
	c.ModuleID = int8Ptr(moduleID)
	return &c, nil
}

const createCourse = `-- name: CreateCourse :one
INSERT INTO cours (titre, description, contenu, id_module)
VALUES ($1, $2, $3, $4)
RETURNING id`

func (q *Queries) CreateCourse(ctx context.Context, c *core.Course) error {
	err := q.db.QueryRow(ctx, createCourse,
		c.Title, c.Description, c.Content, pgInt8(c.ModuleID),
	).Scan(&c.ID)
	return mapErr("create course", err)
}

const createPage = `-- name: CreatePage :one
INSERT INTO page (description, medias, est_vue, id_cours)
VALUES ($1, $2, $3, $4)
RETURNING id`

func (q *Queries) CreatePage(ctx context.Context, p *core.Page) error {
	err := q.db.QueryRow(ctx, createPage, p.Description, p.Media, p.Viewed, p.CourseID).Scan(&p.ID)
	return mapErr("create page", err)
}

// ----------------------------------------------------------------------------
// Fill-in-the-blank questions
// ----------------------------------------------------------------------------

var questionColumns = []string{
	"texte", "reponse1", "reponse2", "reponse3", "reponse4",
	"numero_reponse_correcte", "explication", "id_cours",
}

// InsertQuestions loads qs with COPY. Postgres checks the course foreign
// key per row, so a missing course fails the whole copy.
func (q *Queries) InsertQuestions(ctx context.Context, qs []core.FillBlankQuestion) (int64, error) {
	n, err := q.db.CopyFrom(ctx,
		pgx.Identifier{"text_a_true"},
		questionColumns,
		pgx.CopyFromSlice(len(qs), func(i int) ([]any, error) {
			r := qs[i]
			return []any{
				r.Text, r.Option1, r.Option2, r.Option3, r.Option4,
				int32(r.CorrectOption), pgText(r.Explanation), r.CourseID,
			}, nil
		}),
	)
	if err != nil {
		return 0, mapErr("copy questions", err)
	}
	return n, nil
}

const listQuestions = `-- name: ListQuestions :many
SELECT id, texte, reponse1, reponse2, reponse3, reponse4,
       numero_reponse_correcte, explication, id_cours
FROM text_a_true
WHERE id_cours = $1
ORDER BY id`

func (q *Queries) ListQuestions(ctx context.Context, courseID int64) ([]core.FillBlankQuestion, error) {
	rows, err := q.db.Query(ctx, listQuestions, courseID)
	if err != nil {
		return nil, mapErr("list questions", err)
	}
	defer rows.Close()

	var out []core.FillBlankQuestion
	for rows.Next() {
		fq, err := scanQuestion(rows)
		if err != nil {
			return nil, mapErr("scan question", err)
		}
		out = append(out, *fq)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list questions", err)
	}
	return out, nil
}

const getQuestion = `-- name: GetQuestion :one
SELECT id, texte, reponse1, reponse2, reponse3, reponse4,
       numero_reponse_correcte, explication, id_cours
FROM text_a_true
WHERE id = $1`

func (q *Queries) GetQuestion(ctx context.Context, id int64) (*core.FillBlankQuestion, error) {
	fq, err := scanQuestion(q.db.QueryRow(ctx, getQuestion, id))
	if err != nil {
		return nil, mapErr(fmt.Sprintf("question %d", id), err)
	}
	return fq, nil
}

const updateQuestion = `-- name: UpdateQuestion :exec
UPDATE text_a_true
SET texte = $2, reponse1 = $3, reponse2 = $4, reponse3 = $5, reponse4 = $6,
    numero_reponse_correcte = $7, explication = $8
WHERE id = $1`

func (q *Queries) UpdateQuestion(ctx context.Context, fq *core.FillBlankQuestion) error {
	tag, err := q.db.Exec(ctx, updateQuestion,
		fq.ID, fq.Text, fq.Option1, fq.Option2, fq.Option3, fq.Option4,
		int32(fq.CorrectOption), pgText(fq.Explanation),
	)
	if err != nil {
		return mapErr(fmt.Sprintf("update question %d", fq.ID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d: %w", fq.ID, core.ErrNotFound)
	}
	return nil
}

const deleteQuestion = `-- name: DeleteQuestion :exec
DELETE FROM text_a_true WHERE id = $1`

func (q *Queries) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteQuestion, id)
	if err != nil {
		return mapErr(fmt.Sprintf("delete question %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanQuestion(row pgx.Row) (*core.FillBlankQuestion, error) {
	var (
		fq      core.FillBlankQuestion
		correct int32
		expl    pgtype.Text
	)
	err := row.Scan(
		&fq.ID, &fq.Text, &fq.Option1, &fq.Option2, &fq.Option3, &fq.Option4,
		&correct, &expl, &fq.CourseID,
	)
	if err != nil {
		return nil, err
	}
	fq.CorrectOption = int(correct)
	fq.Explanation = textPtr(expl)
	return &fq, nil
}

// ----------------------------------------------------------------------------
// Import history
// ----------------------------------------------------------------------------

const recordImport = `-- name: RecordImport :exec
INSERT INTO import_log (id, kind, file_name, id_cours, total_rows, accepted, rejected, archive_key, client_ip, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))`

func (q *Queries) RecordImport(ctx context.Context, rec *core.ImportRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("import id %q: %w", rec.ID, err)
	}

	var courseID pgtype.Int8
	if rec.CourseID != 0 {
		courseID = pgtype.Int8{Int64: rec.CourseID, Valid: true}
	}

	_, err = q.db.Exec(ctx, recordImport,
		pgtype.UUID{Bytes: id, Valid: true},
		string(rec.Kind),
		rec.FileName,
		courseID,
		int32(rec.TotalRows),
		int32(rec.Accepted),
		int32(rec.Rejected),
		rec.ArchiveKey,
		rec.ClientIP,
		pgtype.Timestamptz{Time: rec.CreatedAt, Valid: !rec.CreatedAt.IsZero()},
	)
	return mapErr("record import", err)
}

const listImports = `-- name: ListImports :many
SELECT id, kind, file_name, id_cours, total_rows, accepted, rejected, archive_key, client_ip, created_at
FROM import_log
ORDER BY created_at DESC
LIMIT $1`

func (q *Queries) ListImports(ctx context.Context, limit int) ([]core.ImportRecord, error) {
	rows, err := q.db.Query(ctx, listImports, int32(limit))
	if err != nil {
		return nil, mapErr("list imports", err)
	}
	defer rows.Close()

	var out []core.ImportRecord
	for rows.Next() {
		var (
			rec       core.ImportRecord
			id        pgtype.UUID
			kind      string
			courseID  pgtype.Int8
			createdAt pgtype.Timestamptz

			total, accepted, rejected int32
		)
		if err := rows.Scan(&id, &kind, &rec.FileName, &courseID, &total, &accepted, &rejected,
			&rec.ArchiveKey, &rec.ClientIP, &createdAt); err != nil {
			return nil, mapErr("scan import", err)
		}
		rec.ID = uuid.UUID(id.Bytes).String()
		rec.Kind = core.ImportKind(kind)
		rec.CourseID = courseID.Int64
		rec.TotalRows, rec.Accepted, rec.Rejected = int(total), int(accepted), int(rejected)
		rec.CreatedAt = createdAt.Time
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list imports", err)
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// pgtype conversions
// ----------------------------------------------------------------------------

func pgInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func pgText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
