package core

// course_import.go builds one Course and its Pages from a course CSV.
//
// Layout, header mode (no form overrides):
//
//	Photosynthèse;Les bases de la photosynthèse;Biologie
//	Introduction;intro.png@schema.png
//	La chlorophylle;
//
// In form mode the title, description and theme come from the request and
// every row is a page. Each page row is description;media where media is
// the raw '@'-joined list of URLs.
//
// The theme's Module is resolved in its own committed transaction before
// the Course is written. Two imports racing on a new theme can therefore
// both create a Module with the same title.

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/factoscope/internal/logging"
)

// ImportCourse parses a course CSV and persists the Course, its optional
// Module and one Page per non-blank data row. A course with zero pages is
// valid. Structural problems abort before anything is written.
func (s *Service) ImportCourse(ctx context.Context, in CourseImport) (*CourseResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx, done, err := s.beginImport(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	importID := s.newID()
	log := logging.WithFields(ctx, "import_id", importID, "file", in.FileName)

	rows, err := ParseRows(in.Data, in.Encoding)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", in.FileName, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	override := CourseMeta{
		Title:       CleanCell(in.Title),
		Description: CleanCell(in.Description),
		Theme:       CleanCell(in.Theme),
	}
	formMode := override != (CourseMeta{})

	meta, dataRows, err := SplitCourseRows(rows, formMode)
	if err != nil {
		return nil, err
	}

	eff := CourseMeta{
		Title:       firstNonEmpty(override.Title, meta.Title),
		Description: firstNonEmpty(override.Description, meta.Description),
		Theme:       firstNonEmpty(override.Theme, meta.Theme),
	}
	if eff.Title == "" {
		return nil, ErrMissingTitle
	}
	if err := s.validate.Struct(eff); err != nil {
		return nil, fmt.Errorf("%w: course header: %v", ErrInvalidInput, err)
	}

	result := &CourseResult{ImportID: importID}

	if eff.Theme != "" {
		mod, created, err := s.resolveModule(ctx, eff.Theme)
		if err != nil {
			return nil, fmt.Errorf("resolve module %q: %w", eff.Theme, err)
		}
		result.Module = mod
		result.ModuleCreated = created
		if created {
			log.Info("module created", "module_id", mod.ID, "title", mod.Title)
		}
	}

	course := Course{
		Title:       eff.Title,
		Description: eff.Description,
		Content:     eff.Title,
	}
	if result.Module != nil {
		id := result.Module.ID
		course.ModuleID = &id
	}

	var pages []Page
	err = s.gw.InTx(ctx, func(repo Repository) error {
		if err := repo.CreateCourse(ctx, &course); err != nil {
			return fmt.Errorf("create course: %w", err)
		}

		pages = make([]Page, 0, len(dataRows))
		for _, r := range dataRows {
			p, ok := pageFromRow(r, course.ID)
			if !ok {
				continue
			}
			if err := repo.CreatePage(ctx, &p); err != nil {
				return fmt.Errorf("create page from line %d: %w", r.Line, err)
			}
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Course = course
	result.Pages = pages

	log.Info("course imported",
		"course_id", course.ID,
		"pages", len(pages),
		"form_mode", formMode,
	)

	s.finishImport(ctx, ImportRecord{
		ID:        importID,
		Kind:      ImportCourse,
		FileName:  in.FileName,
		CourseID:  course.ID,
		TotalRows: len(rows),
		Accepted:  len(pages),
		Rejected:  len(dataRows) - len(pages),
	}, in.Data)

	return result, nil
}

// resolveModule finds the Module titled title or creates it, committing
// before returning so the Course transaction can reference it.
func (s *Service) resolveModule(ctx context.Context, title string) (*Module, bool, error) {
	var (
		mod     *Module
		created bool
	)

	err := s.gw.InTx(ctx, func(repo Repository) error {
		found, err := repo.FindModuleByTitle(ctx, title)
		if err == nil {
			mod = found
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		mod = &Module{Title: title}
		created = true
		return repo.CreateModule(ctx, mod)
	})
	if err != nil {
		return nil, false, err
	}
	return mod, created, nil
}

// pageFromRow maps description;media to a Page. Rows where both cells are
// blank produce no page.
func pageFromRow(r Row, courseID int64) (Page, bool) {
	desc, media := r.Cell(0), r.Cell(1)
	if desc == "" && media == "" {
		return Page{}, false
	}
	return Page{
		Description: desc,
		Media:       media,
		Viewed:      0,
		CourseID:    courseID,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
