package web

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/JonMunkholm/factoscope/internal/core"
)

// fakeGateway is a map-backed core.Gateway. InTx runs fn directly; rollback
// behaviour is covered by the core and store tests.
type fakeGateway struct {
	mu        sync.Mutex
	nextID    int64
	modules   map[int64]core.Module
	courses   map[int64]core.Course
	pages     []core.Page
	questions map[int64]core.FillBlankQuestion
	imports   []core.ImportRecord
	pingErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		modules:   map[int64]core.Module{},
		courses:   map[int64]core.Course{},
		questions: map[int64]core.FillBlankQuestion{},
	}
}

func (g *fakeGateway) id() int64 {
	g.nextID++
	return g.nextID
}

func (g *fakeGateway) Ping(context.Context) error { return g.pingErr }

func (g *fakeGateway) InTx(ctx context.Context, fn func(core.Repository) error) error {
	return fn(g)
}

func (g *fakeGateway) FindModuleByTitle(_ context.Context, title string) (*core.Module, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.modules {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, core.ErrNotFound
}

func (g *fakeGateway) CreateModule(_ context.Context, m *core.Module) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m.ID = g.id()
	g.modules[m.ID] = *m
	return nil
}

func (g *fakeGateway) GetCourse(_ context.Context, id int64) (*core.Course, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.courses[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

func (g *fakeGateway) CreateCourse(_ context.Context, c *core.Course) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	c.ID = g.id()
	g.courses[c.ID] = *c
	return nil
}

func (g *fakeGateway) CreatePage(_ context.Context, p *core.Page) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p.ID = g.id()
	g.pages = append(g.pages, *p)
	return nil
}

func (g *fakeGateway) InsertQuestions(_ context.Context, qs []core.FillBlankQuestion) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, q := range qs {
		if _, ok := g.courses[q.CourseID]; !ok {
			return 0, core.ErrCourseNotFound
		}
		q.ID = g.id()
		g.questions[q.ID] = q
	}
	return int64(len(qs)), nil
}

func (g *fakeGateway) ListQuestions(_ context.Context, courseID int64) ([]core.FillBlankQuestion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []core.FillBlankQuestion
	for _, q := range g.questions {
		if q.CourseID == courseID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *fakeGateway) GetQuestion(_ context.Context, id int64) (*core.FillBlankQuestion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	q, ok := g.questions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &q, nil
}

func (g *fakeGateway) UpdateQuestion(_ context.Context, q *core.FillBlankQuestion) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.questions[q.ID]; !ok {
		return core.ErrNotFound
	}
	g.questions[q.ID] = *q
	return nil
}

func (g *fakeGateway) DeleteQuestion(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.questions[id]; !ok {
		return core.ErrNotFound
	}
	delete(g.questions, id)
	return nil
}

func (g *fakeGateway) RecordImport(_ context.Context, rec *core.ImportRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rec.ID == "" {
		return errors.New("missing import id")
	}
	g.imports = append([]core.ImportRecord{*rec}, g.imports...)
	return nil
}

func (g *fakeGateway) ListImports(_ context.Context, limit int) ([]core.ImportRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if limit > len(g.imports) {
		limit = len(g.imports)
	}
	return append([]core.ImportRecord(nil), g.imports[:limit]...), nil
}

func (g *fakeGateway) seedCourse(title string) int64 {
	c := &core.Course{Title: title, Content: title}
	g.CreateCourse(context.Background(), c)
	return c.ID
}

func (g *fakeGateway) seedQuestion(courseID int64, text string, correct int) int64 {
	g.InsertQuestions(context.Background(), []core.FillBlankQuestion{{
		Text: text, Option1: "a", Option2: "b", Option3: "c", Option4: "d",
		CorrectOption: correct, CourseID: courseID,
	}})
	return g.nextID
}
