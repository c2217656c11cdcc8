package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// memState is the content of the in-memory database.
type memState struct {
	modules   []Module
	courses   []Course
	pages     []Page
	questions []FillBlankQuestion
	imports   []ImportRecord
}

func (s memState) clone() memState {
	return memState{
		modules:   append([]Module(nil), s.modules...),
		courses:   append([]Course(nil), s.courses...),
		pages:     append([]Page(nil), s.pages...),
		questions: append([]FillBlankQuestion(nil), s.questions...),
		imports:   append([]ImportRecord(nil), s.imports...),
	}
}

// memGateway is a transactional Gateway for tests. A transaction works on a
// snapshot and journals its writes; commit replays the journal onto the
// shared state so concurrent transactions do not clobber each other.
type memGateway struct {
	mu     sync.Mutex
	state  memState
	nextID atomic.Int64

	// failOn makes the named operation return the error once.
	failOn map[string]error

	// beforeCreateModule runs inside CreateModule before the write.
	beforeCreateModule func()

	commits   atomic.Int64
	rollbacks atomic.Int64
}

func newMemGateway() *memGateway {
	return &memGateway{failOn: make(map[string]error)}
}

func (g *memGateway) injected(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.failOn[op]; ok {
		delete(g.failOn, op)
		return err
	}
	return nil
}

func (g *memGateway) snapshot() memState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.clone()
}

// autocommit runs a single repository call directly against shared state.
func (g *memGateway) autocommit(fn func(*memRepo) error) error {
	g.mu.Lock()
	repo := &memRepo{gw: g, view: g.state.clone()}
	g.mu.Unlock()

	if err := fn(repo); err != nil {
		return err
	}
	g.apply(repo.journal)
	return nil
}

func (g *memGateway) apply(journal []func(*memState)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, op := range journal {
		op(&g.state)
	}
}

func (g *memGateway) InTx(ctx context.Context, fn func(Repository) error) (err error) {
	repo := &memRepo{gw: g, view: g.snapshot()}

	defer func() {
		if p := recover(); p != nil {
			g.rollbacks.Add(1)
			panic(p)
		}
	}()

	if err := fn(repo); err != nil {
		g.rollbacks.Add(1)
		return err
	}
	if err := ctx.Err(); err != nil {
		g.rollbacks.Add(1)
		return err
	}

	g.apply(repo.journal)
	g.commits.Add(1)
	return nil
}

func (g *memGateway) FindModuleByTitle(ctx context.Context, title string) (m *Module, err error) {
	err = g.autocommit(func(r *memRepo) error { m, err = r.FindModuleByTitle(ctx, title); return err })
	return m, err
}

func (g *memGateway) CreateModule(ctx context.Context, m *Module) error {
	return g.autocommit(func(r *memRepo) error { return r.CreateModule(ctx, m) })
}

func (g *memGateway) GetCourse(ctx context.Context, id int64) (c *Course, err error) {
	err = g.autocommit(func(r *memRepo) error { c, err = r.GetCourse(ctx, id); return err })
	return c, err
}

func (g *memGateway) CreateCourse(ctx context.Context, c *Course) error {
	return g.autocommit(func(r *memRepo) error { return r.CreateCourse(ctx, c) })
}

func (g *memGateway) CreatePage(ctx context.Context, p *Page) error {
	return g.autocommit(func(r *memRepo) error { return r.CreatePage(ctx, p) })
}

func (g *memGateway) InsertQuestions(ctx context.Context, qs []FillBlankQuestion) (n int64, err error) {
	err = g.autocommit(func(r *memRepo) error { n, err = r.InsertQuestions(ctx, qs); return err })
	return n, err
}

func (g *memGateway) ListQuestions(ctx context.Context, courseID int64) (qs []FillBlankQuestion, err error) {
	err = g.autocommit(func(r *memRepo) error { qs, err = r.ListQuestions(ctx, courseID); return err })
	return qs, err
}

func (g *memGateway) GetQuestion(ctx context.Context, id int64) (q *FillBlankQuestion, err error) {
	err = g.autocommit(func(r *memRepo) error { q, err = r.GetQuestion(ctx, id); return err })
	return q, err
}

func (g *memGateway) UpdateQuestion(ctx context.Context, q *FillBlankQuestion) error {
	return g.autocommit(func(r *memRepo) error { return r.UpdateQuestion(ctx, q) })
}

func (g *memGateway) DeleteQuestion(ctx context.Context, id int64) error {
	return g.autocommit(func(r *memRepo) error { return r.DeleteQuestion(ctx, id) })
}

func (g *memGateway) RecordImport(ctx context.Context, rec *ImportRecord) error {
	return g.autocommit(func(r *memRepo) error { return r.RecordImport(ctx, rec) })
}

func (g *memGateway) ListImports(ctx context.Context, limit int) (recs []ImportRecord, err error) {
	err = g.autocommit(func(r *memRepo) error { recs, err = r.ListImports(ctx, limit); return err })
	return recs, err
}

// memRepo reads from its snapshot and journals writes for commit.
type memRepo struct {
	gw      *memGateway
	view    memState
	journal []func(*memState)
}

func (r *memRepo) write(op func(*memState)) {
	op(&r.view)
	r.journal = append(r.journal, op)
}

func (r *memRepo) id() int64 {
	return r.gw.nextID.Add(1)
}

func (r *memRepo) FindModuleByTitle(_ context.Context, title string) (*Module, error) {
	if err := r.gw.injected("FindModuleByTitle"); err != nil {
		return nil, err
	}
	for _, m := range r.view.modules {
		if m.Title == title {
			m := m
			return &m, nil
		}
	}
	return nil, fmt.Errorf("module %q: %w", title, ErrNotFound)
}

func (r *memRepo) CreateModule(_ context.Context, m *Module) error {
	if hook := r.gw.beforeCreateModule; hook != nil {
		hook()
	}
	if err := r.gw.injected("CreateModule"); err != nil {
		return err
	}
	m.ID = r.id()
	rec := *m
	r.write(func(s *memState) { s.modules = append(s.modules, rec) })
	return nil
}

func (r *memRepo) GetCourse(_ context.Context, id int64) (*Course, error) {
	if err := r.gw.injected("GetCourse"); err != nil {
		return nil, err
	}
	for _, c := range r.view.courses {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("course %d: %w", id, ErrNotFound)
}

func (r *memRepo) CreateCourse(_ context.Context, c *Course) error {
	if err := r.gw.injected("CreateCourse"); err != nil {
		return err
	}
	c.ID = r.id()
	rec := *c
	r.write(func(s *memState) { s.courses = append(s.courses, rec) })
	return nil
}

func (r *memRepo) CreatePage(_ context.Context, p *Page) error {
	if err := r.gw.injected("CreatePage"); err != nil {
		return err
	}
	if !r.courseExists(p.CourseID) {
		return fmt.Errorf("page references course %d: %w", p.CourseID, ErrCourseNotFound)
	}
	p.ID = r.id()
	rec := *p
	r.write(func(s *memState) { s.pages = append(s.pages, rec) })
	return nil
}

func (r *memRepo) courseExists(id int64) bool {
	for _, c := range r.view.courses {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (r *memRepo) InsertQuestions(_ context.Context, qs []FillBlankQuestion) (int64, error) {
	if err := r.gw.injected("InsertQuestions"); err != nil {
		return 0, err
	}
	recs := make([]FillBlankQuestion, len(qs))
	for i, q := range qs {
		if !r.courseExists(q.CourseID) {
			return 0, fmt.Errorf("question references course %d: %w", q.CourseID, ErrCourseNotFound)
		}
		q.ID = r.id()
		recs[i] = q
	}
	r.write(func(s *memState) { s.questions = append(s.questions, recs...) })
	return int64(len(recs)), nil
}

func (r *memRepo) ListQuestions(_ context.Context, courseID int64) ([]FillBlankQuestion, error) {
	var out []FillBlankQuestion
	for _, q := range r.view.questions {
		if q.CourseID == courseID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *memRepo) GetQuestion(_ context.Context, id int64) (*FillBlankQuestion, error) {
	for _, q := range r.view.questions {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
}

func (r *memRepo) UpdateQuestion(_ context.Context, q *FillBlankQuestion) error {
	if err := r.gw.injected("UpdateQuestion"); err != nil {
		return err
	}
	if _, err := r.GetQuestion(context.Background(), q.ID); err != nil {
		return err
	}
	rec := *q
	r.write(func(s *memState) {
		for i := range s.questions {
			if s.questions[i].ID == rec.ID {
				s.questions[i] = rec
			}
		}
	})
	return nil
}

func (r *memRepo) DeleteQuestion(_ context.Context, id int64) error {
	if _, err := r.GetQuestion(context.Background(), id); err != nil {
		return err
	}
	r.write(func(s *memState) {
		out := s.questions[:0:0]
		for _, q := range s.questions {
			if q.ID != id {
				out = append(out, q)
			}
		}
		s.questions = out
	})
	return nil
}

func (r *memRepo) RecordImport(_ context.Context, rec *ImportRecord) error {
	if err := r.gw.injected("RecordImport"); err != nil {
		return err
	}
	cp := *rec
	r.write(func(s *memState) { s.imports = append(s.imports, cp) })
	return nil
}

func (r *memRepo) ListImports(_ context.Context, limit int) ([]ImportRecord, error) {
	out := append([]ImportRecord(nil), r.view.imports...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeArchiver records stored files.
type fakeArchiver struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (a *fakeArchiver) Store(_ context.Context, kind ImportKind, importID, fileName string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.files == nil {
		a.files = make(map[string][]byte)
	}
	key := fmt.Sprintf("%s/%s-%s", kind, importID, fileName)
	a.files[key] = data
	return key, nil
}
