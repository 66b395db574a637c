package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/docrequest"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/workflowhistory"
	"github.com/harborcredit/loanscreen/modules/loans/domain/scoring"
	"github.com/harborcredit/loanscreen/pkg/composables"
	"github.com/harborcredit/loanscreen/pkg/eventbus"
	"github.com/harborcredit/loanscreen/pkg/types"
)

// fakeTx satisfies repo.Tx so services can run their transactional path
// without a live database. The outbox publisher goes through Exec, so the
// fake counts enqueued notification rows.
type fakeTx struct {
	mu            sync.Mutex
	executed      []string
	outboxEvents  []string
	failOnOutbox  bool
	outboxFailure error
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.executed = append(t.executed, sql)
	if strings.Contains(sql, "notification_outbox") {
		if t.failOnOutbox {
			return pgconn.CommandTag{}, t.outboxFailure
		}
		if len(args) > 0 {
			if eventType, ok := args[0].(string); ok {
				t.outboxEvents = append(t.outboxEvents, eventType)
			}
		}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (t *fakeTx) outboxEventTypes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.outboxEvents...)
}

func decimalFrom(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testContext(tx *fakeTx, actor officer.Actor) context.Context {
	ctx := composables.WithTx(context.Background(), tx)
	return composables.WithActor(ctx, actor)
}

type fakeApplicationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{items: map[uuid.UUID]application.Application{}}
}

func (r *fakeApplicationRepo) put(app application.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[app.ID()] = app
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.items[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return app, nil
}

func (r *fakeApplicationRepo) List(_ context.Context, params *application.FindParams) ([]application.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, app := range r.items {
		out = append(out, app)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) Create(_ context.Context, app application.Application) (application.Application, error) {
	created := hydrateCopy(app, uuid.New(), app.Version())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[created.ID()] = created
	return created, nil
}

func (r *fakeApplicationRepo) UpdateWithVersion(_ context.Context, app application.Application, expectedVersion int64) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[app.ID()]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	if stored.Version() != expectedVersion {
		return application.Application{}, application.ErrVersionConflict
	}
	updated := hydrateCopy(app, app.ID(), expectedVersion+1)
	r.items[app.ID()] = updated
	return updated, nil
}

// hydrateCopy rebuilds an aggregate with a new id or version, standing in for
// what the database RETURNING clause produces.
func hydrateCopy(app application.Application, id uuid.UUID, version int64) application.Application {
	createdAt := app.CreatedAt()
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return application.Hydrate(
		id,
		app.ApplicantID(),
		app.LoanOfficerID(),
		app.ComplianceOfficerID(),
		app.Status(),
		app.Priority(),
		app.RiskLevel(),
		app.RequestedAmount(),
		app.RequestedTenureMonths(),
		app.Score(),
		app.Decision(),
		app.ComplianceReason(),
		app.ComplianceSummary(),
		version,
		createdAt,
		time.Now(),
	)
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*workflowhistory.Entry
}

func (r *fakeHistoryRepo) Append(_ context.Context, entry *workflowhistory.Entry) (*workflowhistory.Entry, error) {
	stored := *entry
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &stored)
	return &stored, nil
}

func (r *fakeHistoryRepo) List(_ context.Context, params *workflowhistory.FindParams) ([]*workflowhistory.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*workflowhistory.Entry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ApplicationID == params.ApplicationID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) Count(_ context.Context, applicationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.ApplicationID == applicationID {
			n++
		}
	}
	return n, nil
}

func (r *fakeHistoryRepo) forApplication(id uuid.UUID) []*workflowhistory.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*workflowhistory.Entry
	for _, e := range r.entries {
		if e.ApplicationID == id {
			out = append(out, e)
		}
	}
	return out
}

type fakeOfficerRepo struct {
	mu         sync.Mutex
	candidates []officer.Candidate
	touched    []uuid.UUID
	listErr    error
}

func (r *fakeOfficerRepo) GetByID(_ context.Context, id uuid.UUID) (officer.Officer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.candidates {
		if c.Officer.ID() == id {
			return c.Officer, nil
		}
	}
	return officer.Officer{}, officer.ErrNotFound
}

func (r *fakeOfficerRepo) List(_ context.Context, _ *officer.FindParams) ([]officer.Officer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []officer.Officer
	for _, c := range r.candidates {
		out = append(out, c.Officer)
	}
	return out, nil
}

func (r *fakeOfficerRepo) Create(_ context.Context, o officer.Officer) (officer.Officer, error) {
	return o, nil
}

func (r *fakeOfficerRepo) EligibleCandidates(_ context.Context, roles []officer.Role) ([]officer.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	roleSet := map[officer.Role]struct{}{}
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}
	var out []officer.Candidate
	for _, c := range r.candidates {
		if _, ok := roleSet[c.Officer.Role()]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeOfficerRepo) TouchLastAssigned(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched = append(r.touched, id)
	return nil
}

type fakeDocRequestRepo struct {
	mu       sync.Mutex
	requests []*docrequest.Request
}

func (r *fakeDocRequestRepo) Create(_ context.Context, req *docrequest.Request) (*docrequest.Request, error) {
	stored := *req
	stored.ID = uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, &stored)
	return &stored, nil
}

func (r *fakeDocRequestRepo) GetPending(_ context.Context, applicationID uuid.UUID) (*docrequest.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ApplicationID == applicationID && req.Status == docrequest.StatusPending {
			return req, nil
		}
	}
	return nil, docrequest.ErrNoPendingRequest
}

func (r *fakeDocRequestRepo) ListByApplication(_ context.Context, applicationID uuid.UUID) ([]*docrequest.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*docrequest.Request
	for _, req := range r.requests {
		if req.ApplicationID == applicationID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeDocRequestRepo) UpdateStatus(_ context.Context, id uuid.UUID, status docrequest.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == id {
			req.Status = status
			return nil
		}
	}
	return docrequest.ErrNoPendingRequest
}

func (r *fakeDocRequestRepo) SupersedePending(_ context.Context, applicationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.requests {
		if req.ApplicationID == applicationID && req.Status == docrequest.StatusPending {
			req.Status = docrequest.StatusSuperseded
			n++
		}
	}
	return n, nil
}

type fakeOracle struct {
	score scoring.Score
	err   error
	calls int
}

func (o *fakeOracle) Calculate(context.Context, uuid.UUID) (scoring.Score, error) {
	o.calls++
	if o.err != nil {
		return scoring.Score{}, o.err
	}
	return o.score, nil
}

// testEnv bundles a fully wired service stack over fakes.
type testEnv struct {
	tx         *fakeTx
	apps       *fakeApplicationRepo
	history    *fakeHistoryRepo
	officers   *fakeOfficerRepo
	docreqs    *fakeDocRequestRepo
	oracle     *fakeOracle
	clock      *types.FrozenClock
	workflow   *WorkflowService
	compliance *ComplianceService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tx:       &fakeTx{},
		apps:     newFakeApplicationRepo(),
		history:  &fakeHistoryRepo{},
		officers: &fakeOfficerRepo{},
		docreqs:  &fakeDocRequestRepo{},
		oracle:   &fakeOracle{},
		clock:    &types.FrozenClock{Instant: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	assignments := NewAssignmentService(env.officers, 25, env.clock)
	env.workflow = NewWorkflowService(
		env.apps, env.history, assignments, env.oracle,
		eventbus.NewEventPublisher(log), env.clock,
	)
	env.compliance = NewComplianceService(env.workflow, env.docreqs, assignments, env.clock)
	return env
}

func (env *testEnv) ctx(actor officer.Actor) context.Context {
	return testContext(env.tx, actor)
}

func (env *testEnv) addOfficer(role officer.Role, activeCases int, lastAssignedAt *time.Time) officer.Officer {
	o := officer.Hydrate(uuid.New(), "officer-"+uuid.NewString()[:8], role, officer.StatusActive, lastAssignedAt, time.Now(), time.Now())
	env.officers.mu.Lock()
	defer env.officers.mu.Unlock()
	env.officers.candidates = append(env.officers.candidates, officer.Candidate{Officer: o, ActiveCases: activeCases})
	return o
}

// seedApplication stores an aggregate in the fake repo at the given status
// and returns it.
func (env *testEnv) seedApplication(status application.Status, version int64, mutators ...func(application.Application) application.Application) application.Application {
	app := application.Hydrate(
		uuid.New(), uuid.New(), nil, nil,
		status, application.PriorityMedium, application.RiskMedium,
		decimalFrom("25000"), 24,
		nil, nil, nil, nil,
		version, time.Now(), time.Now(),
	)
	for _, m := range mutators {
		app = m(app)
	}
	env.apps.put(app)
	return app
}
