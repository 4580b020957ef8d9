package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for service tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	f.users[user.ID] = cloneUser(user)
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.CurrentPlanID != nil {
		id := *u.CurrentPlanID
		c.CurrentPlanID = &id
	}
	if u.LastStudyDate != nil {
		d := *u.LastStudyDate
		c.LastStudyDate = &d
	}
	return &c
}

// fakePlanStore is an in-memory store.PlanStore for service tests.
type fakePlanStore struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*domain.Plan
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: map[uuid.UUID]*domain.Plan{}}
}

func (f *fakePlanStore) Create(ctx context.Context, plan *domain.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (f *fakePlanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.plans[id]
	if !ok {
		return nil, store.ErrPlanNotFound
	}
	return clonePlan(p), nil
}

func (f *fakePlanStore) AppendVersion(ctx context.Context, planID uuid.UUID, version domain.PlanVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.plans[planID]
	if !ok {
		return store.ErrPlanNotFound
	}
	if version.Version != p.CurrentVersion+1 {
		return store.ErrVersionConflict
	}
	p.Versions = append(p.Versions, version)
	p.CurrentVersion = version.Version
	return nil
}

func (f *fakePlanStore) UpdateVersionTasks(
	ctx context.Context,
	planID uuid.UUID,
	version int,
	tasks []domain.Task,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.plans[planID]
	if !ok {
		return store.ErrPlanNotFound
	}
	for i := range p.Versions {
		if p.Versions[i].Version == version {
			p.Versions[i].Tasks = append([]domain.Task(nil), tasks...)
			return nil
		}
	}
	return store.ErrPlanNotFound
}

func clonePlan(p *domain.Plan) *domain.Plan {
	c := *p
	c.Versions = make([]domain.PlanVersion, len(p.Versions))
	for i, v := range p.Versions {
		c.Versions[i] = v
		c.Versions[i].Tasks = append([]domain.Task(nil), v.Tasks...)
	}
	return &c
}

// fakeExecutionStore is an in-memory store.ExecutionStore for service
// tests. failOnCreate, when positive, makes the Nth Create call fail.
type fakeExecutionStore struct {
	mu    sync.Mutex
	execs map[uuid.UUID]*domain.DailyExecution

	failOnCreate int
	createErr    error
	createCalls  int
}

func newFakeExecutionStore() *fakeExecutionStore {
	return &fakeExecutionStore{execs: map[uuid.UUID]*domain.DailyExecution{}}
}

func (f *fakeExecutionStore) Create(ctx context.Context, exec *domain.DailyExecution) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.failOnCreate > 0 && f.createCalls == f.failOnCreate {
		return f.createErr
	}

	for _, e := range f.execs {
		if e.UserID == exec.UserID && sameDay(e.Date, exec.Date) {
			return store.ErrExecutionExists
		}
	}
	f.execs[exec.ID] = cloneExecution(exec)
	return nil
}

func (f *fakeExecutionStore) GetByUserAndDate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.DailyExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.execs {
		if e.UserID == userID && sameDay(e.Date, date) {
			return cloneExecution(e), nil
		}
	}
	return nil, store.ErrExecutionNotFound
}

func (f *fakeExecutionStore) ListByPlan(
	ctx context.Context,
	userID, planID uuid.UUID,
) ([]*domain.DailyExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*domain.DailyExecution{}
	for _, e := range f.execs {
		if e.UserID == userID && e.PlanID == planID {
			out = append(out, cloneExecution(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeExecutionStore) Update(ctx context.Context, exec *domain.DailyExecution) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.execs[exec.ID]; !ok {
		return store.ErrExecutionNotFound
	}
	f.execs[exec.ID] = cloneExecution(exec)
	return nil
}

func cloneExecution(e *domain.DailyExecution) *domain.DailyExecution {
	c := *e
	c.Schedule = append([]domain.ScheduleItem(nil), e.Schedule...)
	return &c
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// stubGenerator records Generate calls and returns a fixed error.
type stubGenerator struct {
	mu    sync.Mutex
	err   error
	calls []bool // isReplan flag of each call
}

func (s *stubGenerator) Generate(ctx context.Context, userID, planID uuid.UUID, isReplan bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, isReplan)
	return s.err
}
