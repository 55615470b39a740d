package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) AppendRef(ctx context.Context, userID string, field domain.RefField, refID string) error {
	return m.Called(ctx, userID, field, refID).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, data []byte, filename, contentType, folder string) (string, error) {
	args := m.Called(ctx, data, filename, contentType, folder)
	return args.String(0), args.Error(1)
}

// memUsers is an in-memory user store that mirrors the repository contract.
type memUsers struct {
	mu           sync.Mutex
	users        map[string]*domain.User
	appendRefErr error
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{users: map[string]*domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *memUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Phone != "" && u.Phone == phone })
}

func (m *memUsers) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

// Update mirrors the repositories: reference lists are never overwritten.
func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[user.ID]
	if !ok {
		return apperror.NotFound("User not found")
	}
	cp := *user
	cp.Addresses, cp.Companies, cp.Educations = cur.Addresses, cur.Companies, cur.Educations
	cp.Experiences, cp.Skills, cp.AppliedJobs = cur.Experiences, cur.Skills, cur.AppliedJobs
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("User not found")
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) AppendRef(_ context.Context, userID string, field domain.RefField, refID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendRefErr != nil {
		return m.appendRefErr
	}
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("User not found")
	}
	u.AppendRef(field, refID)
	return nil
}

// memStore is an in-memory OwnedStore keyed by record id.
type memStore[T any, P interface {
	*T
	domain.Owned
}] struct {
	mu    sync.Mutex
	items map[string]T
}

func newMemStore[T any, P interface {
	*T
	domain.Owned
}]() *memStore[T, P] {
	return &memStore[T, P]{items: map[string]T{}}
}

func (s *memStore[T, P]) Create(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := P(rec).GetID()
	if _, ok := s.items[id]; ok {
		return apperror.Conflict(fmt.Sprintf("record %s already exists", id))
	}
	s.items[id] = *rec
	return nil
}

func (s *memStore[T, P]) GetByID(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[id]
	if !ok {
		return nil, apperror.NotFound("Record not found")
	}
	return &rec, nil
}

func (s *memStore[T, P]) Update(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := P(rec).GetID()
	if _, ok := s.items[id]; !ok {
		return apperror.NotFound("Record not found")
	}
	s.items[id] = *rec
	return nil
}

func (s *memStore[T, P]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperror.NotFound("Record not found")
	}
	delete(s.items, id)
	return nil
}

func (s *memStore[T, P]) ListByUser(_ context.Context, userID string) ([]T, error) {
	return s.filter(func(p P) bool { return p.GetUserID() == userID }), nil
}

func (s *memStore[T, P]) filter(keep func(P) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []T{}
	for _, id := range ids {
		rec := s.items[id]
		if keep(P(&rec)) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *memStore[T, P]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type memApplied struct {
	*memStore[domain.AppliedJob, *domain.AppliedJob]
}

func newMemApplied() *memApplied {
	return &memApplied{memStore: newMemStore[domain.AppliedJob]()}
}

func (s *memApplied) ListByJob(_ context.Context, jobID string) ([]domain.AppliedJob, error) {
	return s.filter(func(a *domain.AppliedJob) bool { return a.JobID == jobID }), nil
}

type memJobs struct {
	mu        sync.Mutex
	jobs      map[string]*domain.Job
	appendErr error
}

func newMemJobs(jobs ...*domain.Job) *memJobs {
	m := &memJobs{jobs: map[string]*domain.Job{}}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *memJobs) Create(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperror.NotFound("Job not found")
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) List(_ context.Context, status string) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Job{}
	for _, j := range m.jobs {
		if status == "" || j.Status == status {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memJobs) Update(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.jobs[job.ID]
	if !ok {
		return apperror.NotFound("Job not found")
	}
	cp := *job
	cp.AppliedJobs = cur.AppliedJobs
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return apperror.NotFound("Job not found")
	}
	delete(m.jobs, id)
	return nil
}

func (m *memJobs) AppendApplication(_ context.Context, jobID, appliedJobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	j, ok := m.jobs[jobID]
	if !ok {
		return apperror.NotFound("Job not found")
	}
	j.AppliedJobs = append(j.AppliedJobs, appliedJobID)
	return nil
}
