package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_data_bridge/internal/domain"
)

type fakeLocalStore struct {
	docs []domain.LocalEmployee
	err  error
}

func (s *fakeLocalStore) Index(context.Context, domain.LocalEmployee) error { return nil }
func (s *fakeLocalStore) Get(context.Context, int) (*domain.LocalEmployee, error) {
	return nil, domain.ErrEmployeeNotFound
}
func (s *fakeLocalStore) Delete(context.Context, int) error { return nil }
func (s *fakeLocalStore) GetAll(context.Context) ([]domain.LocalEmployee, error) {
	return s.docs, s.err
}

type failingEmployeeRepo struct {
	*fakeEmployeeRepo
}

func (r *failingEmployeeRepo) List(context.Context, domain.EmployeeFilter) ([]domain.Employee, error) {
	return nil, errors.New("connection refused")
}

func testEmployees(n int) []domain.Employee {
	out := make([]domain.Employee, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Employee{
			EmployeeID:   i,
			EmployeeName: "Employee",
			Department:   "IT",
			Salary:       decimal.NewFromInt(50000),
			HireDate:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestJoinMatchesOnlySharedIDs(t *testing.T) {
	repo := newFakeEmployeeRepo(testEmployees(3)...)
	locals := &fakeLocalStore{docs: []domain.LocalEmployee{
		{EmployeeID: 1, LocalName: "John SQL", LocalDepartment: "IT"},
		{EmployeeID: 2, LocalName: "Jane SQL", LocalDepartment: "HR"},
		{EmployeeID: 4, LocalName: "Dangling", LocalDepartment: "Finance"},
	}}

	svc := NewCrossQueryService(repo, locals, 0, 0)
	joined, err := svc.Join(context.Background())
	require.NoError(t, err)

	// Employee 3 has no replica doc, doc 4 has no primary row.
	assert.Len(t, joined, 2)
	ids := map[int]bool{}
	for _, j := range joined {
		ids[j.EmployeeID] = true
		assert.NotEmpty(t, j.LocalName)
	}
	assert.True(t, ids[1] && ids[2])
}

func TestJoinNoMatches(t *testing.T) {
	repo := newFakeEmployeeRepo(testEmployees(2)...)
	locals := &fakeLocalStore{docs: []domain.LocalEmployee{{EmployeeID: 99}}}

	svc := NewCrossQueryService(repo, locals, 0, 0)
	joined, err := svc.Join(context.Background())
	require.NoError(t, err)
	assert.Empty(t, joined)
}

func TestJoinPrimaryFetchFailure(t *testing.T) {
	repo := &failingEmployeeRepo{newFakeEmployeeRepo()}
	locals := &fakeLocalStore{}

	svc := NewCrossQueryService(repo, locals, 0, 0)
	_, err := svc.Join(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary employees")
}

func TestJoinReplicaFetchFailure(t *testing.T) {
	repo := newFakeEmployeeRepo(testEmployees(1)...)
	locals := &fakeLocalStore{err: errors.New("elasticsearch unavailable")}

	svc := NewCrossQueryService(repo, locals, 0, 0)
	_, err := svc.Join(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local employees")
}

func TestJoinConcurrentMatchesSequential(t *testing.T) {
	employees := testEmployees(1000)
	var docs []domain.LocalEmployee
	for i := 1; i <= 1000; i += 3 {
		docs = append(docs, domain.LocalEmployee{
			EmployeeID: i,
			LocalName:  "Local",
			SyncedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}

	repo := newFakeEmployeeRepo(employees...)
	locals := &fakeLocalStore{docs: docs}

	seq := NewCrossQueryService(repo, locals, 0, 0)
	conc := NewCrossQueryService(repo, locals, 64, 8)

	want, err := seq.Join(context.Background())
	require.NoError(t, err)
	got, err := conc.JoinConcurrent(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(want), len(got))
}

func TestJoinConcurrentPreservesBatchOrder(t *testing.T) {
	employees := testEmployees(100)
	docs := make([]domain.LocalEmployee, 0, 100)
	for i := 1; i <= 100; i++ {
		docs = append(docs, domain.LocalEmployee{EmployeeID: i})
	}

	repo := newFakeEmployeeRepo(employees...)
	locals := &fakeLocalStore{docs: docs}

	svc := NewCrossQueryService(repo, locals, 7, 5)
	joined, err := svc.JoinConcurrent(context.Background())
	require.NoError(t, err)
	require.Len(t, joined, 100)
	for i := 1; i < len(joined); i++ {
		assert.Less(t, joined[i-1].EmployeeID, joined[i].EmployeeID)
	}
}
