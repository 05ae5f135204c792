package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/logger"
	"github.com/locvowork/hr_data_bridge/pkg/dataflow"
)

// CrossQueryService correlates employee records across the primary
// relational store and the replica document store. The two reads are
// independent; a failure in either one fails the whole query, there is
// no retry or partial-result mode.
type CrossQueryService struct {
	employees  domain.EmployeeRepository
	locals     domain.LocalEmployeeStore
	batchSize  int
	numWorkers int
}

// NewCrossQueryService creates a new service.
func NewCrossQueryService(employees domain.EmployeeRepository, locals domain.LocalEmployeeStore, batchSize, numWorkers int) *CrossQueryService {
	if batchSize <= 0 {
		batchSize = 500
	}
	if numWorkers <= 0 {
		numWorkers = 4
	}
	return &CrossQueryService{
		employees:  employees,
		locals:     locals,
		batchSize:  batchSize,
		numWorkers: numWorkers,
	}
}

// Join fetches both sides and performs the in-memory inner join on the
// shared employee ID. Rows present on only one side are dropped.
func (s *CrossQueryService) Join(ctx context.Context) ([]domain.JoinedEmployee, error) {
	primary, err := s.employees.List(ctx, domain.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch primary employees: %w", err)
	}

	locals, err := s.locals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch local employees: %w", err)
	}

	joined := joinBatch(primary, buildLocalIndex(locals))
	logger.InfoLog(ctx, "Cross-database join matched %d of %d primary rows", len(joined), len(primary))
	return joined, nil
}

// JoinConcurrent splits the primary rows into batches and joins them on
// a worker pool. The replica side is fetched once and shared read-only
// across workers; results are reassembled in batch order.
func (s *CrossQueryService) JoinConcurrent(ctx context.Context) ([]domain.JoinedEmployee, error) {
	primary, err := s.employees.List(ctx, domain.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch primary employees: %w", err)
	}

	locals, err := s.locals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch local employees: %w", err)
	}
	index := buildLocalIndex(locals)

	type batch struct {
		idx  int
		rows []domain.Employee
	}
	type batchResult struct {
		idx    int
		joined []domain.JoinedEmployee
	}

	var batches []batch
	for i := 0; i < len(primary); i += s.batchSize {
		end := i + s.batchSize
		if end > len(primary) {
			end = len(primary)
		}
		batches = append(batches, batch{idx: len(batches), rows: primary[i:end]})
	}

	in := dataflow.From(ctx, batches...)
	out := dataflow.Map(ctx, in, func(b batch) (batchResult, error) {
		return batchResult{idx: b.idx, joined: joinBatch(b.rows, index)}, nil
	}, dataflow.WithWorkers(s.numWorkers), dataflow.WithBufferSize(len(batches)))

	results := dataflow.Collect(ctx, out)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].idx < results[j].idx })

	var joined []domain.JoinedEmployee
	for _, r := range results {
		joined = append(joined, r.joined...)
	}
	return joined, nil
}

// buildLocalIndex creates the lookup: employee_id -> LocalEmployee.
func buildLocalIndex(locals []domain.LocalEmployee) map[int]domain.LocalEmployee {
	index := make(map[int]domain.LocalEmployee, len(locals))
	for _, l := range locals {
		index[l.EmployeeID] = l
	}
	return index
}

// joinBatch merges primary rows against the replica index.
func joinBatch(primary []domain.Employee, index map[int]domain.LocalEmployee) []domain.JoinedEmployee {
	joined := make([]domain.JoinedEmployee, 0, len(primary))
	for _, e := range primary {
		local, ok := index[e.EmployeeID]
		if !ok {
			continue
		}
		joined = append(joined, domain.JoinedEmployee{
			EmployeeID:      e.EmployeeID,
			EmployeeName:    e.EmployeeName,
			Department:      e.Department,
			Salary:          e.Salary,
			HireDate:        e.HireDate,
			LocalName:       local.LocalName,
			LocalDepartment: local.LocalDepartment,
			SyncedAt:        local.SyncedAt,
		})
	}
	return joined
}
