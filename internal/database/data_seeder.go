package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locvowork/hr_data_bridge/internal/domain"
	"github.com/locvowork/hr_data_bridge/internal/repository"
)

// DataSeeder fills both stores with randomized but plausible HR data.
type DataSeeder struct {
	db      *sql.DB
	elastic *ElasticSearchClient
	rng     *rand.Rand
}

func NewDataSeeder(db *sql.DB, es *ElasticSearchClient) *DataSeeder {
	return &DataSeeder{
		db:      db,
		elastic: es,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var (
	firstNames  = []string{"John", "Jane", "Bob", "Alice", "Carlos", "Mei", "Priya", "Omar", "Elena", "Tom"}
	lastNames   = []string{"Doe", "Smith", "Nguyen", "Garcia", "Kim", "Patel", "Schmidt", "Tanaka", "Brown", "Lee"}
	departments = []string{"IT", "HR", "Finance", "Marketing", "Sales"}
)

// SeedEmployees inserts n employees into the primary store and mirrors a
// localRatio fraction of them into the replica index. Returns how many
// rows landed on each side.
func (ds *DataSeeder) SeedEmployees(ctx context.Context, n int, localRatio float64) (int, int, error) {
	if localRatio < 0 || localRatio > 1 {
		return 0, 0, fmt.Errorf("local ratio must be within [0, 1], got %f", localRatio)
	}

	repo := repository.NewEmployeeRepository(ds.db)

	primary := 0
	replica := 0
	for i := 1; i <= n; i++ {
		e := domain.Employee{
			EmployeeID:   i,
			EmployeeName: firstNames[ds.rng.Intn(len(firstNames))] + " " + lastNames[ds.rng.Intn(len(lastNames))],
			Department:   departments[ds.rng.Intn(len(departments))],
			Salary:       decimal.NewFromInt(int64(40000 + ds.rng.Intn(80000))),
			HireDate:     randomHireDate(ds.rng),
		}

		err := repo.Create(ctx, &e)
		switch {
		case errors.Is(err, domain.ErrDuplicateEmployee):
			// Re-running the seeder over an existing dataset is fine.
		case err != nil:
			return primary, replica, fmt.Errorf("failed to seed employee %d: %w", i, err)
		default:
			primary++
		}

		if ds.rng.Float64() >= localRatio {
			continue
		}
		doc := domain.LocalEmployee{
			EmployeeID:      e.EmployeeID,
			LocalName:       e.EmployeeName,
			LocalDepartment: e.Department,
			SyncedAt:        time.Now().UTC(),
		}
		if err := ds.elastic.Index(ctx, doc); err != nil {
			return primary, replica, fmt.Errorf("failed to seed local employee %d: %w", i, err)
		}
		replica++
	}

	return primary, replica, nil
}

// Clear removes every seeded employee from both stores. Departments are
// reference data and stay untouched.
func (ds *DataSeeder) Clear(ctx context.Context) error {
	if _, err := ds.db.ExecContext(ctx, "TRUNCATE TABLE employees"); err != nil {
		return fmt.Errorf("failed to clear employees: %w", err)
	}

	docs, err := ds.elastic.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list local employees: %w", err)
	}
	for _, doc := range docs {
		if err := ds.elastic.Delete(ctx, doc.EmployeeID); err != nil {
			return fmt.Errorf("failed to delete local employee %d: %w", doc.EmployeeID, err)
		}
	}
	return nil
}

func randomHireDate(rng *rand.Rand) time.Time {
	start := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	days := rng.Intn(365 * 14)
	return start.AddDate(0, 0, days)
}
