package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

var (
	// ErrNotFound is returned when no employee matches the requested id.
	ErrNotFound = errors.New("employee not found")
	// ErrDuplicateID is returned by Create when duplicate ids are rejected.
	ErrDuplicateID = errors.New("employee id already exists")
)

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	Create(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetByID(ctx context.Context, identifier int) (models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, identifier int, fields models.EmployeeFields) error
	Delete(ctx context.Context, identifier int) error
}

// Directory is an in-memory employee store. Records are kept in insertion order
// and every access goes through mu.
type Directory struct {
	mu         sync.RWMutex
	employees  []models.Employee
	rejectDups bool
	metrics    *metrics.Metrics
}

var _ EmployeeRepoIface = (*Directory)(nil)

// Option configures a Directory.
type Option func(*Directory)

// WithRejectDuplicateIDs makes Create fail with ErrDuplicateID when the id is already stored.
// Without it duplicates are accepted and lookups resolve to the first match.
func WithRejectDuplicateIDs() Option {
	return func(d *Directory) { d.rejectDups = true }
}

// WithSeed pre-populates the directory in the given order. Seeds are trusted and
// bypass the duplicate policy; config.Load rejects duplicate seed ids when the policy is on.
func WithSeed(employees ...models.Employee) Option {
	return func(d *Directory) { d.employees = append(d.employees, employees...) }
}

// NewEmployeeRepository creates an empty in-memory directory.
func NewEmployeeRepository(metrics *metrics.Metrics, opts ...Option) *Directory {
	dir := &Directory{employees: []models.Employee{}, metrics: metrics}
	for _, opt := range opts {
		opt(dir)
	}
	dir.metrics.DirectorySize.Set(float64(len(dir.employees)))

	return dir
}
