package employees

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

// Notifier is told about every employee that was successfully added.
type Notifier interface {
	EmployeeAdded(ctx context.Context, employee models.Employee) error
}

// Staff is the employee capability shared by every transport. It holds no
// state of its own; the repository owns the records.
type Staff struct {
	log      *slog.Logger
	repo     repository.EmployeeRepoIface
	notifier Notifier
}

// NewStaff wires the service. notifier may be nil.
func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, notifier Notifier) *Staff {
	return &Staff{log: log, repo: repo, notifier: notifier}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// AddEmployee stores the employee and notifies listeners about it.
// A failed notification is logged but does not undo or fail the insert.
func (s *Staff) AddEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	const opn = "Staff.AddEmployee"
	log := s.initLogger(opn)

	stored, err := s.repo.Create(ctx, employee)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to add employee %d: %w", employee.ID, err)
	}
	log.DebugContext(ctx, "employee added", sl.Employee(stored))

	if s.notifier != nil {
		if err = s.notifier.EmployeeAdded(ctx, stored); err != nil {
			log.WarnContext(ctx, "failed to notify listeners", sl.Employee(stored), sl.Err(err))
		}
	}

	return stored, nil
}

// GetEmployee returns the employee with the given id.
func (s *Staff) GetEmployee(ctx context.Context, identifier int) (models.Employee, error) {
	employee, err := s.repo.GetByID(ctx, identifier)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee %d: %w", identifier, err)
	}

	return employee, nil
}

// ListEmployees returns every stored employee in insertion order.
func (s *Staff) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// UpdateEmployee overwrites the mutable fields of an existing employee.
func (s *Staff) UpdateEmployee(ctx context.Context, identifier int, fields models.EmployeeFields) error {
	const opn = "Staff.UpdateEmployee"

	if err := s.repo.Update(ctx, identifier, fields); err != nil {
		return fmt.Errorf("failed to update employee %d: %w", identifier, err)
	}
	s.initLogger(opn).DebugContext(ctx, "employee updated", slog.Int("id", identifier))

	return nil
}

// DeleteEmployee removes the employee with the given id.
func (s *Staff) DeleteEmployee(ctx context.Context, identifier int) error {
	const opn = "Staff.DeleteEmployee"

	if err := s.repo.Delete(ctx, identifier); err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", identifier, err)
	}
	s.initLogger(opn).DebugContext(ctx, "employee deleted", slog.Int("id", identifier))

	return nil
}
