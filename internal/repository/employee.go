package repository

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// Create appends the employee and returns the stored copy.
func (d *Directory) Create(_ context.Context, employee models.Employee) (models.Employee, error) {
	var err error
	defer d.observe("create", time.Now(), &err)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rejectDups && d.indexOf(employee.ID) >= 0 {
		err = ErrDuplicateID
		return models.Employee{}, err
	}

	d.employees = append(d.employees, employee)
	d.metrics.DirectorySize.Set(float64(len(d.employees)))

	return employee, nil
}

// GetByID retrieves the first employee with the given id.
func (d *Directory) GetByID(_ context.Context, identifier int) (models.Employee, error) {
	var err error
	defer d.observe("get", time.Now(), &err)

	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.indexOf(identifier)
	if idx < 0 {
		err = ErrNotFound
		return models.Employee{}, err
	}

	return d.employees[idx], nil
}

// List returns a snapshot of all employees in insertion order.
func (d *Directory) List(_ context.Context) ([]models.Employee, error) {
	defer d.observe("list", time.Now(), nil)

	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.employees), nil
}

// Update overwrites the mutable fields of the first employee with the given id.
// A missing id is never inserted.
func (d *Directory) Update(_ context.Context, identifier int, fields models.EmployeeFields) error {
	var err error
	defer d.observe("update", time.Now(), &err)

	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.indexOf(identifier)
	if idx < 0 {
		err = ErrNotFound
		return err
	}
	d.employees[idx].Apply(fields)

	return nil
}

// Delete removes the first employee with the given id.
func (d *Directory) Delete(_ context.Context, identifier int) error {
	var err error
	defer d.observe("delete", time.Now(), &err)

	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.indexOf(identifier)
	if idx < 0 {
		err = ErrNotFound
		return err
	}
	d.employees = slices.Delete(d.employees, idx, idx+1)
	d.metrics.DirectorySize.Set(float64(len(d.employees)))

	return nil
}

// Len returns the number of stored employees.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.employees)
}

// Ping reports whether the directory lock can be acquired before ctx is done.
func (d *Directory) Ping(ctx context.Context) error {
	acquired := make(chan struct{})
	go func() {
		d.mu.RLock()
		d.mu.RUnlock() //nolint:staticcheck // empty critical section is the probe
		close(acquired)
	}()

	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// indexOf must be called with mu held.
func (d *Directory) indexOf(identifier int) int {
	return slices.IndexFunc(d.employees, func(e models.Employee) bool { return e.ID == identifier })
}

func (d *Directory) observe(op string, start time.Time, errp *error) {
	d.metrics.DirectoryOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := "ok"
	if errp != nil && *errp != nil {
		switch {
		case errors.Is(*errp, ErrNotFound):
			result = "not_found"
		case errors.Is(*errp, ErrDuplicateID):
			result = "duplicate"
		default:
			result = "error"
		}
	}
	d.metrics.DirectoryOps.WithLabelValues(op, result).Inc()
}
