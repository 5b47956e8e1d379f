package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

// EmployeeService is the capability the REST handlers translate requests onto.
type EmployeeService interface {
	AddEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetEmployee(ctx context.Context, identifier int) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, identifier int, fields models.EmployeeFields) error
	DeleteEmployee(ctx context.Context, identifier int) error
}

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

func opStatus(code int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.DefaultStatus = code }
}

// statusError maps directory sentinels to HTTP errors; anything else becomes a 500.
func statusError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound("employee not found", err)
	case errors.Is(err, repository.ErrDuplicateID):
		return huma.Error409Conflict("employee id already exists", err)
	default:
		return err
	}
}
