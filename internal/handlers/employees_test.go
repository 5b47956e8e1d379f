package handlers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/hestia/internal/handlers"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/services/employees"
	mocks "github.com/UnknownOlympus/hestia/mock"
)

var johnDoe = map[string]any{
	"id":        1,
	"firstName": "John",
	"lastName":  "Doe",
	"mobile":    "1234567890",
	"email":     "john@example.com",
	"address":   "123 Main St",
}

type recordedErrors struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordedErrors) handle(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func newAPI(t *testing.T, opts ...repository.Option) (humatest.TestAPI, *recordedErrors) {
	t.Helper()

	dir := repository.NewEmployeeRepository(metrics.NewMetrics(prometheus.NewRegistry()), opts...)
	staff := employees.NewStaff(slog.Default(), dir, nil)
	recorder := &recordedErrors{}

	_, api := humatest.New(t)
	(&handlers.Employees{Service: staff, ErrorHandler: recorder.handle}).Register(api)

	return api, recorder
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body, &out))

	return out
}

func TestEmployees_CreateThenGet(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t)

	resp := api.Post("/employees", johnDoe)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "/employees/1", resp.Header().Get("Location"))

	resp = api.Get("/employees/1")
	require.Equal(t, http.StatusOK, resp.Code)

	got := decode[handlers.EmployeeModel](t, resp.Body.Bytes())
	assert.Equal(t, handlers.EmployeeModel{
		ID: 1, FirstName: "John", LastName: "Doe", Mobile: "1234567890",
		Email: "john@example.com", Address: "123 Main St",
	}, got)
}

func TestEmployees_ListOrder(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t)

	resp := api.Get("/employees")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	second := map[string]any{
		"id": 2, "firstName": "Jane", "lastName": "Roe", "mobile": "", "email": "", "address": "",
	}
	require.Equal(t, http.StatusCreated, api.Post("/employees", johnDoe).Code)
	require.Equal(t, http.StatusCreated, api.Post("/employees", second).Code)

	resp = api.Get("/employees")
	list := decode[[]handlers.EmployeeModel](t, resp.Body.Bytes())
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 2, list[1].ID)
}

func TestEmployees_GetNotFound(t *testing.T) {
	t.Parallel()

	api, recorder := newAPI(t)

	resp := api.Get("/employees/999")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	require.Len(t, recorder.errs, 1)
}

func TestEmployees_CreateMissingFieldIsRejected(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t)

	resp := api.Post("/employees", map[string]any{"id": 1, "firstName": "John"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, http.StatusOK, api.Get("/employees").Code)
	assert.Equal(t, http.StatusNotFound, api.Get("/employees/1").Code)
}

func TestEmployees_CreateDuplicateConflicts(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t, repository.WithRejectDuplicateIDs())

	require.Equal(t, http.StatusCreated, api.Post("/employees", johnDoe).Code)
	assert.Equal(t, http.StatusConflict, api.Post("/employees", johnDoe).Code)
}

func TestEmployees_Update(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t, repository.WithSeed(models.Employee{ID: 1, FirstName: "John"}))

	resp := api.Put("/employees/1", map[string]any{
		"firstName": "Jane", "lastName": "Doe", "mobile": "1", "email": "jane@example.com", "address": "456 Side St",
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	got := decode[handlers.EmployeeModel](t, api.Get("/employees/1").Body.Bytes())
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, 1, got.ID)
}

func TestEmployees_UpdateIgnoresBodyID(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t)
	require.Equal(t, http.StatusCreated, api.Post("/employees", johnDoe).Code)

	resp := api.Put("/employees/1", map[string]any{
		"id": 42, "firstName": "Jane", "lastName": "Doe", "mobile": "1234567890",
		"email": "jane@example.com", "address": "123 Main St",
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	got := decode[handlers.EmployeeModel](t, api.Get("/employees/1").Body.Bytes())
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, http.StatusNotFound, api.Get("/employees/42").Code)
}

func TestEmployees_UpdateNotFoundDoesNotUpsert(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t)

	resp := api.Put("/employees/7", map[string]any{
		"firstName": "Jane", "lastName": "Doe", "mobile": "", "email": "", "address": "",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, http.StatusNotFound, api.Get("/employees/7").Code)
}

func TestEmployees_Delete(t *testing.T) {
	t.Parallel()

	api, _ := newAPI(t, repository.WithSeed(models.Employee{ID: 1}))

	assert.Equal(t, http.StatusNoContent, api.Delete("/employees/1").Code)
	assert.Equal(t, http.StatusNotFound, api.Delete("/employees/1").Code)
}

func TestEmployees_InternalError(t *testing.T) {
	t.Parallel()

	mockRepo := mocks.NewEmployeeRepoIface(t)
	mockRepo.On("List", mock.Anything).Return(nil, assert.AnError).Once()

	staff := employees.NewStaff(slog.Default(), mockRepo, nil)
	_, api := humatest.New(t)
	(&handlers.Employees{Service: staff}).Register(api)

	resp := api.Get("/employees")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
