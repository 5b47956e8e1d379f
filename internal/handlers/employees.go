package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/UnknownOlympus/hestia/internal/models"
)

type Employees struct {
	Service      EmployeeService
	ErrorHandler func(context.Context, error)
	// BasePath is the prefix the operations are mounted under, used to build Location.
	BasePath string
}

type EmployeeModel struct {
	ID int `json:"id" example:"1" doc:"Caller-chosen identifier"`

	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName"  example:"Doe"`
	Mobile    string `json:"mobile"    example:"1234567890"`
	Email     string `json:"email"     example:"john@example.com"`
	Address   string `json:"address"   example:"123 Main St"`
}

type EmployeeFieldsModel struct {
	ID int `json:"id,omitempty" required:"false" doc:"Ignored, the path id is kept"`

	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName"  example:"Doe"`
	Mobile    string `json:"mobile"    example:"1234567890"`
	Email     string `json:"email"     example:"jane@example.com"`
	Address   string `json:"address"   example:"123 Main St"`
}

func toModel(e models.Employee) EmployeeModel {
	return EmployeeModel{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Mobile:    e.Mobile,
		Email:     e.Email,
		Address:   e.Address,
	}
}

// Register mounts every employee operation on api.
func (h *Employees) Register(api huma.API) {
	h.RegisterList(api)
	h.RegisterGet(api)
	h.RegisterCreate(api)
	h.RegisterPut(api)
	h.RegisterDel(api)
}

func (h *Employees) RegisterList(api huma.API) {
	huma.Get(api, "/employees",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type EmployeesListOutput struct {
	Body []EmployeeModel
}

func (h *Employees) list(ctx context.Context, _ *struct{}) (*EmployeesListOutput, error) {
	employees, err := h.Service.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]EmployeeModel, 0, len(employees))
	for _, employee := range employees {
		body = append(body, toModel(employee))
	}

	return &EmployeesListOutput{Body: body}, nil
}

func (h *Employees) RegisterGet(api huma.API) {
	huma.Get(api, "/employees/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type EmployeesGetOutput struct {
	Body EmployeeModel
}

func (h *Employees) get(ctx context.Context, input *struct {
	ID int `path:"id" doc:"ID of the employee to get"`
}) (*EmployeesGetOutput, error) {
	employee, err := h.Service.GetEmployee(ctx, input.ID)
	if err != nil {
		return nil, statusError(err)
	}

	return &EmployeesGetOutput{Body: toModel(employee)}, nil
}

func (h *Employees) RegisterCreate(api huma.API) {
	huma.Post(api, "/employees",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opStatus(http.StatusCreated),
		opErrors(http.StatusConflict, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

type EmployeesCreateOutput struct {
	Location string `header:"Location"`
	Body     EmployeeModel
}

func (h *Employees) create(ctx context.Context, input *struct {
	Body EmployeeModel
}) (*EmployeesCreateOutput, error) {
	stored, err := h.Service.AddEmployee(ctx, models.Employee{
		ID:        input.Body.ID,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Mobile:    input.Body.Mobile,
		Email:     input.Body.Email,
		Address:   input.Body.Address,
	})
	if err != nil {
		return nil, statusError(err)
	}

	return &EmployeesCreateOutput{
		Location: h.BasePath + "/employees/" + strconv.Itoa(stored.ID),
		Body:     toModel(stored),
	}, nil
}

func (h *Employees) RegisterPut(api huma.API) {
	huma.Put(api, "/employees/{id}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Employees) put(ctx context.Context, input *struct {
	ID   int `path:"id" doc:"ID of the employee to update"`
	Body EmployeeFieldsModel
}) (*struct{}, error) {
	err := h.Service.UpdateEmployee(ctx, input.ID, models.EmployeeFields{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Mobile:    input.Body.Mobile,
		Email:     input.Body.Email,
		Address:   input.Body.Address,
	})
	if err != nil {
		return nil, statusError(err)
	}

	return nil, nil //nolint: nilnil // 204 No Content
}

func (h *Employees) RegisterDel(api huma.API) {
	huma.Delete(api, "/employees/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Employees) del(ctx context.Context, input *struct {
	ID int `path:"id" doc:"ID of the employee to delete"`
}) (*struct{}, error) {
	if err := h.Service.DeleteEmployee(ctx, input.ID); err != nil {
		return nil, statusError(err)
	}

	return nil, nil //nolint: nilnil // 204 No Content
}
