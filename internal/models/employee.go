package models

// Employee represents an employee entity. ID is chosen by the caller.
type Employee struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// EmployeeFields holds the mutable part of an Employee.
type EmployeeFields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// Fields returns the mutable fields of the employee.
func (e Employee) Fields() EmployeeFields {
	return EmployeeFields{
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Mobile:    e.Mobile,
		Email:     e.Email,
		Address:   e.Address,
	}
}

// Apply overwrites every mutable field. The ID is left untouched.
func (e *Employee) Apply(fields EmployeeFields) {
	e.FirstName = fields.FirstName
	e.LastName = fields.LastName
	e.Mobile = fields.Mobile
	e.Email = fields.Email
	e.Address = fields.Address
}
