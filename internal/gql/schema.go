// Package gql serves the read side of the employee directory as a GraphQL API.
package gql

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

// EmployeeReader is the part of the employee capability the schema resolves against.
type EmployeeReader interface {
	GetEmployee(ctx context.Context, identifier int) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

var employeeType = graphql.NewObject(graphql.ObjectConfig{ //nolint: gochecknoglobals // immutable type definition
	Name: "Employee",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"firstName": &graphql.Field{Type: graphql.String},
		"lastName":  &graphql.Field{Type: graphql.String},
		"mobile":    &graphql.Field{Type: graphql.String},
		"email":     &graphql.Field{Type: graphql.String},
		"address":   &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the query schema. A missing employee resolves to null.
func NewSchema(reader EmployeeReader) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"employee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					identifier, _ := p.Args["id"].(int)

					employee, err := reader.GetEmployee(p.Context, identifier)
					if errors.Is(err, repository.ErrNotFound) {
						return nil, nil //nolint: nilnil // null result
					}
					if err != nil {
						return nil, err
					}

					return employee, nil
				},
			},
			"employees": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(employeeType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return reader.ListEmployees(p.Context)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	return schema, nil
}
