package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// Client is a typed client for the employee service.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial opens an insecure connection to target that speaks the JSON codec.
// Extra options are appended, e.g. a context dialer for tests.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", target, err)
	}

	return conn, nil
}

func (c *Client) GetEmployee(ctx context.Context, identifier int, opts ...grpc.CallOption) (models.Employee, error) {
	out := new(models.Employee)
	if err := c.conn.Invoke(ctx, methodGetEmployee, &EmployeeRequest{ID: identifier}, out, opts...); err != nil {
		return models.Employee{}, err
	}

	return *out, nil
}

func (c *Client) GetAllEmployees(ctx context.Context, opts ...grpc.CallOption) ([]models.Employee, error) {
	out := new(EmployeeListResponse)
	if err := c.conn.Invoke(ctx, methodGetAllEmployees, &EmptyRequest{}, out, opts...); err != nil {
		return nil, err
	}

	return out.Employees, nil
}

func (c *Client) AddEmployee(ctx context.Context, employee models.Employee, opts ...grpc.CallOption) error {
	return c.conn.Invoke(ctx, methodAddEmployee, &employee, new(EmptyResponse), opts...)
}

func (c *Client) UpdateEmployee(ctx context.Context, employee models.Employee, opts ...grpc.CallOption) error {
	return c.conn.Invoke(ctx, methodUpdateEmployee, &employee, new(EmptyResponse), opts...)
}

func (c *Client) DeleteEmployee(ctx context.Context, identifier int, opts ...grpc.CallOption) error {
	return c.conn.Invoke(ctx, methodDeleteEmployee, &EmployeeRequest{ID: identifier}, new(EmptyResponse), opts...)
}
