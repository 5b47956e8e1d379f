package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/UnknownOlympus/hestia/internal/models"
)

const ServiceName = "hestia.v1.EmployeeService"

const (
	methodGetEmployee     = "/" + ServiceName + "/GetEmployee"
	methodGetAllEmployees = "/" + ServiceName + "/GetAllEmployees"
	methodAddEmployee     = "/" + ServiceName + "/AddEmployee"
	methodUpdateEmployee  = "/" + ServiceName + "/UpdateEmployee"
	methodDeleteEmployee  = "/" + ServiceName + "/DeleteEmployee"
)

type EmployeeRequest struct {
	ID int `json:"id"`
}

type EmptyRequest struct{}

type EmptyResponse struct{}

type EmployeeListResponse struct {
	Employees []models.Employee `json:"employees"`
}

// EmployeeServiceServer is the server API for the employee service.
type EmployeeServiceServer interface {
	GetEmployee(context.Context, *EmployeeRequest) (*models.Employee, error)
	GetAllEmployees(context.Context, *EmptyRequest) (*EmployeeListResponse, error)
	AddEmployee(context.Context, *models.Employee) (*EmptyResponse, error)
	UpdateEmployee(context.Context, *models.Employee) (*EmptyResponse, error)
	DeleteEmployee(context.Context, *EmployeeRequest) (*EmptyResponse, error)
}

// UnimplementedEmployeeServiceServer can be embedded to have forward compatible implementations.
type UnimplementedEmployeeServiceServer struct{}

func (UnimplementedEmployeeServiceServer) GetEmployee(context.Context, *EmployeeRequest) (*models.Employee, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmployee not implemented")
}

func (UnimplementedEmployeeServiceServer) GetAllEmployees(
	context.Context, *EmptyRequest,
) (*EmployeeListResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAllEmployees not implemented")
}

func (UnimplementedEmployeeServiceServer) AddEmployee(context.Context, *models.Employee) (*EmptyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddEmployee not implemented")
}

func (UnimplementedEmployeeServiceServer) UpdateEmployee(context.Context, *models.Employee) (*EmptyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEmployee not implemented")
}

func (UnimplementedEmployeeServiceServer) DeleteEmployee(context.Context, *EmployeeRequest) (*EmptyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEmployee not implemented")
}

// RegisterEmployeeServiceServer registers srv on registrar.
func RegisterEmployeeServiceServer(registrar grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	registrar.RegisterService(&EmployeeServiceDesc, srv)
}

// unaryHandler adapts a typed method to the grpc.MethodDesc handler signature.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(EmployeeServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EmployeeServiceServer), ctx, in) //nolint: forcetypeassert // guaranteed by HandlerType
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EmployeeServiceServer), ctx, req.(*Req)) //nolint: forcetypeassert // decoded above
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EmployeeServiceDesc is the grpc.ServiceDesc for the employee service.
var EmployeeServiceDesc = grpc.ServiceDesc{ //nolint: gochecknoglobals // mirrors generated code
	ServiceName: ServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetEmployee",
			Handler:    unaryHandler(methodGetEmployee, EmployeeServiceServer.GetEmployee),
		},
		{
			MethodName: "GetAllEmployees",
			Handler:    unaryHandler(methodGetAllEmployees, EmployeeServiceServer.GetAllEmployees),
		},
		{
			MethodName: "AddEmployee",
			Handler:    unaryHandler(methodAddEmployee, EmployeeServiceServer.AddEmployee),
		},
		{
			MethodName: "UpdateEmployee",
			Handler:    unaryHandler(methodUpdateEmployee, EmployeeServiceServer.UpdateEmployee),
		},
		{
			MethodName: "DeleteEmployee",
			Handler:    unaryHandler(methodDeleteEmployee, EmployeeServiceServer.DeleteEmployee),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hestia/v1/employee.proto",
}
