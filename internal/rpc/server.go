package rpc

import (
	"context"
	"errors"
	"log/slog"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

// EmployeeService is the capability the gRPC methods translate onto.
type EmployeeService interface {
	AddEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetEmployee(ctx context.Context, identifier int) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, identifier int, fields models.EmployeeFields) error
	DeleteEmployee(ctx context.Context, identifier int) error
}

// Server implements EmployeeServiceServer on top of an EmployeeService.
type Server struct {
	UnimplementedEmployeeServiceServer

	service EmployeeService
}

var _ EmployeeServiceServer = (*Server)(nil)

func NewEmployeeServer(service EmployeeService) *Server {
	return &Server{service: service}
}

// NewGRPCServer builds a grpc.Server with recovery, logging and metrics
// interceptors, the employee service and the standard health service.
func NewGRPCServer(log *slog.Logger, appMetrics *metrics.Metrics, service EmployeeService) *grpc.Server {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandlerContext(recoveryHandler(log))),
			LoggingInterceptor(log),
			MetricsInterceptor(appMetrics),
		)),
	)

	RegisterEmployeeServiceServer(server, NewEmployeeServer(service))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	return server
}

func (s *Server) GetEmployee(ctx context.Context, req *EmployeeRequest) (*models.Employee, error) {
	employee, err := s.service.GetEmployee(ctx, req.ID)
	if err != nil {
		return nil, statusError(err)
	}

	return &employee, nil
}

func (s *Server) GetAllEmployees(ctx context.Context, _ *EmptyRequest) (*EmployeeListResponse, error) {
	employees, err := s.service.ListEmployees(ctx)
	if err != nil {
		return nil, statusError(err)
	}

	return &EmployeeListResponse{Employees: employees}, nil
}

func (s *Server) AddEmployee(ctx context.Context, req *models.Employee) (*EmptyResponse, error) {
	if _, err := s.service.AddEmployee(ctx, *req); err != nil {
		return nil, statusError(err)
	}

	return &EmptyResponse{}, nil
}

func (s *Server) UpdateEmployee(ctx context.Context, req *models.Employee) (*EmptyResponse, error) {
	if err := s.service.UpdateEmployee(ctx, req.ID, req.Fields()); err != nil {
		return nil, statusError(err)
	}

	return &EmptyResponse{}, nil
}

func (s *Server) DeleteEmployee(ctx context.Context, req *EmployeeRequest) (*EmptyResponse, error) {
	if err := s.service.DeleteEmployee(ctx, req.ID); err != nil {
		return nil, statusError(err)
	}

	return &EmptyResponse{}, nil
}

func statusError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, "employee not found")
	case errors.Is(err, repository.ErrDuplicateID):
		return status.Error(codes.AlreadyExists, "employee id already exists")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
