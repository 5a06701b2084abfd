package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"usuarios-api/pkg/logger"
)

// ServiceName is the health service name reported for the users API.
const ServiceName = "usuarios.v1.UsuariosAPI"

// SetupGRPC creates the gRPC server hosting the health service. Both the
// overall and the named service status start as NOT_SERVING.
func SetupGRPC(l *zap.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
		),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	l.Debug("gRPC health service registered", zap.String("service", ServiceName))
	return grpcServer, healthServer
}
