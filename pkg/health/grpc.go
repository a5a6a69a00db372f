package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"message-board/backend/pkg/logger"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer exposes the checker through the standard grpc.health.v1 service.
// The overall status ("") and the named service both follow IsSystemHealthy.
type GRPCServer struct {
	server  *grpc.Server
	health  *grpchealth.Server
	service string
	log     *logger.Logger
}

// NewGRPCServer creates a gRPC server whose health status tracks checker
func NewGRPCServer(checker *Checker, service string, log *logger.Logger) *GRPCServer {
	s := &GRPCServer{
		server:  grpc.NewServer(),
		health:  grpchealth.NewServer(),
		service: service,
		log:     log,
	}
	healthpb.RegisterHealthServer(s.server, s.health)

	s.setServing(checker.IsSystemHealthy())
	checker.OnUpdate(s.setServing)
	return s
}

func (s *GRPCServer) setServing(healthy bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if healthy {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

// Serve accepts connections on lis until Stop is called
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC health server listening", "addr", lis.Addr().String())
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// ListenAndServe listens on the TCP port and serves until ctx is done
func (s *GRPCServer) ListenAndServe(ctx context.Context, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port %s: %w", port, err)
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return s.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight calls
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
