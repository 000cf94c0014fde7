package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"business-nexus/backend/internal/server/interceptors"
)

// GRPCDeps holds the collaborators of the gRPC server.
type GRPCDeps struct {
	// Health publishes readiness; the caller keeps it updated (see health/handler.Checker).
	Health *health.Server
	Log    *zap.Logger
	// Reflection registers the server reflection service. Enable outside production only.
	Reflection bool
}

// NewGRPCServer returns a gRPC server with OTel instrumentation and request logging,
// serving grpc.health.v1.
func NewGRPCServer(deps GRPCDeps) *grpc.Server {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors.LoggingUnary(deps.Log)),
	)
	RegisterServices(s, deps)
	return s
}

// RegisterServices registers the health service, and reflection when enabled.
func RegisterServices(s *grpc.Server, deps GRPCDeps) {
	hs := deps.Health
	if hs == nil {
		hs = health.NewServer()
	}
	healthpb.RegisterHealthServer(s, hs)
	if deps.Reflection {
		reflection.Register(s)
	}
}
