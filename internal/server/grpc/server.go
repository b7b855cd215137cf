package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// accountSvc is the part of services.AccountService the transport needs.
type accountSvc interface {
	Register(ctx context.Context, username, password, email, phoneNumber, role string) (*models.PublicAccount, error)
	Login(ctx context.Context, identifier, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	VerifyToken(ctx context.Context, token string) (*auth.AccessClaims, bool)
	ForgotPassword(ctx context.Context, identifier string) (string, error)
	ResendVerification(ctx context.Context, identifier string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	ConfirmVerification(ctx context.Context, token string) (string, error)
}

type GRPCServer struct {
	pb.UnimplementedAccountServiceServer
	address  string
	accounts accountSvc
	metrics  *metrics.Metrics
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, svc accountSvc, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: svc,
		metrics:  m,
	}
}

// newServer builds a grpc.Server with the account and health services
// registered.
func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.observeInterceptor))
	pb.RegisterAccountServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(pb.AccountService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
