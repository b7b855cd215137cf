package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. Errors outside the
// common taxonomy never reach the caller verbatim.
func toStatus(err error) error {
	var code codes.Code
	switch common.KindOf(err) {
	case common.KindValidation:
		code = codes.InvalidArgument
	case common.KindConflict:
		code = codes.AlreadyExists
	case common.KindAuthentication:
		code = codes.Unauthenticated
	case common.KindIntegrity:
		code = codes.FailedPrecondition
	case common.KindInfrastructure:
		code = codes.Internal
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return status.Error(code, err.Error())
}

// Register is the public sign-up path, so the account always gets the
// default role.
func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	a, err := s.accounts.Register(ctx, req.GetUsername(), req.GetPassword(), req.GetEmail(), req.GetPhoneNumber(), common.DefaultRole)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.RegisterResponse{Account: &pb.Account{
		Id:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Role:        a.Role,
	}}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.TokenPairResponse, error) {
	pair, err := s.accounts.Login(ctx, req.GetIdentifier(), req.GetPassword())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.TokenPairResponse, error) {
	pair, err := s.accounts.Refresh(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// VerifyToken answers Valid=false for any rejected token instead of an error.
func (s *GRPCServer) VerifyToken(ctx context.Context, req *pb.VerifyTokenRequest) (*pb.VerifyTokenResponse, error) {
	claims, ok := s.accounts.VerifyToken(ctx, req.GetToken())
	if !ok {
		return &pb.VerifyTokenResponse{Valid: false}, nil
	}
	return &pb.VerifyTokenResponse{Valid: true, AccountId: claims.AccountID, Role: claims.Role}, nil
}

func (s *GRPCServer) ForgotPassword(ctx context.Context, req *pb.IdentifierRequest) (*pb.MessageResponse, error) {
	return message(s.accounts.ForgotPassword(ctx, req.GetIdentifier()))
}

func (s *GRPCServer) ResendVerification(ctx context.Context, req *pb.IdentifierRequest) (*pb.MessageResponse, error) {
	return message(s.accounts.ResendVerification(ctx, req.GetIdentifier()))
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *pb.ResetPasswordRequest) (*pb.MessageResponse, error) {
	return message(s.accounts.ResetPassword(ctx, req.GetToken(), req.GetNewPassword()))
}

func (s *GRPCServer) ConfirmVerification(ctx context.Context, req *pb.ConfirmVerificationRequest) (*pb.MessageResponse, error) {
	return message(s.accounts.ConfirmVerification(ctx, req.GetToken()))
}

func message(msg string, err error) (*pb.MessageResponse, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.MessageResponse{Message: msg}, nil
}
