// Package grpcserver implements the AlignmentService gRPC server.
//
// It delegates all business logic to employment.Service and handles
// only the gRPC transport concerns: metadata extraction, error mapping,
// and conversion between the domain types and Struct messages.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/alignment-service/internal/alignment"
	"jobmate/alignment-service/internal/employment"
)

// Server implements AlignmentServer.
type Server struct {
	svc *employment.Service
}

var _ AlignmentServer = (*Server)(nil)

// NewServer constructs a gRPC Server backed by the given employment.Service.
func NewServer(svc *employment.Service) *Server {
	return &Server{svc: svc}
}

// New returns a grpc.Server with the alignment and health services
// registered and every call logged.
func New(svc *employment.Service, logger *slog.Logger) (*grpc.Server, *health.Server) {
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLogger(logger)))
	gs.RegisterService(&ServiceDesc, NewServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs, hs
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// UpdatePosition reclassifies and persists the caller's position.
func (s *Server) UpdatePosition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	var in employment.PositionInput
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	st, err := s.svc.UpdatePosition(ctx, userID, in)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(st)
}

// CheckPosition is the dry-run variant of UpdatePosition.
func (s *Server) CheckPosition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	var in employment.PositionInput
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	st, err := s.svc.CheckPosition(ctx, userID, in)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(st)
}

// ConfirmAlignment answers the caller's pending question.
func (s *Server) ConfirmAlignment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := req.GetFields()["confirmed"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "confirmed is required")
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "confirmed must be a boolean")
	}

	st, err := s.svc.ConfirmAlignment(ctx, userID, b.BoolValue)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(st)
}

// Autocomplete returns {"titles": [...]} for {"query": "...", "limit": n}.
func (s *Server) Autocomplete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	titles, err := s.svc.Autocomplete(ctx, in.Query, in.Limit)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(map[string]any{"titles": titles})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// userIDFromCtx extracts the x-user-id value forwarded by the Gateway
// via gRPC metadata.
func userIDFromCtx(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("x-user-id")
	if len(vals) == 0 || vals[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	return vals[0], nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, employment.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, employment.ErrRateLimited) {
		return status.Error(codes.ResourceExhausted, err.Error())
	}
	if alignment.IsRetryable(err) {
		return status.Error(codes.Unavailable, "reference store unavailable, retry later")
	}
	var ve *employment.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, "internal server error")
}

// fromStruct decodes a Struct into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return status.Error(codes.InvalidArgument, "invalid request: "+err.Error())
	}
	return nil
}

// toStruct encodes v into a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func unaryLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		level := slog.LevelDebug
		if code == codes.Internal || code == codes.Unavailable {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "grpc call",
			"method", info.FullMethod,
			"code", code.String(),
			"took", time.Since(start),
		)
		return resp, err
	}
}
