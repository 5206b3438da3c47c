package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/TomasB/redblock/internal/data"
	"github.com/TomasB/redblock/internal/stats"
	redblockv1 "github.com/TomasB/redblock/pkg/redblock/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Handler implements the gRPC Redblock service.
type Handler struct {
	redblockv1.UnimplementedRedblockServer
	lookup   data.BlockLookup
	counters *stats.Counters
}

// NewHandler creates a new gRPC handler. counters may be nil.
func NewHandler(lookup data.BlockLookup, counters *stats.Counters) *Handler {
	return &Handler{lookup: lookup, counters: counters}
}

// Test reports whether the address in req is covered by the block list.
func (h *Handler) Test(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	ip, err := data.ParseQuery(req.GetValue())
	if errors.Is(err, data.ErrMissingIP) {
		return nil, status.Error(codes.InvalidArgument, "ip is required")
	}
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid ip")
	}

	blocked, err := h.lookup.Blocked(ip)
	if err != nil {
		slog.Error("block lookup failed", "error", err)
		return nil, status.Error(codes.Internal, "lookup failed")
	}

	if h.counters != nil {
		h.counters.Record(blocked)
	}
	return wrapperspb.Bool(blocked), nil
}
