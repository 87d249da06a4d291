package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"noterefiner/internal/model"
	"noterefiner/internal/refine"
)

var (
	ErrNoteRequired = errors.New("note is required")
	ErrNoteTooLong  = errors.New("note is too long")
	ErrRefineFailed = errors.New("refinement failed")
	ErrNoteNotFound = errors.New("note not found")
)

// RefineRequest is the service-level input of a refinement.
type RefineRequest struct {
	Note string
	Mode string
}

// RefineService defines the refinement use case behind POST /api/refine.
type RefineService interface {
	// Refine validates the request and returns the refined text.
	// Validation failures are ErrNoteRequired, ErrNoteTooLong or model.ErrInvalidMode;
	// anything the refiner reports is wrapped in ErrRefineFailed.
	Refine(ctx context.Context, req RefineRequest) (string, error)
}

type refineService struct {
	refiner  refine.Refiner
	maxChars int
	log      *zap.Logger
	requests *prometheus.CounterVec
}

// NewRefineService constructs a new RefineService and registers its metrics on reg.
func NewRefineService(refiner refine.Refiner, maxChars int, log *zap.Logger, reg prometheus.Registerer) (RefineService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refine_requests_total",
			Help: "Total number of refinement requests by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	if reg != nil {
		if err := reg.Register(requests); err != nil {
			return nil, err
		}
	}
	return &refineService{
		refiner:  refiner,
		maxChars: maxChars,
		log:      log,
		requests: requests,
	}, nil
}

func (s *refineService) Refine(ctx context.Context, req RefineRequest) (string, error) {
	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		s.record(ctx, "invalid", "rejected")
		return "", err
	}
	if strings.TrimSpace(req.Note) == "" {
		s.record(ctx, string(mode), "rejected")
		return "", ErrNoteRequired
	}
	if s.maxChars > 0 && utf8.RuneCountInString(req.Note) > s.maxChars {
		s.record(ctx, string(mode), "rejected")
		return "", ErrNoteTooLong
	}

	out, err := s.refiner.Refine(ctx, req.Note, mode)
	if err != nil {
		s.record(ctx, string(mode), "error")
		trace.SpanFromContext(ctx).RecordError(err)
		s.log.Error("refine failed", zap.String("mode", string(mode)), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrRefineFailed, err)
	}
	s.record(ctx, string(mode), "success")
	return out, nil
}

// record counts the request and tags the active span, if any.
func (s *refineService) record(ctx context.Context, mode, outcome string) {
	s.requests.WithLabelValues(mode, outcome).Inc()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("refine.mode", mode),
		attribute.String("refine.outcome", outcome),
	)
}
