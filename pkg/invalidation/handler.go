package invalidation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/theory-cloud/spadeploy/pkg/observability"
)

// Handler serves the invalidate-cache action of the deploy stage.
//
// Failures of the job itself are reported to CodePipeline and not returned,
// so the action fails immediately instead of the invocation being retried.
type Handler struct {
	client       Client
	logger       observability.StructuredLogger
	defaultPaths []string
}

type HandlerOption func(*Handler)

func WithLogger(logger observability.StructuredLogger) HandlerOption {
	return func(h *Handler) {
		h.logger = observability.OrNoOp(logger)
	}
}

// WithDefaultPaths sets the paths used when the action does not name any.
func WithDefaultPaths(paths []string) HandlerOption {
	return func(h *Handler) {
		if normalized := NormalizePaths(paths); len(normalized) > 0 {
			h.defaultPaths = normalized
		}
	}
}

func NewHandler(client Client, options ...HandlerOption) *Handler {
	h := &Handler{
		client:       client,
		logger:       observability.NewNoOpLogger(),
		defaultPaths: DefaultPaths,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Handle invalidates the distribution named in the job's user parameters and
// reports the outcome. It returns an error only when no outcome could be
// reported.
func (h *Handler) Handle(ctx context.Context, event events.CodePipelineJobEvent) error {
	if h == nil || h.client == nil {
		return errors.New("invalidation: handler is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	job := event.CodePipelineJob
	jobID := strings.TrimSpace(job.ID)
	if jobID == "" {
		return errors.New("invalidation: event has no job id")
	}

	logger := h.logger.WithJobID(jobID)
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		logger = logger.WithRequestID(lc.AwsRequestID)
	}

	req, err := ParseUserParameters(job.Data.ActionConfiguration.Configuration.UserParameters)
	if err != nil {
		return h.fail(ctx, logger, jobID, err)
	}
	paths := req.Paths
	if len(paths) == 0 {
		paths = h.defaultPaths
	}

	invalidationID, err := h.client.CreateInvalidation(ctx, req.DistributionID, paths)
	if err != nil {
		return h.fail(ctx, logger, jobID, fmt.Errorf("invalidation: create invalidation for %s: %w", req.DistributionID, err))
	}
	logger.Info("invalidation created", map[string]any{
		"distribution_id": req.DistributionID,
		"invalidation_id": invalidationID,
		"paths":           paths,
	})

	if err := h.client.PutJobSuccess(ctx, jobID); err != nil {
		logger.Error("failed to report job success", map[string]any{"error": err.Error()})
		return fmt.Errorf("invalidation: report job success: %w", err)
	}
	return nil
}

func (h *Handler) fail(ctx context.Context, logger observability.StructuredLogger, jobID string, cause error) error {
	logger.Error("invalidation failed", map[string]any{"error": cause.Error()})
	if err := h.client.PutJobFailure(ctx, jobID, cause.Error()); err != nil {
		logger.Error("failed to report job failure", map[string]any{"error": err.Error()})
		return fmt.Errorf("invalidation: report job failure: %w", errors.Join(cause, err))
	}
	return nil
}
