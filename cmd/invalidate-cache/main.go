// Command invalidate-cache is the Lambda behind the pipeline's
// invalidate-cache action. Build it for provided.al2023 as "bootstrap".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/theory-cloud/spadeploy/pkg/invalidation"
	"github.com/theory-cloud/spadeploy/pkg/observability"
	obszap "github.com/theory-cloud/spadeploy/pkg/observability/zap"
)

const (
	envLogLevel          = "SPADEPLOY_LOG_LEVEL"
	envLogFormat         = "SPADEPLOY_LOG_FORMAT"
	envInvalidationPaths = "SPADEPLOY_INVALIDATION_PATHS"
)

type handlerFunc func(ctx context.Context, event events.CodePipelineJobEvent) error

func main() {
	handle, err := newHandler(context.Background(), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalidate-cache: FAIL: %v\n", err)
		os.Exit(2)
	}
	lambda.Start(handle)
}

// newHandler wires the logger, AWS clients and handler from the environment.
// Logs are flushed at the end of every invocation since the runtime may
// freeze the process between events.
func newHandler(ctx context.Context, getenv func(string) string, clientOptions ...invalidation.Option) (handlerFunc, error) {
	logger, err := obszap.NewZapLogger(observability.LoggerConfig{
		Level:  getenv(envLogLevel),
		Format: getenv(envLogFormat),
	}, obszap.WithEnvironmentErrorNotifications(ctx, obszap.DefaultEnvironmentErrorNotifications()))
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	client, err := invalidation.NewClient(ctx, clientOptions...)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("aws clients: %w", err)
	}

	handler := invalidation.NewHandler(client,
		invalidation.WithLogger(logger),
		invalidation.WithDefaultPaths(invalidation.ParsePaths(getenv(envInvalidationPaths))),
	)

	return func(ctx context.Context, event events.CodePipelineJobEvent) error {
		defer func() { _ = logger.Flush(ctx) }()
		return handler.Handle(ctx, event)
	}, nil
}
