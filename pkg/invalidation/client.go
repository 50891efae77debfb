package invalidation

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	cptypes "github.com/aws/aws-sdk-go-v2/service/codepipeline/types"
	"github.com/oklog/ulid/v2"
)

// maxFailureMessageLen is the CodePipeline limit for FailureDetails.Message.
const maxFailureMessageLen = 5000

// Client creates CloudFront invalidations and reports CodePipeline job results.
type Client interface {
	// CreateInvalidation returns the id of the created invalidation.
	CreateInvalidation(ctx context.Context, distributionID string, paths []string) (string, error)
	PutJobSuccess(ctx context.Context, jobID string) error
	PutJobFailure(ctx context.Context, jobID string, message string) error
}

type cloudFrontAPI interface {
	CreateInvalidation(
		ctx context.Context,
		params *cloudfront.CreateInvalidationInput,
		optFns ...func(*cloudfront.Options),
	) (*cloudfront.CreateInvalidationOutput, error)
}

type codePipelineAPI interface {
	PutJobSuccessResult(
		ctx context.Context,
		params *codepipeline.PutJobSuccessResultInput,
		optFns ...func(*codepipeline.Options),
	) (*codepipeline.PutJobSuccessResultOutput, error)
	PutJobFailureResult(
		ctx context.Context,
		params *codepipeline.PutJobFailureResultInput,
		optFns ...func(*codepipeline.Options),
	) (*codepipeline.PutJobFailureResultOutput, error)
}

type client struct {
	cloudFront      cloudFrontAPI
	codePipeline    codePipelineAPI
	callerReference func() string
}

type clientOptions struct {
	cloudFront      cloudFrontAPI
	codePipeline    codePipelineAPI
	awsCfg          *aws.Config
	callerReference func() string
}

type Option func(*clientOptions)

func WithAWSConfig(cfg aws.Config) Option {
	return func(opts *clientOptions) {
		cfgCopy := cfg
		opts.awsCfg = &cfgCopy
	}
}

func WithCloudFrontAPI(api cloudFrontAPI) Option {
	return func(opts *clientOptions) {
		opts.cloudFront = api
	}
}

func WithCodePipelineAPI(api codePipelineAPI) Option {
	return func(opts *clientOptions) {
		opts.codePipeline = api
	}
}

// WithCallerReference overrides the generator for invalidation caller
// references. References must be unique per distribution.
func WithCallerReference(fn func() string) Option {
	return func(opts *clientOptions) {
		opts.callerReference = fn
	}
}

func NewClient(ctx context.Context, options ...Option) (Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := &clientOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}

	c := &client{
		cloudFront:      opts.cloudFront,
		codePipeline:    opts.codePipeline,
		callerReference: opts.callerReference,
	}
	if c.callerReference == nil {
		c.callerReference = func() string { return ulid.Make().String() }
	}
	if c.cloudFront != nil && c.codePipeline != nil {
		return c, nil
	}

	var cfg aws.Config
	if opts.awsCfg != nil {
		cfg = *opts.awsCfg
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.cloudFront == nil {
		c.cloudFront = cloudfront.NewFromConfig(cfg)
	}
	if c.codePipeline == nil {
		c.codePipeline = codepipeline.NewFromConfig(cfg)
	}
	return c, nil
}

func (c *client) CreateInvalidation(ctx context.Context, distributionID string, paths []string) (string, error) {
	if c == nil || c.cloudFront == nil {
		return "", errors.New("invalidation: client is nil")
	}
	distributionID = strings.TrimSpace(distributionID)
	if distributionID == "" {
		return "", errors.New("invalidation: distribution id is empty")
	}
	if len(paths) == 0 {
		return "", errors.New("invalidation: no paths to invalidate")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := c.cloudFront.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(c.callerReference()),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if out == nil || out.Invalidation == nil {
		return "", nil
	}
	return aws.ToString(out.Invalidation.Id), nil
}

func (c *client) PutJobSuccess(ctx context.Context, jobID string) error {
	if c == nil || c.codePipeline == nil {
		return errors.New("invalidation: client is nil")
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("invalidation: job id is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := c.codePipeline.PutJobSuccessResult(ctx, &codepipeline.PutJobSuccessResultInput{
		JobId: aws.String(jobID),
	})
	return err
}

func (c *client) PutJobFailure(ctx context.Context, jobID string, message string) error {
	if c == nil || c.codePipeline == nil {
		return errors.New("invalidation: client is nil")
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("invalidation: job id is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(message) > maxFailureMessageLen {
		message = message[:maxFailureMessageLen]
	}
	_, err := c.codePipeline.PutJobFailureResult(ctx, &codepipeline.PutJobFailureResultInput{
		JobId: aws.String(jobID),
		FailureDetails: &cptypes.FailureDetails{
			Message: aws.String(message),
			Type:    cptypes.FailureTypeJobFailed,
		},
	})
	return err
}
