package testkit

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
)

// FakeCloudFront records CreateInvalidation calls.
type FakeCloudFront struct {
	mu    sync.Mutex
	Calls []*cloudfront.CreateInvalidationInput

	// Err, when set, is returned by every call.
	Err error
	// InvalidationID is returned as the created invalidation's id.
	InvalidationID string
}

func (f *FakeCloudFront) CreateInvalidation(
	_ context.Context,
	params *cloudfront.CreateInvalidationInput,
	_ ...func(*cloudfront.Options),
) (*cloudfront.CreateInvalidationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, params)
	if f.Err != nil {
		return nil, f.Err
	}
	id := f.InvalidationID
	if id == "" {
		id = "I2J0I21PCUYOIK"
	}
	return &cloudfront.CreateInvalidationOutput{
		Invalidation: &cftypes.Invalidation{
			Id:     aws.String(id),
			Status: aws.String("InProgress"),
		},
	}, nil
}

// FakeCodePipeline records job result reports.
type FakeCodePipeline struct {
	mu        sync.Mutex
	Successes []*codepipeline.PutJobSuccessResultInput
	Failures  []*codepipeline.PutJobFailureResultInput

	SuccessErr error
	FailureErr error
}

func (f *FakeCodePipeline) PutJobSuccessResult(
	_ context.Context,
	params *codepipeline.PutJobSuccessResultInput,
	_ ...func(*codepipeline.Options),
) (*codepipeline.PutJobSuccessResultOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Successes = append(f.Successes, params)
	if f.SuccessErr != nil {
		return nil, f.SuccessErr
	}
	return &codepipeline.PutJobSuccessResultOutput{}, nil
}

func (f *FakeCodePipeline) PutJobFailureResult(
	_ context.Context,
	params *codepipeline.PutJobFailureResultInput,
	_ ...func(*codepipeline.Options),
) (*codepipeline.PutJobFailureResultOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failures = append(f.Failures, params)
	if f.FailureErr != nil {
		return nil, f.FailureErr
	}
	return &codepipeline.PutJobFailureResultOutput{}, nil
}
