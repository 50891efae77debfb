// Package testkit provides deterministic fixtures for testing the cache
// invalidation handler: CodePipeline job events, Lambda contexts, predictable
// IDs and recording fakes of the CloudFront and CodePipeline APIs.
package testkit

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaContext returns ctx carrying a Lambda context with requestID.
func LambdaContext(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{
		AwsRequestID:       requestID,
		InvokedFunctionArn: "arn:aws:lambda:us-east-1:000000000000:function:invalidate-function",
	})
}

// ManualIDGenerator is a deterministic, predictable ID generator for tests.
type ManualIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int64
	queue  []string
}

func NewManualIDGenerator() *ManualIDGenerator {
	return &ManualIDGenerator{prefix: "test-id", next: 1}
}

func (g *ManualIDGenerator) Queue(ids ...string) {
	g.mu.Lock()
	g.queue = append(g.queue, ids...)
	g.mu.Unlock()
}

func (g *ManualIDGenerator) Reset() {
	g.mu.Lock()
	g.queue = nil
	g.next = 1
	g.mu.Unlock()
}

// NewID returns the next queued id, or "test-id-N".
func (g *ManualIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) > 0 {
		out := g.queue[0]
		g.queue = g.queue[1:]
		return out
	}

	out := fmt.Sprintf("%s-%s", g.prefix, strconv.FormatInt(g.next, 10))
	g.next++
	return out
}
