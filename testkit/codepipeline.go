package testkit

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type CodePipelineJobEventOptions struct {
	JobID        string
	AccountID    string
	FunctionName string
	// UserParameters is used verbatim when set.
	UserParameters string
	// DistributionID and Paths build the parameters when UserParameters is
	// empty: the bare id without paths, a JSON document with them.
	DistributionID string
	Paths          []string
}

// CodePipelineJobEvent builds the event a LambdaInvokeAction delivers.
func CodePipelineJobEvent(opts CodePipelineJobEventOptions) events.CodePipelineJobEvent {
	jobID := strings.TrimSpace(opts.JobID)
	if jobID == "" {
		jobID = "11111111-2222-3333-4444-555555555555"
	}
	accountID := strings.TrimSpace(opts.AccountID)
	if accountID == "" {
		accountID = "000000000000"
	}
	functionName := strings.TrimSpace(opts.FunctionName)
	if functionName == "" {
		functionName = "invalidate-function"
	}

	params := opts.UserParameters
	if params == "" && opts.DistributionID != "" {
		params = opts.DistributionID
		if len(opts.Paths) > 0 {
			raw, err := json.Marshal(map[string]any{
				"distributionId": opts.DistributionID,
				"paths":          opts.Paths,
			})
			if err == nil {
				params = string(raw)
			}
		}
	}

	var event events.CodePipelineJobEvent
	event.CodePipelineJob.ID = jobID
	event.CodePipelineJob.AccountID = accountID
	event.CodePipelineJob.Data.ActionConfiguration.Configuration.FunctionName = functionName
	event.CodePipelineJob.Data.ActionConfiguration.Configuration.UserParameters = params
	return event
}
