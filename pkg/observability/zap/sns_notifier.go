package zap

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/theory-cloud/spadeploy/pkg/observability"
	"github.com/theory-cloud/spadeploy/pkg/sanitization"
)

const (
	maxSubjectLen = 100
	maxMessageLen = 256 * 1024
)

type snsAPI interface {
	Publish(
		ctx context.Context,
		params *sns.PublishInput,
		optFns ...func(*sns.Options),
	) (*sns.PublishOutput, error)
}

type SNSNotifierOptions struct {
	Subject string
}

type snsNotifier struct {
	client   snsAPI
	topicARN string
	subject  string
}

var _ observability.ErrorNotifier = (*snsNotifier)(nil)

// NewSNSNotifier publishes error entries to an SNS topic.
func NewSNSNotifier(client snsAPI, topicARN string, opts SNSNotifierOptions) observability.ErrorNotifier {
	return &snsNotifier{
		client:   client,
		topicARN: strings.TrimSpace(topicARN),
		subject:  strings.TrimSpace(opts.Subject),
	}
}

func (n *snsNotifier) Notify(ctx context.Context, entry observability.LogEntry) error {
	if n == nil || n.client == nil {
		return errors.New("observability/zap: sns notifier is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if n.topicARN == "" {
		return errors.New("observability/zap: sns topic arn is empty")
	}

	body, err := json.Marshal(map[string]any{
		"entry": entry,
		"env": map[string]string{
			"aws_region":               os.Getenv("AWS_REGION"),
			"aws_lambda_function_name": os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		},
	})
	if err != nil {
		return err
	}

	subject := n.subject
	if subject == "" {
		subject = "spadeploy error"
	}
	subject = sanitization.SanitizeLogString(subject)
	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}

	message := string(body)
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen]
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	return err
}
