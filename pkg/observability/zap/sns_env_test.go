package zap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/theory-cloud/spadeploy/pkg/observability"
)

type fakeSNSClient struct {
	last *sns.PublishInput
	err  error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

func TestSNSNotifier_ValidatesInputsAndSanitizesSubject(t *testing.T) {
	var n *snsNotifier
	if err := n.Notify(context.Background(), observability.LogEntry{}); err == nil {
		t.Fatal("expected error for nil notifier")
	}

	client := &fakeSNSClient{}
	notifier := NewSNSNotifier(client, "  arn:aws:sns:us-east-1:000000000000:topic  ", SNSNotifierOptions{
		Subject: "line1\r\n" + strings.Repeat("s", 200),
	})

	entry := observability.LogEntry{
		Level:   "error",
		Message: "invalidation failed",
		JobID:   "job-1",
		Fields: map[string]any{
			"payload": strings.Repeat("x", 300*1024),
		},
	}

	if err := notifier.Notify(context.Background(), entry); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if client.last == nil || client.last.TopicArn == nil || *client.last.TopicArn != "arn:aws:sns:us-east-1:000000000000:topic" {
		t.Fatalf("expected trimmed topic arn, got %#v", client.last)
	}
	if client.last.Subject == nil || strings.ContainsAny(*client.last.Subject, "\r\n") || len(*client.last.Subject) > maxSubjectLen {
		t.Fatalf("expected sanitized subject, got %#v", client.last.Subject)
	}
	if client.last.Message == nil || len(*client.last.Message) > maxMessageLen {
		t.Fatalf("expected message to be truncated; len=%d", len(*client.last.Message))
	}
}

func TestSNSNotifier_DefaultSubject(t *testing.T) {
	client := &fakeSNSClient{}
	notifier := NewSNSNotifier(client, "arn:aws:sns:us-east-1:000000000000:topic", SNSNotifierOptions{})
	if err := notifier.Notify(context.Background(), observability.LogEntry{Message: "boom"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if *client.last.Subject != "spadeploy error" {
		t.Fatalf("unexpected subject %q", *client.last.Subject)
	}
	if !strings.Contains(*client.last.Message, `"message":"boom"`) {
		t.Fatalf("expected entry in message, got %s", *client.last.Message)
	}
}

func TestSNSNotifier_TopicARNRequired(t *testing.T) {
	notifier := NewSNSNotifier(&fakeSNSClient{}, "", SNSNotifierOptions{})
	if err := notifier.Notify(context.Background(), observability.LogEntry{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSNSNotifier_PropagatesPublishError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("publish failed")}
	notifier := NewSNSNotifier(client, "arn:aws:sns:us-east-1:000000000000:topic", SNSNotifierOptions{})
	if err := notifier.Notify(context.Background(), observability.LogEntry{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnvironmentErrorNotifications_ConfiguresNotifier(t *testing.T) {
	t.Setenv("SPADEPLOY_ERROR_TOPIC_ARN", "")
	t.Setenv("ERROR_NOTIFICATIONS_TOPIC_ARN", "")

	opts := &loggerOptions{}
	WithEnvironmentErrorNotifications(context.Background(), DefaultEnvironmentErrorNotifications())(opts)
	if opts.notifier != nil || opts.initErr != nil {
		t.Fatalf("expected no notifier when env vars unset")
	}

	t.Setenv("SPADEPLOY_ERROR_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:topic")
	t.Setenv("SPADEPLOY_ERROR_SUBJECT", "  site deploy ")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "dummy")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "dummy")

	opts = &loggerOptions{}
	WithEnvironmentErrorNotifications(context.Background(), DefaultEnvironmentErrorNotifications())(opts)
	if opts.notifier == nil || opts.initErr != nil {
		t.Fatalf("expected notifier to be set, got notifier=%v err=%v", opts.notifier, opts.initErr)
	}

	n, ok := opts.notifier.(*snsNotifier)
	if !ok {
		t.Fatalf("expected sns notifier, got %#v", opts.notifier)
	}
	if n.subject != "site deploy" {
		t.Fatalf("expected subject from env, got %q", n.subject)
	}
}

func TestEnvironmentErrorNotifications_FallbackEnvVar(t *testing.T) {
	t.Setenv("SPADEPLOY_ERROR_TOPIC_ARN", "")
	t.Setenv("ERROR_NOTIFICATIONS_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:topic")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "dummy")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "dummy")

	opts := &loggerOptions{}
	WithEnvironmentErrorNotifications(context.Background(), DefaultEnvironmentErrorNotifications())(opts)
	if opts.notifier == nil || opts.initErr != nil {
		t.Fatalf("expected notifier to be set, got notifier=%v err=%v", opts.notifier, opts.initErr)
	}
}
