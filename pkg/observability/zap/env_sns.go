package zap

import (
	"context"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type EnvironmentErrorNotificationsOptions struct {
	TopicARNEnvVars []string
	SubjectEnvVars  []string
}

// WithEnvironmentErrorNotifications attaches an SNS notifier when one of the
// topic variables is set. It is a no-op otherwise.
func WithEnvironmentErrorNotifications(ctx context.Context, config EnvironmentErrorNotificationsOptions) Option {
	return func(opts *loggerOptions) {
		topicARN := firstEnvValue(config.TopicARNEnvVars...)
		if topicARN == "" {
			return
		}

		if ctx == nil {
			ctx = context.Background()
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			opts.initErr = err
			return
		}

		opts.notifier = NewSNSNotifier(sns.NewFromConfig(awsCfg), topicARN, SNSNotifierOptions{
			Subject: firstEnvValue(config.SubjectEnvVars...),
		})
	}
}

func DefaultEnvironmentErrorNotifications() EnvironmentErrorNotificationsOptions {
	return EnvironmentErrorNotificationsOptions{
		TopicARNEnvVars: []string{
			"SPADEPLOY_ERROR_TOPIC_ARN",
			"ERROR_NOTIFICATIONS_TOPIC_ARN",
		},
		SubjectEnvVars: []string{
			"SPADEPLOY_ERROR_SUBJECT",
		},
	}
}

func firstEnvValue(keys ...string) string {
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
