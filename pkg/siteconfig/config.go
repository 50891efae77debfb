// Package siteconfig loads the YAML deployment description read by the
// spa-deploy synth app and turns it into construct props.
package siteconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/spadeploy"
	"github.com/theory-cloud/spadeploy/pkg/naming"
	"github.com/theory-cloud/spadeploy/pkg/observability"
)

const (
	// DefaultPath is read when SPADEPLOY_CONFIG is unset.
	DefaultPath = "spadeploy.yaml"
	// DefaultTokenSecret is the Secrets Manager secret holding the GitHub token.
	DefaultTokenSecret = "github-oauth-token"
)

type Config struct {
	Stack   StackConfig                `yaml:"stack"`
	Site    SiteConfig                 `yaml:"site"`
	Logging observability.LoggerConfig `yaml:"logging"`
}

type StackConfig struct {
	Name        string            `yaml:"name,omitempty"`
	Account     string            `yaml:"account,omitempty"`
	Region      string            `yaml:"region,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty"`
}

type SiteConfig struct {
	URL         string             `yaml:"url"`
	GitHub      GitHubConfig       `yaml:"github"`
	Certificate CertificateSetting `yaml:"certificate"`
	HostedZone  *HostedZoneConfig  `yaml:"hostedZone,omitempty"`
	BuildSpec   BuildSpecSetting   `yaml:"buildSpec,omitempty"`

	InvalidationPaths    []string `yaml:"invalidationPaths,omitempty"`
	InvalidationAsset    string   `yaml:"invalidationAsset,omitempty"`
	NotificationTopicARN string   `yaml:"notificationTopicArn,omitempty"`
}

type GitHubConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch,omitempty"`
	// TokenSecret names the Secrets Manager secret with the OAuth token.
	TokenSecret string `yaml:"tokenSecret,omitempty"`
	// TokenField selects a JSON key inside the secret.
	TokenField string `yaml:"tokenField,omitempty"`
}

type HostedZoneConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("siteconfig: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	cfg := &Config{}
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("siteconfig: decode: %w", err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays SPADEPLOY_* variables on the file contents. The CDK
// toolkit's CDK_DEFAULT_ACCOUNT and CDK_DEFAULT_REGION only fill blanks.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if lookup == nil {
		return
	}
	override := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	fill := func(key string, dst *string) {
		if *dst == "" {
			override(key, dst)
		}
	}

	override("SPADEPLOY_STACK_NAME", &c.Stack.Name)
	override("SPADEPLOY_ACCOUNT", &c.Stack.Account)
	override("SPADEPLOY_REGION", &c.Stack.Region)
	fill("CDK_DEFAULT_ACCOUNT", &c.Stack.Account)
	fill("CDK_DEFAULT_REGION", &c.Stack.Region)

	override("SPADEPLOY_URL", &c.Site.URL)
	override("SPADEPLOY_GITHUB_OWNER", &c.Site.GitHub.Owner)
	override("SPADEPLOY_GITHUB_REPO", &c.Site.GitHub.Repo)
	override("SPADEPLOY_GITHUB_BRANCH", &c.Site.GitHub.Branch)
	override("SPADEPLOY_GITHUB_TOKEN_SECRET", &c.Site.GitHub.TokenSecret)
	override("SPADEPLOY_INVALIDATION_ASSET", &c.Site.InvalidationAsset)
	override("SPADEPLOY_ERROR_TOPIC_ARN", &c.Site.NotificationTopicARN)

	override("SPADEPLOY_LOG_LEVEL", &c.Logging.Level)
	override("SPADEPLOY_LOG_FORMAT", &c.Logging.Format)
}

// Validate checks what the synth app needs to declare a stack. Combinations
// of certificate and hosted zone are left to the construct.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Site.URL) == "" {
		errs = append(errs, errors.New("site.url is required"))
	}
	if strings.TrimSpace(c.Site.GitHub.Owner) == "" {
		errs = append(errs, errors.New("site.github.owner is required"))
	}
	if strings.TrimSpace(c.Site.GitHub.Repo) == "" {
		errs = append(errs, errors.New("site.github.repo is required"))
	}
	if zone := c.Site.HostedZone; zone != nil {
		if strings.TrimSpace(zone.ID) == "" || strings.TrimSpace(zone.Name) == "" {
			errs = append(errs, errors.New("site.hostedZone needs both id and name"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("siteconfig: invalid config: %w", err)
	}
	return nil
}

// StackName is the configured stack name, or one derived from the site URL.
func (c *Config) StackName() string {
	if c.Stack.Name != "" {
		return c.Stack.Name
	}
	return naming.StackName(c.Site.URL)
}

func (c *Config) StackProps() *awscdk.StackProps {
	props := &awscdk.StackProps{}
	if c.Stack.Account != "" || c.Stack.Region != "" {
		props.Env = &awscdk.Environment{}
		if c.Stack.Account != "" {
			props.Env.Account = jsii.String(c.Stack.Account)
		}
		if c.Stack.Region != "" {
			props.Env.Region = jsii.String(c.Stack.Region)
		}
	}
	if c.Stack.Description != "" {
		props.Description = jsii.String(c.Stack.Description)
	}
	if len(c.Stack.Tags) > 0 {
		tags := make(map[string]*string, len(c.Stack.Tags))
		for k, v := range c.Stack.Tags {
			tags[k] = jsii.String(v)
		}
		props.Tags = &tags
	}
	return props
}

// WebsiteProps builds construct props. Imported references (certificate,
// notification topic) are declared under scope.
func (c *Config) WebsiteProps(scope constructs.Construct) *spadeploy.CicdSpaWebsiteProps {
	site := c.Site

	tokenSecret := site.GitHub.TokenSecret
	if tokenSecret == "" {
		tokenSecret = DefaultTokenSecret
	}
	var tokenOptions *awscdk.SecretsManagerSecretOptions
	if site.GitHub.TokenField != "" {
		tokenOptions = &awscdk.SecretsManagerSecretOptions{JsonField: jsii.String(site.GitHub.TokenField)}
	}

	props := &spadeploy.CicdSpaWebsiteProps{
		URL: site.URL,
		GitHubSource: spadeploy.GitHubSource{
			Owner:      site.GitHub.Owner,
			Repo:       site.GitHub.Repo,
			Branch:     site.GitHub.Branch,
			OauthToken: awscdk.SecretValue_SecretsManager(jsii.String(tokenSecret), tokenOptions),
		},
		InvalidationPaths: site.InvalidationPaths,
	}

	switch {
	case site.Certificate.ARN != "":
		props.Certificate = spadeploy.ExistingCertificate(
			awscertificatemanager.Certificate_FromCertificateArn(scope, jsii.String("imported-certificate"), jsii.String(site.Certificate.ARN)),
		)
	default:
		props.Certificate = spadeploy.CertificateFlag(site.Certificate.Generate)
	}

	switch {
	case site.BuildSpec.Document != nil:
		props.BuildSpec = spadeploy.BuildSpecFromObject(site.BuildSpec.Document)
	case site.BuildSpec.File != "":
		props.BuildSpec = spadeploy.BuildSpecFromSourceFile(site.BuildSpec.File)
	}

	if zone := site.HostedZone; zone != nil {
		props.HostedZone = &spadeploy.HostedZoneRef{HostedZoneID: zone.ID, ZoneName: zone.Name}
	}
	if site.InvalidationAsset != "" {
		props.InvalidationCode = awslambda.Code_FromAsset(jsii.String(site.InvalidationAsset), nil)
	}
	if site.NotificationTopicARN != "" {
		props.NotificationTopic = awssns.Topic_FromTopicArn(scope, jsii.String("notification-topic"), jsii.String(site.NotificationTopicARN))
	}
	return props
}
