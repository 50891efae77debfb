package siteconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/spadeploy"
)

const fullConfig = `
stack:
  name: demo-cicd
  account: "123456789012"
  region: us-east-1
  tags:
    team: web
site:
  url: demo.example.com
  github:
    owner: acme
    repo: site
    branch: main
  certificate: true
  hostedZone:
    id: Z123456
    name: example.com
  buildSpec:
    version: "0.2"
    phases:
      build:
        commands:
          - make site
  invalidationPaths:
    - /index.html
logging:
  level: debug
  format: json
  retryDelay: 2s
`

func TestParse_FullDocument(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	require.Equal(t, "demo-cicd", cfg.StackName())
	require.Equal(t, "web", cfg.Stack.Tags["team"])
	require.Equal(t, "demo.example.com", cfg.Site.URL)
	require.Equal(t, GitHubConfig{Owner: "acme", Repo: "site", Branch: "main"}, cfg.Site.GitHub)
	require.Equal(t, CertificateSetting{Generate: true}, cfg.Site.Certificate)
	require.Equal(t, &HostedZoneConfig{ID: "Z123456", Name: "example.com"}, cfg.Site.HostedZone)
	require.Equal(t, "0.2", cfg.Site.BuildSpec.Document["version"])
	require.Empty(t, cfg.Site.BuildSpec.File)
	require.Equal(t, []string{"/index.html"}, cfg.Site.InvalidationPaths)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 2*time.Second, cfg.Logging.RetryDelay)
	require.NoError(t, cfg.Validate())
}

func TestCertificateSetting_Forms(t *testing.T) {
	cases := map[string]CertificateSetting{
		"certificate: true":  {Generate: true},
		"certificate: false": {},
		"certificate: ~":     {},
		"certificate: arn:aws:acm:us-east-1:123456789012:certificate/abc": {
			ARN: "arn:aws:acm:us-east-1:123456789012:certificate/abc",
		},
	}
	for doc, want := range cases {
		var out struct {
			Certificate CertificateSetting `yaml:"certificate"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(doc), &out), doc)
		require.Equal(t, want, out.Certificate, doc)
	}

	var out struct {
		Certificate CertificateSetting `yaml:"certificate"`
	}
	require.Error(t, yaml.Unmarshal([]byte("certificate: yes-please"), &out))
	require.Error(t, yaml.Unmarshal([]byte("certificate: [a]"), &out))
}

func TestBuildSpecSetting_Forms(t *testing.T) {
	var out struct {
		BuildSpec BuildSpecSetting `yaml:"buildSpec"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("buildSpec: ci/buildspec.yml"), &out))
	require.Equal(t, BuildSpecSetting{File: "ci/buildspec.yml"}, out.BuildSpec)

	require.NoError(t, yaml.Unmarshal([]byte("buildSpec:\n  version: \"0.2\"\n"), &out))
	require.Equal(t, map[string]any{"version": "0.2"}, out.BuildSpec.Document)

	require.Error(t, yaml.Unmarshal([]byte("buildSpec: [a, b]"), &out))
}

func TestSettings_RoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	raw, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	again, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, cfg.Site.Certificate, again.Site.Certificate)
	require.Equal(t, cfg.Site.BuildSpec, again.Site.BuildSpec)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("site:\n  url: a.example.com\n  certifcate: true\n"))
	require.ErrorContains(t, err, "siteconfig: decode")
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.ErrorContains(t, cfg.Validate(), "site.url is required")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Site: SiteConfig{HostedZone: &HostedZoneConfig{ID: "Z1"}}}
	err := cfg.Validate()
	require.ErrorContains(t, err, "site.url is required")
	require.ErrorContains(t, err, "site.github.owner is required")
	require.ErrorContains(t, err, "site.github.repo is required")
	require.ErrorContains(t, err, "site.hostedZone needs both id and name")
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	env := map[string]string{
		"SPADEPLOY_URL":          "other.example.com",
		"SPADEPLOY_GITHUB_OWNER": "  someone  ",
		"SPADEPLOY_LOG_LEVEL":    "warn",
		"CDK_DEFAULT_REGION":     "eu-west-1",
		"CDK_DEFAULT_ACCOUNT":    "999999999999",
		"SPADEPLOY_GITHUB_REPO":  "",
	}
	cfg.Stack.Account = ""
	cfg.ApplyEnv(func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	})

	require.Equal(t, "other.example.com", cfg.Site.URL)
	require.Equal(t, "someone", cfg.Site.GitHub.Owner)
	require.Equal(t, "site", cfg.Site.GitHub.Repo)
	require.Equal(t, "warn", cfg.Logging.Level)
	// CDK defaults only fill blanks.
	require.Equal(t, "us-east-1", cfg.Stack.Region)
	require.Equal(t, "999999999999", cfg.Stack.Account)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  url: demo.example.com\n  github:\n    owner: acme\n    repo: site\n"), 0o600))

	t.Setenv("SPADEPLOY_GITHUB_BRANCH", "release")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "release", cfg.Site.GitHub.Branch)
	require.Equal(t, "demo-example-com-cicd", cfg.StackName())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "siteconfig: read")

	require.NoError(t, os.WriteFile(path, []byte("site:\n  url: demo.example.com\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "site.github.owner is required")
}

func TestStackProps(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	props := cfg.StackProps()
	require.Equal(t, "123456789012", *props.Env.Account)
	require.Equal(t, "us-east-1", *props.Env.Region)
	require.Equal(t, "web", *(*props.Tags)["team"])

	require.Nil(t, (&Config{}).StackProps().Env)
}

func TestWebsiteProps(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("Stack"), cfg.StackProps())
	props := cfg.WebsiteProps(stack)

	require.Equal(t, "demo.example.com", props.URL)
	require.Equal(t, "main", props.GitHubSource.Branch)
	require.NotNil(t, props.GitHubSource.OauthToken)
	require.True(t, props.Certificate.Generates())
	require.Equal(t, &spadeploy.HostedZoneRef{HostedZoneID: "Z123456", ZoneName: "example.com"}, props.HostedZone)
	document, ok := props.BuildSpec.Document()
	require.True(t, ok)
	require.Equal(t, "0.2", document["version"])
	require.Equal(t, []string{"/index.html"}, props.InvalidationPaths)
	require.Nil(t, props.InvalidationCode)
	require.Nil(t, props.NotificationTopic)
}

func TestWebsiteProps_ExistingCertificateAndTopic(t *testing.T) {
	cfg := &Config{Site: SiteConfig{
		URL:                  "demo.example.com",
		GitHub:               GitHubConfig{Owner: "acme", Repo: "site", TokenField: "token"},
		Certificate:          CertificateSetting{ARN: "arn:aws:acm:us-east-1:123456789012:certificate/abc"},
		BuildSpec:            BuildSpecSetting{File: "buildspec.yml"},
		NotificationTopicARN: "arn:aws:sns:us-east-1:123456789012:errors",
	}}

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("Stack"), nil)
	props := cfg.WebsiteProps(stack)

	certificate, ok := props.Certificate.Existing()
	require.True(t, ok)
	require.NotNil(t, certificate)
	name, ok := props.BuildSpec.SourceFile()
	require.True(t, ok)
	require.Equal(t, "buildspec.yml", name)
	require.NotNil(t, props.NotificationTopic)
	require.NotNil(t, stack.Node().TryFindChild(jsii.String("imported-certificate")))
}
