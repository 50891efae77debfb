package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/spadeploy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spadeploy.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuildStack_PublicSite(t *testing.T) {
	path := writeConfig(t, `
stack:
  region: us-east-1
site:
  url: demo.example.com
  github:
    owner: acme
    repo: site
logging:
  level: error
`)

	stack, err := buildStack(awscdk.NewApp(nil), path)
	if err != nil {
		t.Fatalf("buildStack: %v", err)
	}
	if got := *stack.StackName(); got != "demo-example-com-cicd" {
		t.Fatalf("unexpected stack name %q", got)
	}

	tmpl := assertions.Template_FromStack(stack, nil)
	tmpl.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(2))
	tmpl.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(0))
	tmpl.HasResourceProperties(jsii.String("AWS::CodePipeline::Pipeline"), map[string]any{
		"Name": "demo-example-com-build-pipeline",
	})
}

func TestBuildStack_CertificateWithoutZoneFails(t *testing.T) {
	path := writeConfig(t, `
site:
  url: demo.example.com
  certificate: true
  github:
    owner: acme
    repo: site
logging:
  level: error
`)

	_, err := buildStack(awscdk.NewApp(nil), path)
	if !errors.Is(err, spadeploy.ErrHostedZoneRequired) {
		t.Fatalf("expected ErrHostedZoneRequired, got %v", err)
	}
}

func TestBuildStack_MissingConfig(t *testing.T) {
	if _, err := buildStack(awscdk.NewApp(nil), filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected missing config error")
	}
}
