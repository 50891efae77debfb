// Command spa-deploy is the CDK app for a single site. It reads the YAML file
// named by SPADEPLOY_CONFIG (default spadeploy.yaml) and synthesizes one stack.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/spadeploy"
	"github.com/theory-cloud/spadeploy/pkg/naming"
	obszap "github.com/theory-cloud/spadeploy/pkg/observability/zap"
	"github.com/theory-cloud/spadeploy/pkg/siteconfig"
)

const envConfigPath = "SPADEPLOY_CONFIG"

func main() {
	os.Exit(run())
}

func run() int {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	if _, err := buildStack(app, os.Getenv(envConfigPath)); err != nil {
		fmt.Fprintf(os.Stderr, "spa-deploy: FAIL: %v\n", err)
		return 2
	}
	app.Synth(nil)
	return 0
}

// buildStack loads the config at path and declares the site's stack in app.
func buildStack(app awscdk.App, path string) (awscdk.Stack, error) {
	cfg, err := siteconfig.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := obszap.NewZapLogger(cfg.Logging, obszap.WithOutput(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	stack := awscdk.NewStack(app, jsii.String(cfg.StackName()), cfg.StackProps())
	props := cfg.WebsiteProps(stack)
	props.Logger = logger

	if _, err := spadeploy.NewCicdSpaWebsite(stack, naming.Dashed(cfg.Site.URL), props); err != nil {
		return nil, err
	}
	logger.Info("stack declared", map[string]any{
		"stack": cfg.StackName(),
		"site":  cfg.Site.URL,
	})
	return stack, nil
}
