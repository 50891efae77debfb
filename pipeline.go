package spadeploy

import (
	"slices"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipelineactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/spadeploy/pkg/naming"
)

// EnvErrorTopicARN is set on the invalidation function when a notification
// topic is configured.
const EnvErrorTopicARN = "SPADEPLOY_ERROR_TOPIC_ARN"

const (
	stagePull   = "pull"
	stageBuild  = "build"
	stageDeploy = "deploy"
)

// pipelinePhase declares the pull -> build -> deploy pipeline. The deploy
// stage copies the site first and, when a distribution exists, invalidates
// its cache second.
func (c *buildContext) pipelinePhase() {
	url := c.props.URL
	source := c.props.GitHubSource

	sourceOutput := awscodepipeline.NewArtifact(jsii.String("source-code"), nil)
	buildOutput := awscodepipeline.NewArtifact(jsii.String("built-site"), nil)

	project := awscodebuild.NewPipelineProject(c.scope, jsii.String("build-project"), &awscodebuild.PipelineProjectProps{
		BuildSpec:   c.props.BuildSpec.buildSpec(),
		Environment: c.buildEnvironment(),
	})

	deployActions := []awscodepipeline.IAction{
		awscodepipelineactions.NewS3DeployAction(&awscodepipelineactions.S3DeployActionProps{
			ActionName:    jsii.String("copy-files"),
			Bucket:        c.websiteBucket,
			Input:         buildOutput,
			Extract:       jsii.Bool(true),
			AccessControl: c.accessControl(),
			RunOrder:      jsii.Number(1),
		}),
	}
	if c.distribution != nil {
		c.invalidationFunction = c.declareInvalidationFunction()
		deployActions = append(deployActions, awscodepipelineactions.NewLambdaInvokeAction(&awscodepipelineactions.LambdaInvokeActionProps{
			ActionName:           jsii.String("invalidate-cache"),
			Lambda:               c.invalidationFunction,
			UserParametersString: c.invalidationParameters(),
			RunOrder:             jsii.Number(2),
		}))
	}

	c.pipeline = awscodepipeline.NewPipeline(c.scope, jsii.String("build-pipeline"), &awscodepipeline.PipelineProps{
		PipelineName:   jsii.String(naming.PipelineName(url)),
		ArtifactBucket: c.artifactBucket,
		Stages: &[]*awscodepipeline.StageProps{
			{
				StageName: jsii.String(stagePull),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewGitHubSourceAction(&awscodepipelineactions.GitHubSourceActionProps{
						ActionName: jsii.String("pull-from-github"),
						Owner:      jsii.String(source.Owner),
						Repo:       jsii.String(source.Repo),
						Branch:     jsii.String(c.props.branch()),
						OauthToken: source.OauthToken,
						Output:     sourceOutput,
					}),
				},
			},
			{
				StageName: jsii.String(stageBuild),
				Actions: &[]awscodepipeline.IAction{
					awscodepipelineactions.NewCodeBuildAction(&awscodepipelineactions.CodeBuildActionProps{
						ActionName: jsii.String("build"),
						Project:    project,
						Input:      sourceOutput,
						Outputs:    &[]awscodepipeline.Artifact{buildOutput},
					}),
				},
			},
			{
				StageName: jsii.String(stageDeploy),
				Actions:   &deployActions,
			},
		},
	})

	c.pipeline.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings("s3:DeleteObject*", "s3:PutObject*", "s3:Abort*"),
		Resources: &[]*string{
			c.websiteBucket.BucketArn(),
			c.websiteBucket.ArnForObjects(jsii.String("*")),
		},
	}))

	c.logger.Debug("pipeline declared", map[string]any{
		"pipeline":       naming.PipelineName(url),
		"deploy_actions": len(deployActions),
	})
}

// accessControl mirrors the storage phase's access decision.
func (c *buildContext) accessControl() awss3.BucketAccessControl {
	if c.servedByDistribution {
		return awss3.BucketAccessControl_PRIVATE
	}
	return awss3.BucketAccessControl_PUBLIC_READ
}

func (c *buildContext) buildEnvironment() *awscodebuild.BuildEnvironment {
	if c.props.BuildEnvironment != nil {
		return c.props.BuildEnvironment
	}
	return &awscodebuild.BuildEnvironment{
		BuildImage:  awscodebuild.LinuxBuildImage_STANDARD_7_0(),
		ComputeType: awscodebuild.ComputeType_SMALL,
		Privileged:  jsii.Bool(true),
	}
}

// declareInvalidationFunction declares the function run by the
// invalidate-cache action. Its explicit grant is limited to reporting job
// success and creating invalidations.
func (c *buildContext) declareInvalidationFunction() awslambda.Function {
	code := c.props.InvalidationCode
	if code == nil {
		code = awslambda.Code_FromAsset(jsii.String(DefaultInvalidationAssetPath), nil)
	}

	environment := map[string]*string{}
	if c.props.NotificationTopic != nil {
		environment[EnvErrorTopicARN] = c.props.NotificationTopic.TopicArn()
	}

	fn := awslambda.NewFunction(c.scope, jsii.String("invalidate-function"), &awslambda.FunctionProps{
		Runtime:     awslambda.Runtime_PROVIDED_AL2023(),
		Handler:     jsii.String("bootstrap"),
		Code:        code,
		Timeout:     awscdk.Duration_Seconds(jsii.Number(30)),
		Environment: &environment,
	})
	fn.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("codepipeline:PutJobSuccessResult", "cloudfront:CreateInvalidation"),
		Resources: jsii.Strings("*"),
	}))

	if c.props.NotificationTopic != nil {
		c.props.NotificationTopic.GrantPublish(fn)
	}
	return fn
}

// invalidationParameters is the bare distribution id for the default path
// set, and a JSON document carrying the paths otherwise.
func (c *buildContext) invalidationParameters() *string {
	paths := c.props.invalidationPaths()
	if slices.Equal(paths, DefaultInvalidationPaths) {
		return c.distribution.DistributionId()
	}
	return awscdk.Stack_Of(c.scope).ToJsonString(map[string]any{
		"distributionId": c.distribution.DistributionId(),
		"paths":          jsii.Strings(paths...),
	}, nil)
}
