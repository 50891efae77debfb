package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodepipeline"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/spadeploy/pkg/observability"
)

// CicdSpaWebsite is the construct produced by NewCicdSpaWebsite.
type CicdSpaWebsite struct {
	constructs.Construct

	url string

	artifactBucket       awss3.Bucket
	websiteBucket        awss3.Bucket
	originIdentity       awscloudfront.OriginAccessIdentity
	certificate          awscertificatemanager.ICertificate
	distribution         awscloudfront.Distribution
	record               awsroute53.RecordSet
	pipeline             awscodepipeline.Pipeline
	invalidationFunction awslambda.Function
}

// buildContext carries the handles produced by one assembly from phase to
// phase. It is created per NewCicdSpaWebsite call and discarded afterwards.
type buildContext struct {
	scope  constructs.Construct
	props  *CicdSpaWebsiteProps
	logger observability.StructuredLogger

	// servedByDistribution is the single content-bucket access decision:
	// private behind CloudFront, or public website hosting.
	servedByDistribution bool

	hostedZone awsroute53.IHostedZone

	artifactBucket       awss3.Bucket
	websiteBucket        awss3.Bucket
	originIdentity       awscloudfront.OriginAccessIdentity
	certificate          awscertificatemanager.ICertificate
	distribution         awscloudfront.Distribution
	record               awsroute53.RecordSet
	pipeline             awscodepipeline.Pipeline
	invalidationFunction awslambda.Function
}

// NewCicdSpaWebsite declares the storage, distribution, DNS and pipeline
// resources for a single-page site under a new construct named id.
//
// Props are checked before anything is added to scope, so an error leaves
// the construct tree untouched.
func NewCicdSpaWebsite(scope constructs.Construct, id string, props *CicdSpaWebsiteProps) (*CicdSpaWebsite, error) {
	if err := validateProps(props); err != nil {
		return nil, err
	}

	self := constructs.NewConstruct(scope, jsii.String(id))
	ctx := &buildContext{
		scope:                self,
		props:                props,
		logger:               observability.OrNoOp(props.Logger).WithField("site", props.URL),
		servedByDistribution: props.Certificate.Requested(),
	}

	ctx.logger.Debug("assembling site", map[string]any{
		"certificate": props.Certificate.String(),
		"build_spec":  props.BuildSpec.String(),
		"dns":         props.HostedZone != nil,
	})

	ctx.storagePhase()
	ctx.distributionPhase()
	ctx.dnsPhase()
	ctx.pipelinePhase()
	ctx.outputs()

	return &CicdSpaWebsite{
		Construct:            self,
		url:                  props.URL,
		artifactBucket:       ctx.artifactBucket,
		websiteBucket:        ctx.websiteBucket,
		originIdentity:       ctx.originIdentity,
		certificate:          ctx.certificate,
		distribution:         ctx.distribution,
		record:               ctx.record,
		pipeline:             ctx.pipeline,
		invalidationFunction: ctx.invalidationFunction,
	}, nil
}

func validateProps(props *CicdSpaWebsiteProps) error {
	if props == nil {
		return invalidProps(errorMessageNilProps)
	}
	if props.Certificate.Generates() && props.HostedZone == nil {
		return ErrHostedZoneRequired
	}
	return nil
}

// importHostedZone returns the zone named by props, importing it on first use.
func (c *buildContext) importHostedZone() awsroute53.IHostedZone {
	if c.hostedZone == nil {
		c.hostedZone = awsroute53.HostedZone_FromHostedZoneAttributes(c.scope, jsii.String("hosted-zone"), &awsroute53.HostedZoneAttributes{
			HostedZoneId: jsii.String(c.props.HostedZone.HostedZoneID),
			ZoneName:     jsii.String(c.props.HostedZone.ZoneName),
		})
	}
	return c.hostedZone
}

func (c *buildContext) outputs() {
	awscdk.NewCfnOutput(c.scope, jsii.String("WebsiteURL"), &awscdk.CfnOutputProps{
		Value: jsii.String(c.siteURL()),
	})
	awscdk.NewCfnOutput(c.scope, jsii.String("WebsiteBucketName"), &awscdk.CfnOutputProps{
		Value: c.websiteBucket.BucketName(),
	})
	awscdk.NewCfnOutput(c.scope, jsii.String("PipelineName"), &awscdk.CfnOutputProps{
		Value: c.pipeline.PipelineName(),
	})
	if c.distribution != nil {
		awscdk.NewCfnOutput(c.scope, jsii.String("DistributionId"), &awscdk.CfnOutputProps{
			Value: c.distribution.DistributionId(),
		})
	}
}

func (c *buildContext) siteURL() string {
	if c.servedByDistribution {
		return "https://" + c.props.URL
	}
	return "http://" + c.props.URL
}

// URL returns the domain the site is served on.
func (w *CicdSpaWebsite) URL() string { return w.url }

func (w *CicdSpaWebsite) ArtifactBucket() awss3.Bucket { return w.artifactBucket }

func (w *CicdSpaWebsite) WebsiteBucket() awss3.Bucket { return w.websiteBucket }

// OriginAccessIdentity is nil when the site is served from the bucket website.
func (w *CicdSpaWebsite) OriginAccessIdentity() awscloudfront.OriginAccessIdentity {
	return w.originIdentity
}

// Certificate is nil unless a certificate was generated or supplied.
func (w *CicdSpaWebsite) Certificate() awscertificatemanager.ICertificate { return w.certificate }

// Distribution is nil when no certificate was requested.
func (w *CicdSpaWebsite) Distribution() awscloudfront.Distribution { return w.distribution }

// Record is nil when no hosted zone was supplied.
func (w *CicdSpaWebsite) Record() awsroute53.RecordSet { return w.record }

func (w *CicdSpaWebsite) Pipeline() awscodepipeline.Pipeline { return w.pipeline }

// InvalidationFunction is nil when there is no distribution to invalidate.
func (w *CicdSpaWebsite) InvalidationFunction() awslambda.Function { return w.invalidationFunction }
