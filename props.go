package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"

	"github.com/theory-cloud/spadeploy/pkg/observability"
)

// DefaultBranch is the branch pulled when GitHubSource.Branch is empty.
const DefaultBranch = "master"

// DefaultInvalidationAssetPath is the asset directory holding the compiled
// cmd/invalidate-cache binary (named bootstrap) when InvalidationCode is nil.
const DefaultInvalidationAssetPath = "build/invalidate-cache"

// DefaultInvalidationPaths is the path set invalidated after every deploy.
var DefaultInvalidationPaths = []string{"/*"}

// GitHubSource identifies the repository the pipeline pulls from.
type GitHubSource struct {
	Owner string
	Repo  string
	// Default: "master".
	Branch string
	// OauthToken is a secret reference; it is never resolved at synth time.
	OauthToken awscdk.SecretValue
}

// HostedZoneRef names an existing Route 53 hosted zone.
type HostedZoneRef struct {
	HostedZoneID string
	ZoneName     string
}

// CicdSpaWebsiteProps configures NewCicdSpaWebsite.
type CicdSpaWebsiteProps struct {
	// URL is the site's domain name, e.g. "demo.example.com". It is also the
	// website bucket name.
	URL string
	// GitHubSource is the repository built and deployed by the pipeline.
	GitHubSource GitHubSource
	// BuildSpec selects the CodeBuild spec.
	// Default: DefaultBuildSpec().
	BuildSpec BuildSpecOption
	// Certificate selects whether the site is fronted by CloudFront.
	// Default: NoCertificate().
	Certificate CertificateOption
	// HostedZone, when set, receives an A alias record for the site. It is
	// required by GenerateCertificate.
	HostedZone *HostedZoneRef

	// InvalidationCode is the code of the cache invalidation function.
	// Default: awslambda.Code_FromAsset(DefaultInvalidationAssetPath).
	InvalidationCode awslambda.Code
	// InvalidationPaths are passed to the invalidation function with the
	// distribution id.
	// Default: DefaultInvalidationPaths.
	InvalidationPaths []string
	// BuildEnvironment overrides the CodeBuild environment.
	// Default: standard 7.0 image, small compute, privileged.
	BuildEnvironment *awscodebuild.BuildEnvironment
	// NotificationTopic receives invalidation handler errors.
	NotificationTopic awssns.ITopic

	// Logger receives debug entries describing assembly decisions.
	Logger observability.StructuredLogger
}

func (p *CicdSpaWebsiteProps) branch() string {
	if p.GitHubSource.Branch == "" {
		return DefaultBranch
	}
	return p.GitHubSource.Branch
}

func (p *CicdSpaWebsiteProps) invalidationPaths() []string {
	if len(p.InvalidationPaths) == 0 {
		return DefaultInvalidationPaths
	}
	return p.InvalidationPaths
}
