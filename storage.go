package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/spadeploy/pkg/naming"
)

const indexDocument = "index.html"

// storagePhase declares the artifact bucket and the website bucket. The
// website bucket is either a public website or private behind an origin
// access identity, never both.
func (c *buildContext) storagePhase() {
	url := c.props.URL

	c.artifactBucket = awss3.NewBucket(c.scope, jsii.String("artifact-bucket"), &awss3.BucketProps{
		BucketName:        jsii.String(naming.ArtifactBucketName(url)),
		Encryption:        awss3.BucketEncryption_KMS_MANAGED,
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		PublicReadAccess:  jsii.Bool(false),
	})

	if c.servedByDistribution {
		c.websiteBucket = awss3.NewBucket(c.scope, jsii.String("website-bucket"), &awss3.BucketProps{
			BucketName:        jsii.String(url),
			BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
			PublicReadAccess:  jsii.Bool(false),
			ObjectOwnership:   awss3.ObjectOwnership_BUCKET_OWNER_PREFERRED,
		})
		c.originIdentity = awscloudfront.NewOriginAccessIdentity(c.scope, jsii.String("origin-access-identity"), &awscloudfront.OriginAccessIdentityProps{
			Comment: jsii.String("read access to " + url),
		})
		c.logger.Debug("website bucket is private", map[string]any{"bucket": url})
		return
	}

	// The deploy action writes objects with the public-read canned ACL, so
	// ACLs must stay enabled and unblocked.
	c.websiteBucket = awss3.NewBucket(c.scope, jsii.String("website-bucket"), &awss3.BucketProps{
		BucketName:           jsii.String(url),
		WebsiteIndexDocument: jsii.String(indexDocument),
		WebsiteErrorDocument: jsii.String(indexDocument),
		PublicReadAccess:     jsii.Bool(true),
		BlockPublicAccess: awss3.NewBlockPublicAccess(&awss3.BlockPublicAccessOptions{
			BlockPublicAcls:       jsii.Bool(false),
			BlockPublicPolicy:     jsii.Bool(false),
			IgnorePublicAcls:      jsii.Bool(false),
			RestrictPublicBuckets: jsii.Bool(false),
		}),
		ObjectOwnership: awss3.ObjectOwnership_OBJECT_WRITER,
	})
	c.logger.Debug("website bucket is public", map[string]any{"bucket": url})
}
