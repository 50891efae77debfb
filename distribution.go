package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/jsii-runtime-go"
)

const warningNoDNSRecord = "spadeploy:noDnsRecord"

// distributionPhase resolves the certificate and declares the CloudFront
// distribution. Binding the origin access identity adds the website bucket's
// only policy statement.
func (c *buildContext) distributionPhase() {
	if !c.servedByDistribution {
		return
	}
	url := c.props.URL

	if c.props.Certificate.Generates() {
		c.certificate = awscertificatemanager.NewCertificate(c.scope, jsii.String("certificate"), &awscertificatemanager.CertificateProps{
			DomainName: jsii.String(url),
			Validation: awscertificatemanager.CertificateValidation_FromDns(c.importHostedZone()),
		})
	} else {
		c.certificate, _ = c.props.Certificate.Existing()
	}

	origin := awscloudfrontorigins.S3BucketOrigin_WithOriginAccessIdentity(c.websiteBucket, &awscloudfrontorigins.S3BucketOriginWithOAIProps{
		OriginAccessIdentity: c.originIdentity,
	})

	c.distribution = awscloudfront.NewDistribution(c.scope, jsii.String("site-distribution"), &awscloudfront.DistributionProps{
		DomainNames:       jsii.Strings(url),
		Certificate:       c.certificate,
		DefaultRootObject: jsii.String(indexDocument),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               origin,
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		},
		ErrorResponses: &[]*awscloudfront.ErrorResponse{
			spaErrorResponse(403),
			spaErrorResponse(404),
		},
	})

	if c.props.HostedZone == nil {
		awscdk.Annotations_Of(c.scope).AddWarningV2(jsii.String(warningNoDNSRecord),
			jsii.String("no hosted zone was supplied: the distribution is created but no DNS record points "+url+" at it"))
	}
	c.logger.Debug("distribution declared", map[string]any{"certificate": c.props.Certificate.String()})
}

// spaErrorResponse serves index.html for status so client-side routes resolve.
func spaErrorResponse(status float64) *awscloudfront.ErrorResponse {
	return &awscloudfront.ErrorResponse{
		HttpStatus:         jsii.Number(status),
		ResponseHttpStatus: jsii.Number(200),
		ResponsePagePath:   jsii.String("/" + indexDocument),
	}
}
