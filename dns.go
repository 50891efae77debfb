package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/spadeploy/pkg/naming"
)

// dnsPhase declares one A alias record for the site when a hosted zone is
// supplied, targeting the distribution if there is one.
func (c *buildContext) dnsPhase() {
	if c.props.HostedZone == nil {
		return
	}

	var target awsroute53.RecordTarget
	if c.distribution != nil {
		target = awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(c.distribution))
	} else {
		target = awsroute53.RecordTarget_FromAlias(awsroute53targets.NewBucketWebsiteTarget(c.websiteBucket, nil))
	}

	recordName := naming.RecordName(c.props.URL)
	c.record = awsroute53.NewRecordSet(c.scope, jsii.String("website-dns"), &awsroute53.RecordSetProps{
		Zone:       c.importHostedZone(),
		RecordName: jsii.String(recordName),
		RecordType: awsroute53.RecordType_A,
		Target:     target,
	})
	c.logger.Debug("dns record declared", map[string]any{
		"record":       recordName,
		"distribution": c.distribution != nil,
	})
}
