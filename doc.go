// Package spadeploy declares the AWS infrastructure that continuously
// deploys a single-page web application.
//
// NewCicdSpaWebsite assembles, in order:
//
//   - an artifact bucket and a website bucket named after the site's domain
//   - optionally a certificate and a CloudFront distribution in front of the
//     now private website bucket
//   - optionally an A alias record in an existing hosted zone
//   - a GitHub -> CodeBuild -> S3 pipeline that ends with a cache
//     invalidation when a distribution exists
//
// Assembly is synth-time only. The runtime half, the Lambda that performs the
// invalidation, lives in pkg/invalidation and cmd/invalidate-cache.
package spadeploy
