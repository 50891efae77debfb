package naming

import "strings"

const (
	artifactBucketSuffix = "-artifacts"
	pipelineSuffix       = "-build-pipeline"
	stackSuffix          = "-cicd"
)

// Dashed replaces every "." in a domain name with "-".
//
// The input is not otherwise normalized: bucket names derived from it keep the
// caller's casing and characters, and S3 rejects invalid ones at deploy time.
func Dashed(domain string) string {
	return strings.ReplaceAll(domain, ".", "-")
}

// ArtifactBucketName returns the name of the private bucket that holds
// intermediate pipeline artifacts for domain, e.g. "www-example-com-artifacts".
func ArtifactBucketName(domain string) string {
	return Dashed(domain) + artifactBucketSuffix
}

// PipelineName returns the CodePipeline name for domain, e.g.
// "www-example-com-build-pipeline".
func PipelineName(domain string) string {
	return Dashed(domain) + pipelineSuffix
}

// StackName returns the default stack name used by the synth app.
func StackName(domain string) string {
	return Dashed(domain) + stackSuffix
}

// RecordName returns the first label of domain, used as the record name
// relative to the hosted zone ("www" for "www.example.com").
func RecordName(domain string) string {
	label, _, _ := strings.Cut(domain, ".")
	return label
}
