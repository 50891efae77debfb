package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
)

type certificateKind int

const (
	certificateNone certificateKind = iota
	certificateGenerate
	certificateExisting
)

// CertificateOption selects how the site is fronted with TLS.
//
// The zero value is NoCertificate: the site is served straight from the S3
// website endpoint and no distribution is created.
type CertificateOption struct {
	kind     certificateKind
	existing awscertificatemanager.ICertificate
}

// NoCertificate serves the site from the bucket website endpoint.
func NoCertificate() CertificateOption {
	return CertificateOption{kind: certificateNone}
}

// GenerateCertificate requests a DNS-validated ACM certificate for the site's
// domain. The hosted zone must be supplied.
func GenerateCertificate() CertificateOption {
	return CertificateOption{kind: certificateGenerate}
}

// ExistingCertificate fronts the site with a certificate managed elsewhere.
// A nil certificate is treated as NoCertificate.
func ExistingCertificate(certificate awscertificatemanager.ICertificate) CertificateOption {
	if certificate == nil {
		return NoCertificate()
	}
	return CertificateOption{kind: certificateExisting, existing: certificate}
}

// CertificateFlag maps the boolean form: true generates, false disables.
func CertificateFlag(generate bool) CertificateOption {
	if generate {
		return GenerateCertificate()
	}
	return NoCertificate()
}

// Requested reports whether the site is served through a distribution.
func (c CertificateOption) Requested() bool {
	return c.kind != certificateNone
}

// Generates reports whether a certificate resource will be declared.
func (c CertificateOption) Generates() bool {
	return c.kind == certificateGenerate
}

// Existing returns the supplied certificate, if any.
func (c CertificateOption) Existing() (awscertificatemanager.ICertificate, bool) {
	return c.existing, c.kind == certificateExisting
}

func (c CertificateOption) String() string {
	switch c.kind {
	case certificateGenerate:
		return "generate"
	case certificateExisting:
		return "existing"
	default:
		return "none"
	}
}
