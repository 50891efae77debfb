package spadeploy

const (
	ErrorCodeHostedZoneRequired = "spadeploy.hosted_zone_required"
	ErrorCodeInvalidProps       = "spadeploy.invalid_props"
)

const (
	errorMessageHostedZoneRequired = "a hosted zone is required when a certificate is generated"
	errorMessageNilProps           = "props are required"
)
