package spadeploy

import "fmt"

// Error is a configuration error raised before any construct is declared.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so callers can
// match with errors.Is(err, ErrHostedZoneRequired).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// ErrHostedZoneRequired is returned when a certificate is to be generated but
// no hosted zone was supplied to validate it against.
var ErrHostedZoneRequired = &Error{Code: ErrorCodeHostedZoneRequired, Message: errorMessageHostedZoneRequired}

func invalidProps(message string) error {
	return &Error{Code: ErrorCodeInvalidProps, Message: message}
}
