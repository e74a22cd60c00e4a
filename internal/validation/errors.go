package validation

import "errors"

var (
	ErrEmptyURL            = errors.New("url is required")
	ErrInvalidURLFormat    = errors.New("invalid url format")
	ErrUnsafeProtocol      = errors.New("url protocol not allowed")
	ErrURLTooLong          = errors.New("url exceeds maximum length")
	ErrPrivateIPNotAllowed = errors.New("private ip addresses not allowed")
)

// IsClientError reports whether err came from validating user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyURL) ||
		errors.Is(err, ErrInvalidURLFormat) ||
		errors.Is(err, ErrUnsafeProtocol) ||
		errors.Is(err, ErrURLTooLong) ||
		errors.Is(err, ErrPrivateIPNotAllowed)
}
