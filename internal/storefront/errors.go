package storefront

import "github.com/pkg/errors"

// ValidationError a user-facing rejection; no state was changed
type ValidationError struct {
	Code string
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func newValidation(code, msg string) error {
	return &ValidationError{Code: code, Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var (
	ErrEmptyCart       = newValidation("EMPTY_CART", "cart is empty")
	ErrInvalidShipping = newValidation("INVALID_SHIPPING", "shipping method must be sea or air")
	ErrInvalidStatus   = newValidation("INVALID_STATUS", "status must be new or contacted")
	ErrInvalidLanguage = newValidation("INVALID_LANGUAGE", "language must be es or en")
	ErrOrderNotFound   = errors.New("order not found")
)
