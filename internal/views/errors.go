package views

import (
	"errors"

	"github.com/aretw0/grove/pkg/tree"
)

// ErrClosed is returned by Next once the view's subscription has ended.
var ErrClosed = errors.New("view closed")

// ValidationError rejects a submission whose required field is empty after
// trimming. No backend call is made. Frontends drop it silently.
type ValidationError = tree.ValidationError

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return tree.IsValidation(err)
}
