package shared

import (
	"fmt"

	"github.com/sportportal/portal/internal/platform/httpx"
)

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = fmt.Errorf("%w: incorrect email or password", httpx.ErrUnauthorized)
	// ErrInactiveUser is returned for accounts that were deactivated.
	ErrInactiveUser = fmt.Errorf("%w: inactive user", httpx.ErrValidation)
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = fmt.Errorf("%w: csrf token missing", httpx.ErrForbidden)
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = fmt.Errorf("%w: csrf token mismatch", httpx.ErrForbidden)
)
