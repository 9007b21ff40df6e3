package pageobject

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tebeka/selenium"
)

// ErrSessionClosed is returned when a session is used after Quit.
var ErrSessionClosed = errors.New("session already closed")

// ElementNotFoundError is returned when a locate finds no element, or finds
// one that went stale before it could be wrapped.
type ElementNotFoundError struct {
	Locator Locator
	// Err is the backend error, if any.
	Err error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no element matches %v", e.Locator)
	}
	return fmt.Sprintf("no element matches %v or it has changed: %v", e.Locator, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// WaitTimeoutError is returned when an explicit wait expires.
type WaitTimeoutError struct {
	// Locator is the element waited on. It is zero for waits that are not
	// tied to a locator.
	Locator Locator
	// Condition names the predicate, e.g. "visible".
	Condition string
	Timeout   time.Duration
	// Last is the last error seen while polling, if any.
	Last error
}

func (e *WaitTimeoutError) Error() string {
	var b strings.Builder
	if !e.Locator.IsZero() {
		fmt.Fprintf(&b, "%v element ", e.Locator)
	}
	fmt.Fprintf(&b, "not %s after %v", e.Condition, e.Timeout)
	if e.Last != nil {
		fmt.Fprintf(&b, ": %v", e.Last)
	}
	return b.String()
}

func (e *WaitTimeoutError) Unwrap() error { return e.Last }

// Backend error codes, as reported by WebDriver servers.
const (
	noSuchElement  = "no such element"
	staleReference = "stale element reference"
)

// IsNotFound reports whether err is an ElementNotFoundError.
func IsNotFound(err error) bool {
	var nf *ElementNotFoundError
	return errors.As(err, &nf)
}

// hasBackendError reports whether err carries the WebDriver error code. Only
// errors that are not *selenium.Error fall back to matching the message.
func hasBackendError(err error, code string) bool {
	if err == nil {
		return false
	}
	var se *selenium.Error
	if errors.As(err, &se) {
		return se.Err == code
	}
	return strings.Contains(err.Error(), code)
}

func isMissing(err error) bool {
	return hasBackendError(err, noSuchElement)
}

// IsStale reports whether err is a backend "stale element reference"
// failure, raised when a handle no longer refers to a live node.
func IsStale(err error) bool {
	return hasBackendError(err, staleReference)
}

// IsTimeout reports whether err is a WaitTimeoutError.
func IsTimeout(err error) bool {
	var te *WaitTimeoutError
	return errors.As(err, &te)
}
