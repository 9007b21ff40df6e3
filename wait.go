package pageobject

import (
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// Default wait settings.
const (
	DefaultTimeout        = 45 * time.Second
	DefaultElementTimeout = 20 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
)

// waiter runs explicit waits through the driver's polling loop.
type waiter struct {
	driver   selenium.WebDriver
	timeout  time.Duration
	interval time.Duration
	// ignore selects predicate errors that mean "not yet" rather than
	// failure.
	ignore func(error) bool
}

// until evaluates fn right away and then every interval. It returns nil once
// fn reports true, fn's error if it fails with an error that is not ignored,
// and a WaitTimeoutError naming loc and condition once the timeout elapses.
func (w waiter) until(loc Locator, condition string, fn func() (bool, error)) error {
	start := time.Now()
	var last, failed error
	err := w.driver.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		ok, err := fn()
		switch {
		case err != nil && (w.ignore == nil || !w.ignore(err)):
			failed = err
			return false, err
		case err != nil:
			last = err
			return false, nil
		}
		return ok, nil
	}, w.timeout, w.interval)
	switch {
	case failed != nil:
		return failed
	case err != nil:
		// The driver only reports that time ran out.
		return &WaitTimeoutError{Locator: loc, Condition: condition, Timeout: w.timeout, Last: last}
	}
	glog.V(1).Infof("%v %s after %v", loc, condition, time.Since(start))
	return nil
}
