package pageobject

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"

	"github.com/wanmail/pageobject/actions"
)

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the timeout of the session's explicit waits.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithElementTimeout sets the timeout used by element waits that are given
// a non-positive timeout.
func WithElementTimeout(d time.Duration) Option {
	return func(s *Session) { s.elementTimeout = d }
}

// WithPollInterval sets how often waits re-evaluate their predicate.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithActionDelay sets the pause page objects take before acting, to pace
// interactions like a person would.
func WithActionDelay(d time.Duration) Option {
	return func(s *Session) { s.actionDelay = d }
}

// WithPerformer sets how gestures reach the browser. The default replays
// them with JSON-wire commands on the session's driver.
func WithPerformer(p actions.Performer) Option {
	return func(s *Session) { s.performer = p }
}

// WithCloser registers a function to run after the browser has quit, e.g.
// to stop a local driver service.
func WithCloser(fn func() error) Option {
	return func(s *Session) { s.closer = fn }
}

// Session owns one browser session and hands out wrapped elements. A
// Session is not safe for concurrent use; run one per test.
type Session struct {
	driver         selenium.WebDriver
	performer      actions.Performer
	timeout        time.Duration
	elementTimeout time.Duration
	interval       time.Duration
	actionDelay    time.Duration
	closer         func() error
	closed         bool
}

// NewSession wraps wd.
func NewSession(wd selenium.WebDriver, opts ...Option) *Session {
	s := &Session{
		driver:         wd,
		timeout:        DefaultTimeout,
		elementTimeout: DefaultElementTimeout,
		interval:       DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.performer == nil {
		s.performer = actions.NewLegacy(wd)
	}
	return s
}

// Driver returns the underlying WebDriver.
func (s *Session) Driver() selenium.WebDriver { return s.driver }

// Timeout returns the timeout of the session's explicit waits.
func (s *Session) Timeout() time.Duration { return s.timeout }

// ActionDelay returns the configured pacing delay.
func (s *Session) ActionDelay() time.Duration { return s.actionDelay }

// ReleaseInput lets go of the keys and buttons that earlier gestures left
// pressed and resets the pointer.
func (s *Session) ReleaseInput() error {
	if s.closed {
		return ErrSessionClosed
	}
	return actions.Release(s.performer)
}

// Actions returns an empty gesture chain bound to the session.
func (s *Session) Actions() *actions.Chain {
	return actions.New(s.performer)
}

func (s *Session) waiter(timeout time.Duration) waiter {
	return waiter{driver: s.driver, timeout: timeout, interval: s.interval}
}

// Locate returns the first element matching loc. It does not wait: if
// nothing matches right now, it returns an *ElementNotFoundError.
func (s *Session) Locate(loc Locator) (*Element, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	glog.V(1).Infof("locate %v", loc)
	el, err := s.driver.FindElement(loc.By, loc.Value)
	if err != nil {
		if isMissing(err) || IsStale(err) {
			return nil, &ElementNotFoundError{Locator: loc, Err: err}
		}
		return nil, fmt.Errorf("locate %v: %w", loc, err)
	}
	return newElement(s, el, loc), nil
}

// LocateAll returns every element matching loc, in document order. No match
// is not an error.
func (s *Session) LocateAll(loc Locator) ([]*Element, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	glog.V(1).Infof("locate all %v", loc)
	els, err := s.driver.FindElements(loc.By, loc.Value)
	if err != nil {
		return nil, fmt.Errorf("locate all %v: %w", loc, err)
	}
	return wrapAll(s, els, loc), nil
}

// Chain starts a fluent chain on the element matching loc.
func (s *Session) Chain(loc Locator) *Chain {
	el, err := s.Locate(loc)
	return &Chain{el: el, err: err}
}

// Wait polls fn with the session timeout until it reports true.
func (s *Session) Wait(condition string, fn func() (bool, error)) error {
	return s.waiter(s.timeout).until(Locator{}, condition, fn)
}

// WaitVisible waits, with the session timeout, until an element matching
// loc exists and is displayed.
func (s *Session) WaitVisible(loc Locator) (*Element, error) {
	return s.waitFor(loc, "visible", func(el *Element) (bool, error) {
		return el.IsDisplayed()
	})
}

// WaitClickable waits, with the session timeout, until an element matching
// loc exists, is displayed and is enabled.
func (s *Session) WaitClickable(loc Locator) (*Element, error) {
	return s.waitFor(loc, "clickable", func(el *Element) (bool, error) {
		ok, err := el.IsDisplayed()
		if err != nil || !ok {
			return false, err
		}
		return el.IsEnabled()
	})
}

func (s *Session) waitFor(loc Locator, condition string, pred func(*Element) (bool, error)) (*Element, error) {
	var found *Element
	w := s.waiter(s.timeout)
	// The element may be replaced while the page settles, so both a missing
	// and a stale element mean "look again".
	w.ignore = func(err error) bool { return IsNotFound(err) || IsStale(err) }
	err := w.until(loc, condition, func() (bool, error) {
		el, err := s.Locate(loc)
		if err != nil {
			return false, err
		}
		ok, err := pred(el)
		if ok && err == nil {
			found = el
		}
		return ok, err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Open navigates to url.
func (s *Session) Open(url string) error {
	if s.closed {
		return ErrSessionClosed
	}
	glog.V(1).Infof("open %s", url)
	if err := s.driver.Get(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL() (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.driver.CurrentURL()
}

// Title returns the title of the current page.
func (s *Session) Title() (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.driver.Title()
}

// ExecuteScript runs script in the page. Wrapped elements among args are
// passed as their native handles.
func (s *Session) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	native := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*Element); ok {
			a = el.Unwrap()
		}
		native[i] = a
	}
	return s.driver.ExecuteScript(script, native)
}

// Quit ends the browser session and runs the closer. It must be called
// exactly once; later calls return ErrSessionClosed.
func (s *Session) Quit() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	err := s.driver.Quit()
	if err != nil {
		err = fmt.Errorf("quit: %w", err)
	}
	if s.closer != nil {
		if cerr := s.closer(); cerr != nil {
			if err != nil {
				glog.Warningf("Error closing session after failed quit: %v", cerr)
			} else {
				err = cerr
			}
		}
	}
	return err
}
