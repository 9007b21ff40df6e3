package pageobject

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// Element decorates a native element handle with waits, composite gestures
// and fluent chaining.
//
// The handle is embedded, so every selenium.WebElement method that Element
// does not redefine (Text, TagName, IsDisplayed, GetAttribute, Size, ...) is
// forwarded to it unchanged. That includes the raw FindElement, which
// returns an unwrapped handle; use FindChild to get an Element. Operations
// that Element redefines return the receiver, or a new Element for a newly
// located handle, so a chain never yields a raw handle.
type Element struct {
	selenium.WebElement

	session *Session
	locator Locator
}

var sleep = time.Sleep

func newElement(s *Session, el selenium.WebElement, loc Locator) *Element {
	return &Element{WebElement: el, session: s, locator: loc}
}

func wrapAll(s *Session, els []selenium.WebElement, loc Locator) []*Element {
	out := make([]*Element, len(els))
	for i, el := range els {
		out[i] = newElement(s, el, loc)
	}
	return out
}

// Unwrap returns the native handle.
func (e *Element) Unwrap() selenium.WebElement { return e.WebElement }

// Session returns the session the element was found through.
func (e *Element) Session() *Session { return e.session }

// Locator returns the locator the element was found by. Elements obtained
// through Derive have none.
func (e *Element) Locator() (Locator, bool) {
	return e.locator, !e.locator.IsZero()
}

func (e *Element) String() string {
	if e.locator.IsZero() {
		return "element"
	}
	return "element " + e.locator.String()
}

// Do forwards a call with no meaningful result to the native handle and
// returns the receiver.
func (e *Element) Do(fn func(selenium.WebElement) error) (*Element, error) {
	if err := fn(e.WebElement); err != nil {
		return nil, err
	}
	return e, nil
}

// Derive forwards a call that yields another element to the native handle
// and wraps the result.
func (e *Element) Derive(fn func(selenium.WebElement) (selenium.WebElement, error)) (*Element, error) {
	el, err := fn(e.WebElement)
	if err != nil {
		return nil, err
	}
	return newElement(e.session, el, Locator{}), nil
}

// FindChild returns the first descendant matching loc, tagged with loc.
func (e *Element) FindChild(loc Locator) (*Element, error) {
	el, err := e.WebElement.FindElement(loc.By, loc.Value)
	if err != nil {
		if isMissing(err) {
			return nil, &ElementNotFoundError{Locator: loc, Err: err}
		}
		return nil, fmt.Errorf("%v: find child %v: %w", e, loc, err)
	}
	return newElement(e.session, el, loc), nil
}

// FindChildren returns every descendant matching loc, in document order,
// each tagged with loc. No match is not an error.
func (e *Element) FindChildren(loc Locator) ([]*Element, error) {
	els, err := e.WebElement.FindElements(loc.By, loc.Value)
	if err != nil {
		return nil, fmt.Errorf("%v: find children %v: %w", e, loc, err)
	}
	return wrapAll(e.session, els, loc), nil
}

// FindElements is FindChildren with a strategy and expression.
func (e *Element) FindElements(by, value string) ([]*Element, error) {
	return e.FindChildren(Locator{By: by, Value: value})
}

func (e *Element) timeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return e.session.elementTimeout
}

func (e *Element) waitUntil(condition string, t time.Duration, fn func() (bool, error)) (*Element, error) {
	if err := e.session.waiter(e.timeout(t)).until(e.locator, condition, fn); err != nil {
		return nil, err
	}
	return e, nil
}

// WaitVisible blocks until the element is displayed or timeout elapses. A
// non-positive timeout means the session's element timeout.
func (e *Element) WaitVisible(timeout time.Duration) (*Element, error) {
	return e.waitUntil("visible", timeout, e.WebElement.IsDisplayed)
}

// WaitEnabled blocks until the element is enabled or timeout elapses.
func (e *Element) WaitEnabled(timeout time.Duration) (*Element, error) {
	return e.waitUntil("enabled", timeout, e.WebElement.IsEnabled)
}

// WaitClickable waits for visibility and then for enabledness, each with
// the full timeout.
func (e *Element) WaitClickable(timeout time.Duration) (*Element, error) {
	if _, err := e.WaitVisible(timeout); err != nil {
		return nil, err
	}
	return e.WaitEnabled(timeout)
}

// Click pauses for delay, if positive, and clicks the element.
func (e *Element) Click(delay time.Duration) (*Element, error) {
	if delay > 0 {
		sleep(delay)
	}
	glog.V(1).Infof("click %v", e)
	if err := e.WebElement.Click(); err != nil {
		return nil, fmt.Errorf("%v: click: %w", e, err)
	}
	return e, nil
}

// ScriptClick clicks the element from script, bypassing the pointer
// interception and visibility checks of a native click.
func (e *Element) ScriptClick() (*Element, error) {
	if _, err := e.session.ExecuteScript("arguments[0].click();", e); err != nil {
		return nil, fmt.Errorf("%v: script click: %w", e, err)
	}
	return e, nil
}

// ScrollIntoView scrolls the element into view, centered vertically if
// center is set and aligned to the top otherwise.
func (e *Element) ScrollIntoView(center bool) (*Element, error) {
	script := "arguments[0].scrollIntoView(true);"
	if center {
		script = "arguments[0].scrollIntoView({block: 'center'});"
	}
	if _, err := e.session.ExecuteScript(script, e); err != nil {
		return nil, fmt.Errorf("%v: scroll into view: %w", e, err)
	}
	return e, nil
}

// SendKeys types text into the element. With a positive delay the text is
// sent one character at a time with a pause between characters, so per-key
// handlers fire; otherwise it is sent at once.
func (e *Element) SendKeys(text string, delay time.Duration) (*Element, error) {
	if delay <= 0 {
		if err := e.WebElement.SendKeys(text); err != nil {
			return nil, fmt.Errorf("%v: send keys: %w", e, err)
		}
		return e, nil
	}
	for i, r := range []rune(text) {
		if i > 0 {
			sleep(delay)
		}
		if err := e.WebElement.SendKeys(string(r)); err != nil {
			return nil, fmt.Errorf("%v: send keys: %w", e, err)
		}
	}
	return e, nil
}

// Submit submits the form the element belongs to.
func (e *Element) Submit() (*Element, error) {
	return e.Do(selenium.WebElement.Submit)
}

// Clear clears the element's value.
func (e *Element) Clear() (*Element, error) {
	return e.Do(selenium.WebElement.Clear)
}
