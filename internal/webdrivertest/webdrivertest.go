// Package webdrivertest provides in-memory implementations of
// selenium.WebDriver and selenium.WebElement for exercising code that drives
// a browser without starting one.
//
// Only the methods the harness uses are implemented. Anything else reaches
// the nil embedded interface and panics, which makes an unexpected call
// visible in the test that made it.
package webdrivertest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tebeka/selenium"
)

// ErrStaleElement is the error a WebDriver server reports for a handle to a
// node that left the document.
var ErrStaleElement = &selenium.Error{
	Err:     "stale element reference",
	Message: "element is not attached to the page document",
}

func noSuchElement(by, value string) error {
	return &selenium.Error{
		Err:     "no such element",
		Message: fmt.Sprintf("Unable to locate element: %s=%s", by, value),
	}
}

// SessionID is the session identifier reported by every Driver.
const SessionID = "fake-session"

type key struct {
	by, value string
}

// Script is a recorded ExecuteScript call.
type Script struct {
	Code string
	Args []interface{}
}

// Driver is a fake selenium.WebDriver backed by a static element tree.
type Driver struct {
	selenium.WebDriver

	// Calls records JSON-wire input commands, and element moves, in order.
	Calls []string
	// Scripts records ExecuteScript calls.
	Scripts      []Script
	ScriptResult interface{}
	ScriptErr    error

	// FindErr, if set, is returned by FindElement and FindElements.
	FindErr error

	URL       string
	PageTitle string
	Quits     int
	QuitErr   error

	// Waits counts the waits run through the driver.
	Waits int

	elements map[key][]*Element
}

// New returns an empty page.
func New() *Driver {
	return &Driver{elements: make(map[key][]*Element)}
}

// Add makes els findable at the top level of the page with (by, value).
func (d *Driver) Add(by, value string, els ...*Element) *Driver {
	for _, el := range els {
		el.adopt(d)
	}
	k := key{by, value}
	d.elements[k] = append(d.elements[k], els...)
	return d
}

func (d *Driver) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// FindElement returns the first element registered with (by, value).
func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	if d.FindErr != nil {
		return nil, d.FindErr
	}
	els := d.elements[key{by, value}]
	if len(els) == 0 {
		return nil, noSuchElement(by, value)
	}
	return els[0], nil
}

// FindElements returns every element registered with (by, value).
func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	if d.FindErr != nil {
		return nil, d.FindErr
	}
	return toWebElements(d.elements[key{by, value}]), nil
}

// ExecuteScript records the call and returns ScriptResult and ScriptErr.
func (d *Driver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	d.Scripts = append(d.Scripts, Script{Code: script, Args: args})
	return d.ScriptResult, d.ScriptErr
}

// WaitWithTimeoutAndInterval polls condition the way the remote client
// does: it evaluates it right away, then every interval until it holds,
// fails, or more than timeout has passed.
func (d *Driver) WaitWithTimeoutAndInterval(condition selenium.Condition, timeout, interval time.Duration) error {
	d.Waits++
	start := time.Now()
	for {
		done, err := condition(d)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if elapsed := time.Since(start); elapsed > timeout {
			return fmt.Errorf("timeout after %v", elapsed)
		}
		time.Sleep(interval)
	}
}

// WaitWithTimeout waits with selenium.DefaultWaitInterval.
func (d *Driver) WaitWithTimeout(condition selenium.Condition, timeout time.Duration) error {
	return d.WaitWithTimeoutAndInterval(condition, timeout, selenium.DefaultWaitInterval)
}

// Wait waits with the selenium defaults.
func (d *Driver) Wait(condition selenium.Condition) error {
	return d.WaitWithTimeoutAndInterval(condition, selenium.DefaultWaitTimeout, selenium.DefaultWaitInterval)
}

// Get records url as the current URL.
func (d *Driver) Get(url string) error {
	d.URL = url
	return nil
}

// CurrentURL returns the last URL passed to Get.
func (d *Driver) CurrentURL() (string, error) {
	return d.URL, nil
}

// Title returns PageTitle.
func (d *Driver) Title() (string, error) {
	return d.PageTitle, nil
}

// SessionID returns SessionID.
func (d *Driver) SessionID() string {
	return SessionID
}

// Quit counts the call and returns QuitErr.
func (d *Driver) Quit() error {
	d.Quits++
	return d.QuitErr
}

// Click records "click <button>".
func (d *Driver) Click(button int) error {
	d.record("click %d", button)
	return nil
}

// DoubleClick records "doubleclick".
func (d *Driver) DoubleClick() error {
	d.record("doubleclick")
	return nil
}

// ButtonDown records "buttondown".
func (d *Driver) ButtonDown() error {
	d.record("buttondown")
	return nil
}

// ButtonUp records "buttonup".
func (d *Driver) ButtonUp() error {
	d.record("buttonup")
	return nil
}

// KeyDown records "keydown <keys>".
func (d *Driver) KeyDown(keys string) error {
	d.record("keydown %q", keys)
	return nil
}

// KeyUp records "keyup <keys>".
func (d *Driver) KeyUp(keys string) error {
	d.record("keyup %q", keys)
	return nil
}

// KeyPress is one recorded SendKeys call.
type KeyPress struct {
	Text string
	At   time.Time
}

// Element is a fake selenium.WebElement.
type Element struct {
	selenium.WebElement

	ID         string
	Tag        string
	TextValue  string
	Attributes map[string]string
	Width      int
	Height     int

	// Hidden and Disabled are the static state. A non-zero VisibleAt or
	// EnabledAt overrides them: the element turns visible (enabled) at that
	// instant.
	Hidden    bool
	VisibleAt time.Time
	Disabled  bool
	EnabledAt time.Time

	// Stale makes every call fail with ErrStaleElement.
	Stale bool

	Clicks  int
	Submits int
	Clears  int
	Keys    []KeyPress

	children map[key][]*Element
	driver   *Driver
}

// NewElement returns a visible, enabled element.
func NewElement(id string) *Element {
	return &Element{ID: id, Width: 100, Height: 20, children: make(map[key][]*Element)}
}

// Add makes children findable below e with (by, value).
func (e *Element) Add(by, value string, children ...*Element) *Element {
	if e.children == nil {
		e.children = make(map[key][]*Element)
	}
	for _, c := range children {
		c.adopt(e.driver)
	}
	k := key{by, value}
	e.children[k] = append(e.children[k], children...)
	return e
}

func (e *Element) adopt(d *Driver) {
	if d == nil {
		return
	}
	e.driver = d
	for _, cs := range e.children {
		for _, c := range cs {
			c.adopt(d)
		}
	}
}

func (e *Element) check() error {
	if e.Stale {
		return ErrStaleElement
	}
	return nil
}

// Click counts the click.
func (e *Element) Click() error {
	if err := e.check(); err != nil {
		return err
	}
	e.Clicks++
	return nil
}

// SendKeys records keys and the time they were sent.
func (e *Element) SendKeys(keys string) error {
	if err := e.check(); err != nil {
		return err
	}
	e.Keys = append(e.Keys, KeyPress{Text: keys, At: time.Now()})
	return nil
}

// Submit counts the call.
func (e *Element) Submit() error {
	if err := e.check(); err != nil {
		return err
	}
	e.Submits++
	return nil
}

// Clear counts the call.
func (e *Element) Clear() error {
	if err := e.check(); err != nil {
		return err
	}
	e.Clears++
	return nil
}

// MoveTo records "moveto <id> <x>,<y>" on the owning driver.
func (e *Element) MoveTo(x, y int) error {
	if err := e.check(); err != nil {
		return err
	}
	if e.driver != nil {
		e.driver.record("moveto %s %d,%d", e.ID, x, y)
	}
	return nil
}

// FindElement returns the first child registered with (by, value).
func (e *Element) FindElement(by, value string) (selenium.WebElement, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	cs := e.children[key{by, value}]
	if len(cs) == 0 {
		return nil, noSuchElement(by, value)
	}
	return cs[0], nil
}

// FindElements returns every child registered with (by, value).
func (e *Element) FindElements(by, value string) ([]selenium.WebElement, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return toWebElements(e.children[key{by, value}]), nil
}

// TagName returns Tag.
func (e *Element) TagName() (string, error) {
	return e.Tag, e.check()
}

// Text returns TextValue.
func (e *Element) Text() (string, error) {
	return e.TextValue, e.check()
}

// GetAttribute returns the named entry of Attributes.
func (e *Element) GetAttribute(name string) (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	v, ok := e.Attributes[name]
	if !ok {
		return "", fmt.Errorf("nil return value")
	}
	return v, nil
}

// IsDisplayed reports the visibility state.
func (e *Element) IsDisplayed() (bool, error) {
	if err := e.check(); err != nil {
		return false, err
	}
	return state(!e.Hidden, e.VisibleAt), nil
}

// IsEnabled reports the enabled state.
func (e *Element) IsEnabled() (bool, error) {
	if err := e.check(); err != nil {
		return false, err
	}
	return state(!e.Disabled, e.EnabledAt), nil
}

func state(static bool, at time.Time) bool {
	if at.IsZero() {
		return static
	}
	return !time.Now().Before(at)
}

// Size returns Width and Height.
func (e *Element) Size() (*selenium.Size, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return &selenium.Size{Width: e.Width, Height: e.Height}, nil
}

// MarshalJSON encodes the element as a WebDriver element reference.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"ELEMENT":                             e.ID,
		"element-6066-11e4-a52e-4f735466cecf": e.ID,
	})
}

func toWebElements(els []*Element) []selenium.WebElement {
	if len(els) == 0 {
		return nil
	}
	out := make([]selenium.WebElement, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}
