package pageobject

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"

	"github.com/wanmail/pageobject/actions"
)

// KeyDirection selects a key press or a key release.
type KeyDirection int

// Key directions.
const (
	KeyPress KeyDirection = iota
	KeyRelease
)

func (d KeyDirection) String() string {
	if d == KeyRelease {
		return "up"
	}
	return "down"
}

func (e *Element) perform(what string, build func(c *actions.Chain)) (*Element, error) {
	if e.session.closed {
		return nil, ErrSessionClosed
	}
	c := e.session.Actions()
	build(c)
	glog.V(1).Infof("%s %v", what, e)
	if err := c.Perform(); err != nil {
		return nil, fmt.Errorf("%v: %s: %w", e, what, err)
	}
	return e, nil
}

// DoubleClick double-clicks the element.
func (e *Element) DoubleClick() (*Element, error) {
	return e.perform("double click", func(c *actions.Chain) {
		c.DoubleClick(e.WebElement)
	})
}

// RightClick opens the element's context menu.
func (e *Element) RightClick() (*Element, error) {
	return e.perform("right click", func(c *actions.Chain) {
		c.ContextClick(e.WebElement)
	})
}

// OffsetClick clicks at (dx, dy) from the element's center.
func (e *Element) OffsetClick(dx, dy int) (*Element, error) {
	return e.perform("offset click", func(c *actions.Chain) {
		c.MoveToElementOffset(e.WebElement, dx, dy).Click(nil)
	})
}

// Slide presses the left button, moves by (dx, dy) and releases. The press
// happens on the element, or wherever the pointer is if
// fromCurrentPosition is set.
func (e *Element) Slide(dx, dy int, fromCurrentPosition bool) (*Element, error) {
	return e.perform("slide", func(c *actions.Chain) {
		if fromCurrentPosition {
			c.ClickAndHold(nil)
		} else {
			c.ClickAndHold(e.WebElement)
		}
		c.MoveByOffset(dx, dy).Release(nil)
	})
}

// Hover moves the pointer onto the element.
func (e *Element) Hover() (*Element, error) {
	return e.perform("hover", func(c *actions.Chain) {
		c.MoveToElement(e.WebElement)
	})
}

// Focus moves the pointer onto the element and clicks it.
func (e *Element) Focus() (*Element, error) {
	if _, err := e.Hover(); err != nil {
		return nil, err
	}
	return e.Click(0)
}

// SendKeysViaActions types keys into whatever has focus, which is not
// necessarily this element.
func (e *Element) SendKeysViaActions(keys ...string) error {
	_, err := e.perform("send keys via actions", func(c *actions.Chain) {
		c.SendKeys(strings.Join(keys, ""))
	})
	return err
}

// ControlShortcut presses Control+char as one gesture.
func (e *Element) ControlShortcut(char string) error {
	_, err := e.perform("control shortcut", func(c *actions.Chain) {
		c.KeyDown(selenium.ControlKey, nil).
			KeyDown(char, nil).
			KeyUp(char, nil).
			KeyUp(selenium.ControlKey, nil)
	})
	return err
}

// PressOrReleaseKey sends a lone key-down or key-up, for gestures built over
// several calls. A pressed key stays pressed until it is released here or
// through Session.ReleaseInput. An empty key means Control.
func (e *Element) PressOrReleaseKey(dir KeyDirection, key string) (*Element, error) {
	if key == "" {
		key = selenium.ControlKey
	}
	return e.perform("key "+dir.String(), func(c *actions.Chain) {
		if dir == KeyRelease {
			c.KeyUp(key, nil)
		} else {
			c.KeyDown(key, nil)
		}
	})
}
