package pageobject

import (
	"time"

	"github.com/tebeka/selenium"
)

// Chain strings element operations together and keeps the first error.
// Once a step fails, the remaining steps are skipped.
//
//	err := s.Chain(pageobject.ID("submit")).WaitClickable(0).Click(0).Err()
type Chain struct {
	el  *Element
	err error
}

// Chain starts a fluent chain on e.
func (e *Element) Chain() *Chain {
	return &Chain{el: e}
}

// Element returns the element the chain ended on, or the first error.
func (c *Chain) Element() (*Element, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.el, nil
}

// Err returns the first error of the chain.
func (c *Chain) Err() error {
	return c.err
}

func (c *Chain) step(fn func(*Element) (*Element, error)) *Chain {
	if c.err != nil {
		return c
	}
	el, err := fn(c.el)
	if err != nil {
		c.err = err
		return c
	}
	c.el = el
	return c
}

// Then runs fn on the current element; fn may move the chain to another
// element by returning it.
func (c *Chain) Then(fn func(*Element) (*Element, error)) *Chain {
	return c.step(fn)
}

// FindChild moves the chain to the first descendant matching loc.
func (c *Chain) FindChild(loc Locator) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.FindChild(loc) })
}

// WaitVisible is Element.WaitVisible.
func (c *Chain) WaitVisible(timeout time.Duration) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.WaitVisible(timeout) })
}

// WaitEnabled is Element.WaitEnabled.
func (c *Chain) WaitEnabled(timeout time.Duration) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.WaitEnabled(timeout) })
}

// WaitClickable is Element.WaitClickable.
func (c *Chain) WaitClickable(timeout time.Duration) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.WaitClickable(timeout) })
}

// Click is Element.Click.
func (c *Chain) Click(delay time.Duration) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.Click(delay) })
}

// ScriptClick is Element.ScriptClick.
func (c *Chain) ScriptClick() *Chain {
	return c.step((*Element).ScriptClick)
}

// DoubleClick is Element.DoubleClick.
func (c *Chain) DoubleClick() *Chain {
	return c.step((*Element).DoubleClick)
}

// RightClick is Element.RightClick.
func (c *Chain) RightClick() *Chain {
	return c.step((*Element).RightClick)
}

// OffsetClick is Element.OffsetClick.
func (c *Chain) OffsetClick(dx, dy int) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.OffsetClick(dx, dy) })
}

// Slide is Element.Slide.
func (c *Chain) Slide(dx, dy int, fromCurrentPosition bool) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.Slide(dx, dy, fromCurrentPosition) })
}

// Focus is Element.Focus.
func (c *Chain) Focus() *Chain {
	return c.step((*Element).Focus)
}

// Hover is Element.Hover.
func (c *Chain) Hover() *Chain {
	return c.step((*Element).Hover)
}

// ScrollIntoView is Element.ScrollIntoView.
func (c *Chain) ScrollIntoView(center bool) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.ScrollIntoView(center) })
}

// SendKeys is Element.SendKeys.
func (c *Chain) SendKeys(text string, delay time.Duration) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.SendKeys(text, delay) })
}

// PressOrReleaseKey is Element.PressOrReleaseKey.
func (c *Chain) PressOrReleaseKey(dir KeyDirection, key string) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.PressOrReleaseKey(dir, key) })
}

// Submit is Element.Submit.
func (c *Chain) Submit() *Chain {
	return c.step((*Element).Submit)
}

// Clear is Element.Clear.
func (c *Chain) Clear() *Chain {
	return c.step((*Element).Clear)
}

// Do is Element.Do.
func (c *Chain) Do(fn func(selenium.WebElement) error) *Chain {
	return c.step(func(e *Element) (*Element, error) { return e.Do(fn) })
}
