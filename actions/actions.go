package actions

import (
	"time"
	"unicode/utf8"

	"github.com/tebeka/selenium"
)

// Chain records a gesture. Each method appends ticks and returns the chain;
// nothing reaches the browser until Perform.
//
// Methods that take an element accept nil, meaning "wherever the pointer
// currently is".
type Chain struct {
	performer Performer
	actions   []Action
}

// New returns an empty chain that performs through p.
func New(p Performer) *Chain {
	return &Chain{performer: p}
}

// Actions returns the recorded ticks.
func (c *Chain) Actions() []Action {
	return append([]Action(nil), c.actions...)
}

// Reset drops the recorded ticks.
func (c *Chain) Reset() *Chain {
	c.actions = c.actions[:0]
	return c
}

// Perform sends the recorded ticks to the performer and resets the chain.
// Performing an empty chain is a no-op.
func (c *Chain) Perform() error {
	if len(c.actions) == 0 {
		return nil
	}
	err := c.performer.Perform(c.Actions())
	c.Reset()
	return err
}

func (c *Chain) add(a ...Action) *Chain {
	c.actions = append(c.actions, a...)
	return c
}

// MoveToElement moves the pointer to the center of el.
func (c *Chain) MoveToElement(el selenium.WebElement) *Chain {
	return c.MoveToElementOffset(el, 0, 0)
}

// MoveToElementOffset moves the pointer to the center of el shifted by
// (x, y).
func (c *Chain) MoveToElementOffset(el selenium.WebElement, x, y int) *Chain {
	return c.add(Action{Kind: PointerMove, Element: el, X: x, Y: y})
}

// MoveByOffset moves the pointer by (x, y) from its current position.
func (c *Chain) MoveByOffset(x, y int) *Chain {
	return c.add(Action{Kind: PointerMove, Origin: OriginPointer, X: x, Y: y})
}

// MoveToLocation moves the pointer to (x, y) in viewport coordinates.
func (c *Chain) MoveToLocation(x, y int) *Chain {
	return c.add(Action{Kind: PointerMove, Origin: OriginViewport, X: x, Y: y})
}

func (c *Chain) moveIfElement(el selenium.WebElement) {
	if el != nil {
		c.MoveToElement(el)
	}
}

// Click presses and releases the left button.
func (c *Chain) Click(el selenium.WebElement) *Chain {
	c.moveIfElement(el)
	return c.add(
		Action{Kind: PointerDown, Button: LeftButton},
		Action{Kind: PointerUp, Button: LeftButton},
	)
}

// ClickAndHold presses the left button without releasing it.
func (c *Chain) ClickAndHold(el selenium.WebElement) *Chain {
	c.moveIfElement(el)
	return c.add(Action{Kind: PointerDown, Button: LeftButton})
}

// ContextClick presses and releases the right button.
func (c *Chain) ContextClick(el selenium.WebElement) *Chain {
	c.moveIfElement(el)
	return c.add(
		Action{Kind: PointerDown, Button: RightButton},
		Action{Kind: PointerUp, Button: RightButton},
	)
}

// DoubleClick clicks the left button twice.
func (c *Chain) DoubleClick(el selenium.WebElement) *Chain {
	c.moveIfElement(el)
	c.Click(nil)
	return c.Click(nil)
}

// Release releases the left button.
func (c *Chain) Release(el selenium.WebElement) *Chain {
	c.moveIfElement(el)
	return c.add(Action{Kind: PointerUp, Button: LeftButton})
}

// DragAndDrop holds the left button on source and releases it on target.
func (c *Chain) DragAndDrop(source, target selenium.WebElement) *Chain {
	c.ClickAndHold(source)
	return c.Release(target)
}

// DragAndDropByOffset holds the left button on source, moves by (x, y) and
// releases.
func (c *Chain) DragAndDropByOffset(source selenium.WebElement, x, y int) *Chain {
	c.ClickAndHold(source)
	c.MoveByOffset(x, y)
	return c.Release(nil)
}

// KeyDown presses key. If el is not nil it is clicked first to give it
// focus.
func (c *Chain) KeyDown(key string, el selenium.WebElement) *Chain {
	if el != nil {
		c.Click(el)
	}
	return c.add(Action{Kind: KeyDown, Key: key})
}

// KeyUp releases key. If el is not nil it is clicked first to give it
// focus.
func (c *Chain) KeyUp(key string, el selenium.WebElement) *Chain {
	if el != nil {
		c.Click(el)
	}
	return c.add(Action{Kind: KeyUp, Key: key})
}

// SendKeys types text into whatever has focus, one key press per rune.
func (c *Chain) SendKeys(text string) *Chain {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		key := text[:size]
		if r == utf8.RuneError && size <= 1 {
			key = string(utf8.RuneError)
		}
		c.add(Action{Kind: KeyDown, Key: key}, Action{Kind: KeyUp, Key: key})
		text = text[size:]
	}
	return c
}

// SendKeysToElement clicks el and types text into it.
func (c *Chain) SendKeysToElement(el selenium.WebElement, text string) *Chain {
	c.Click(el)
	return c.SendKeys(text)
}

// Pause idles all devices for d.
func (c *Chain) Pause(d time.Duration) *Chain {
	return c.add(Action{Kind: Pause, Duration: d})
}
