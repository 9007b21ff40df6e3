package actions

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// LegacyDriver is the part of selenium.WebDriver used to replay gestures
// with JSON-wire commands.
type LegacyDriver interface {
	Click(button int) error
	DoubleClick() error
	ButtonDown() error
	ButtonUp() error
	KeyDown(keys string) error
	KeyUp(keys string) error
}

var modifierKeys = map[string]bool{
	selenium.ShiftKey:   true,
	selenium.ControlKey: true,
	selenium.AltKey:     true,
	selenium.MetaKey:    true,
}

// Legacy replays gestures tick by tick for drivers that predate the W3C
// actions endpoint. It remembers the pointer position, the left button and
// the pressed keys between gestures, as a W3C server does, until Release.
// A Legacy is not safe for concurrent use.
type Legacy struct {
	driver LegacyDriver
	sleep  func(time.Duration)

	pointer pointer
	holding bool
	// modifiers are the modifier keys pressed and not yet released, in
	// press order.
	modifiers []string
	// typed are the other keys whose key-down was sent and whose key-up is
	// still to come.
	typed map[string]bool
}

// NewLegacy returns a performer that replays gestures on wd.
func NewLegacy(wd LegacyDriver) *Legacy {
	return &Legacy{driver: wd, sleep: time.Sleep, typed: make(map[string]bool)}
}

// pointer tracks where the last move left the pointer, as an offset from
// the top-left corner of the last target element.
type pointer struct {
	target selenium.WebElement
	x, y   int
}

// Perform replays actions. Moves relative to the pointer are resolved
// against the last element target, which may come from an earlier gesture;
// viewport moves are not supported. A JSON-wire key-down is a complete
// keystroke for keys other than modifiers, so their key-up is only checked
// against the earlier key-down. If the replay fails after pressing the left
// button, the button is released.
func (l *Legacy) Perform(actions []Action) error {
	wasHolding := l.holding
	for i := 0; i < len(actions); i++ {
		a := actions[i]
		glog.V(2).Infof("replaying %s", a.Kind)
		var err error
		switch a.Kind {
		case PointerMove:
			err = l.move(a)
		case PointerDown:
			var n int
			n, err = l.press(actions[i:])
			i += n - 1
		case PointerUp:
			if a.Button != LeftButton {
				err = fmt.Errorf("releasing button %d is not supported without W3C actions", a.Button)
				break
			}
			if err = l.driver.ButtonUp(); err == nil {
				l.holding = false
			}
		case KeyDown:
			err = l.keyDown(a.Key)
		case KeyUp:
			err = l.keyUp(a.Key)
		case Pause:
			if a.Duration > 0 {
				l.sleep(a.Duration)
			}
		}
		if err != nil {
			if l.holding && !wasHolding {
				if uerr := l.driver.ButtonUp(); uerr != nil {
					glog.Warningf("Error releasing the left button: %v", uerr)
				} else {
					l.holding = false
				}
			}
			return fmt.Errorf("replaying %s: %w", a.Kind, err)
		}
	}
	return nil
}

// Release lets go of the left button and of the pressed modifier keys, and
// forgets the pointer position.
func (l *Legacy) Release() error {
	var err error
	if l.holding {
		err = l.driver.ButtonUp()
		l.holding = false
	}
	for _, key := range l.modifiers {
		if kerr := l.driver.KeyUp(key); kerr != nil && err == nil {
			err = kerr
		}
	}
	l.modifiers = nil
	l.typed = make(map[string]bool)
	l.pointer = pointer{}
	if err != nil {
		return fmt.Errorf("releasing input: %w", err)
	}
	return nil
}

func (l *Legacy) keyDown(key string) error {
	if err := l.driver.KeyDown(key); err != nil {
		return err
	}
	if !modifierKeys[key] {
		l.typed[key] = true
		return nil
	}
	for _, k := range l.modifiers {
		if k == key {
			return nil
		}
	}
	l.modifiers = append(l.modifiers, key)
	return nil
}

func (l *Legacy) keyUp(key string) error {
	if l.typed[key] {
		delete(l.typed, key)
		return nil
	}
	if !modifierKeys[key] {
		return fmt.Errorf("releasing %q without a prior key-down is not supported without W3C actions", key)
	}
	if err := l.driver.KeyUp(key); err != nil {
		return err
	}
	for i, k := range l.modifiers {
		if k == key {
			l.modifiers = append(l.modifiers[:i], l.modifiers[i+1:]...)
			break
		}
	}
	return nil
}

func (l *Legacy) move(a Action) error {
	p := &l.pointer
	switch {
	case a.Element != nil:
		size, err := a.Element.Size()
		if err != nil {
			return err
		}
		p.target = a.Element
		p.x, p.y = size.Width/2+a.X, size.Height/2+a.Y
	case a.Origin == OriginPointer:
		if p.target == nil {
			return fmt.Errorf("relative move with no prior element target")
		}
		p.x += a.X
		p.y += a.Y
	default:
		return fmt.Errorf("moves relative to %q are not supported without W3C actions", a.Origin)
	}
	return p.target.MoveTo(p.x, p.y)
}

// press handles a pointer-down at the head of actions and reports how many
// ticks it consumed. A down/up pair becomes a click, two left clicks in a
// row become a double click.
func (l *Legacy) press(actions []Action) (int, error) {
	down := actions[0]
	if isClick(actions, down.Button) {
		if down.Button == LeftButton && len(actions) >= 4 && isClick(actions[2:], LeftButton) {
			return 4, l.driver.DoubleClick()
		}
		return 2, l.driver.Click(int(down.Button))
	}
	if down.Button != LeftButton {
		return 1, fmt.Errorf("holding button %d is not supported without W3C actions", down.Button)
	}
	if err := l.driver.ButtonDown(); err != nil {
		return 1, err
	}
	l.holding = true
	return 1, nil
}

func isClick(actions []Action, button MouseButton) bool {
	return len(actions) >= 2 &&
		actions[0].Kind == PointerDown && actions[0].Button == button &&
		actions[1].Kind == PointerUp && actions[1].Button == button
}
