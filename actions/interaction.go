// Package actions builds and performs composite pointer and keyboard
// gestures against a WebDriver session.
//
// A gesture is recorded as a list of ticks (Action values) by a Chain and
// handed to a Performer, which either sends it as one W3C actions request
// or replays it with JSON-wire commands.
package actions

import (
	"time"

	"github.com/tebeka/selenium"
)

// Input source types of the W3C actions API.
const (
	SourceKey     = "key"
	SourcePointer = "pointer"
	SourceNone    = "none"
)

// Pointer kinds.
const (
	PointerMouse = "mouse"
	PointerTouch = "touch"
	PointerPen   = "pen"
)

// Origins for pointer moves that are not relative to an element.
const (
	OriginViewport = "viewport"
	OriginPointer  = "pointer"
)

// DefaultMoveDuration is how long a pointer move takes on the wire.
const DefaultMoveDuration = 250 * time.Millisecond

// MouseButton identifies a pointer button.
type MouseButton int

// Mouse buttons, numbered as in the W3C and JSON-wire protocols.
const (
	LeftButton   MouseButton = selenium.LeftButton
	MiddleButton MouseButton = selenium.MiddleButton
	RightButton  MouseButton = selenium.RightButton
)

// Kind is the type of a single tick.
type Kind int

// Tick kinds.
const (
	PointerMove Kind = iota
	PointerDown
	PointerUp
	KeyDown
	KeyUp
	Pause
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointerMove"
	case PointerDown:
		return "pointerDown"
	case PointerUp:
		return "pointerUp"
	case KeyDown:
		return "keyDown"
	case KeyUp:
		return "keyUp"
	case Pause:
		return "pause"
	}
	return "unknown"
}

// Action is one tick of a gesture.
type Action struct {
	Kind Kind

	// Element is the origin of a PointerMove. When nil, Origin names the
	// origin instead.
	Element selenium.WebElement
	// Origin is OriginPointer or OriginViewport for moves without an element.
	Origin string
	// X and Y are the move offsets. For element origins they are relative to
	// the element's center.
	X, Y int

	Button   MouseButton
	Key      string
	Duration time.Duration
}

// IsPointer reports whether the tick belongs to the pointer source.
func (a Action) IsPointer() bool {
	return a.Kind == PointerMove || a.Kind == PointerDown || a.Kind == PointerUp
}

// IsKey reports whether the tick belongs to the key source.
func (a Action) IsKey() bool {
	return a.Kind == KeyDown || a.Kind == KeyUp
}

// Performer executes a recorded gesture.
type Performer interface {
	Perform(actions []Action) error
}

// Releaser is implemented by performers that keep input state between
// gestures.
type Releaser interface {
	Release() error
}

// Release releases the keys and buttons held by p, if it holds any.
func Release(p Performer) error {
	if r, ok := p.(Releaser); ok {
		return r.Release()
	}
	return nil
}

// PerformerFunc adapts a function to the Performer interface.
type PerformerFunc func(actions []Action) error

// Perform calls f(actions).
func (f PerformerFunc) Perform(actions []Action) error {
	return f(actions)
}
