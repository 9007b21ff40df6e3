package actions

import (
	"fmt"
	"time"
)

// Parameters describes a pointer input source.
type Parameters struct {
	PointerType string `json:"pointerType"`
}

// Source is one input device and its ticks in a W3C actions request.
type Source struct {
	Type       string                   `json:"type"`
	ID         string                   `json:"id"`
	Parameters *Parameters              `json:"parameters,omitempty"`
	Actions    []map[string]interface{} `json:"actions"`
}

// PointerInput accumulates the ticks of a pointer device.
type PointerInput struct {
	kind    string
	name    string
	actions []map[string]interface{}
}

// NewPointerInput returns a pointer device of the given kind. It fails for
// kinds other than PointerMouse, PointerTouch and PointerPen.
func NewPointerInput(kind, name string) (*PointerInput, error) {
	switch kind {
	case PointerMouse, PointerTouch, PointerPen:
	default:
		return nil, fmt.Errorf("invalid pointer kind %q", kind)
	}
	return &PointerInput{kind: kind, name: name, actions: []map[string]interface{}{}}, nil
}

func (pi *PointerInput) add(a Action) {
	switch a.Kind {
	case PointerMove:
		var origin interface{} = a.Origin
		if a.Element != nil {
			// The native handle marshals to a W3C element reference.
			origin = a.Element
		} else if a.Origin == "" {
			origin = OriginViewport
		}
		duration := a.Duration
		if duration == 0 {
			duration = DefaultMoveDuration
		}
		pi.actions = append(pi.actions, map[string]interface{}{
			"type":     PointerMove.String(),
			"duration": millis(duration),
			"x":        a.X,
			"y":        a.Y,
			"origin":   origin,
		})
	case PointerDown, PointerUp:
		pi.actions = append(pi.actions, map[string]interface{}{
			"type":     a.Kind.String(),
			"duration": 0,
			"button":   int(a.Button),
		})
	default:
		pi.pause(a.Duration)
	}
}

func (pi *PointerInput) pause(d time.Duration) {
	pi.actions = append(pi.actions, pauseStep(d))
}

// Encode returns the W3C representation of the device.
func (pi *PointerInput) Encode() Source {
	return Source{
		Type:       SourcePointer,
		ID:         pi.name,
		Parameters: &Parameters{PointerType: pi.kind},
		Actions:    pi.actions,
	}
}

func pauseStep(d time.Duration) map[string]interface{} {
	return map[string]interface{}{"type": Pause.String(), "duration": millis(d)}
}

func millis(d time.Duration) int {
	return int(d / time.Millisecond)
}
