package actions

import "time"

// KeyInput accumulates the ticks of a keyboard device.
type KeyInput struct {
	name    string
	actions []map[string]interface{}
}

// NewKeyInput returns a keyboard device.
func NewKeyInput(name string) *KeyInput {
	return &KeyInput{name: name, actions: []map[string]interface{}{}}
}

func (ki *KeyInput) add(a Action) {
	switch a.Kind {
	case KeyDown, KeyUp:
		ki.actions = append(ki.actions, map[string]interface{}{"type": a.Kind.String(), "value": a.Key})
	default:
		ki.pause(a.Duration)
	}
}

func (ki *KeyInput) pause(d time.Duration) {
	ki.actions = append(ki.actions, pauseStep(d))
}

// Encode returns the W3C representation of the device.
func (ki *KeyInput) Encode() Source {
	return Source{
		Type:    SourceKey,
		ID:      ki.name,
		Actions: ki.actions,
	}
}
