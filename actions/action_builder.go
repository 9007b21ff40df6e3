package actions

// Device names used in encoded requests.
const (
	MouseID    = "mouse"
	KeyboardID = "keyboard"
)

// Payload is the body of a W3C "Perform Actions" request.
type Payload struct {
	Actions []Source `json:"actions"`
}

// Encode lays the ticks out on a mouse and a keyboard source. Both sources
// get one entry per tick; the source that is idle during a tick gets a zero
// pause so that the devices stay in lockstep.
func Encode(actions []Action) Payload {
	mouse, _ := NewPointerInput(PointerMouse, MouseID)
	keyboard := NewKeyInput(KeyboardID)
	for _, a := range actions {
		switch {
		case a.IsPointer():
			mouse.add(a)
			keyboard.pause(0)
		case a.IsKey():
			keyboard.add(a)
			mouse.pause(0)
		default:
			mouse.pause(a.Duration)
			keyboard.pause(a.Duration)
		}
	}
	return Payload{Actions: []Source{mouse.Encode(), keyboard.Encode()}}
}
