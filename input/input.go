package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/kartphysics/kart"
)

// defaultDeadzone is the stick deflection ignored around the centre.
const defaultDeadzone = 0.2

// Event is a change of one action's value, ready for PlayerKart.Action.
type Event struct {
	Action kart.Action
	Value  int
}

// State is the polled value of every action this frame, 0 to kart.MaxAxis.
type State map[kart.Action]int

// Binding lists what drives one action.
type Binding struct {
	Keys    []ebiten.Key
	Buttons []ebiten.StandardGamepadButton
}

type Bindings map[kart.Action]Binding

func DefaultBindings() Bindings {
	return Bindings{
		kart.ActionSteerLeft:  {Keys: []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft}},
		kart.ActionSteerRight: {Keys: []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight}},
		kart.ActionAccelerate: {Keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontBottomRight}},
		kart.ActionBrake:      {Keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontBottomLeft}},
		kart.ActionFire:       {Keys: []ebiten.Key{ebiten.KeySpace}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom}},
		kart.ActionNitro:      {Keys: []ebiten.Key{ebiten.KeyN}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft}},
		kart.ActionSkid:       {Keys: []ebiten.Key{ebiten.KeyShiftLeft}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontTopRight}},
		kart.ActionRescue:     {Keys: []ebiten.Key{ebiten.KeyBackspace}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightTop}},
		kart.ActionLookBack:   {Keys: []ebiten.Key{ebiten.KeyB}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontTopLeft}},
	}
}

// Source is where input is read from. The default reads ebiten.
type Source interface {
	KeyPressed(k ebiten.Key) bool
	Gamepads() []ebiten.GamepadID
	// ButtonValue is 0 when released and up to 1 for analog buttons.
	ButtonValue(id ebiten.GamepadID, b ebiten.StandardGamepadButton) float64
	Axis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis) float64
}

type ebitenSource struct{}

func (ebitenSource) KeyPressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

func (ebitenSource) Gamepads() []ebiten.GamepadID {
	var ids []ebiten.GamepadID
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (ebitenSource) ButtonValue(id ebiten.GamepadID, b ebiten.StandardGamepadButton) float64 {
	return ebiten.StandardGamepadButtonValue(id, b)
}

func (ebitenSource) Axis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis) float64 {
	return ebiten.StandardGamepadAxisValue(id, a)
}

type Option func(i *Input)

func WithSource(s Source) Option {
	return func(i *Input) { i.source = s }
}

func WithBindings(b Bindings) Option {
	return func(i *Input) { i.bindings = b }
}

func WithDeadzone(d float64) Option {
	return func(i *Input) { i.deadzone = d }
}

// Input polls keyboard and gamepad once per frame and reports the actions
// that changed since the last poll.
type Input struct {
	source   Source
	bindings Bindings
	deadzone float64
	prev     State
}

func New(opts ...Option) *Input {
	i := &Input{
		source:   ebitenSource{},
		bindings: DefaultBindings(),
		deadzone: defaultDeadzone,
		prev:     State{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Poll reads the current value of every bound action. Keys give full
// scale; gamepad triggers and the left stick give analog values.
func (i *Input) Poll() State {
	s := State{}
	pads := i.source.Gamepads()
	for action, b := range i.bindings {
		v := 0
		for _, k := range b.Keys {
			if i.source.KeyPressed(k) {
				v = kart.MaxAxis
				break
			}
		}
		for _, id := range pads {
			for _, btn := range b.Buttons {
				v = max(v, scale(i.source.ButtonValue(id, btn)))
			}
		}
		if v > 0 {
			s[action] = v
		}
	}

	for _, id := range pads {
		x := i.source.Axis(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(x) <= i.deadzone {
			continue
		}
		action := kart.ActionSteerRight
		if x < 0 {
			action = kart.ActionSteerLeft
		}
		s[action] = max(s[action], scale(math.Abs(x)))
	}
	return s
}

// Update polls and returns the actions whose value changed, in action
// order. Released actions are reported with value 0.
func (i *Input) Update() []Event {
	return i.diff(i.Poll())
}

func (i *Input) diff(s State) []Event {
	var events []Event
	for a := kart.ActionSteerLeft; a <= kart.ActionLookBack; a++ {
		if s[a] != i.prev[a] {
			events = append(events, Event{Action: a, Value: s[a]})
		}
	}
	i.prev = s
	return events
}

// Apply feeds events to a kart.
func Apply(pk *kart.PlayerKart, events []Event) {
	for _, e := range events {
		pk.Action(e.Action, e.Value)
	}
}

func scale(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(math.Min(v, 1) * kart.MaxAxis))
}
