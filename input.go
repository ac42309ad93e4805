package armature

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Axis identifies one of the three principal rotation axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis parses "x", "y" or "z" (in any case) into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("armature: unknown axis %q", s)
}

func (axis Axis) String() string {
	switch axis {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(axis))
}

func (axis Axis) index() int {
	if axis < AxisX || axis > AxisZ {
		panic(fmt.Sprintf("armature: invalid axis %d", int(axis)))
	}
	return int(axis)
}

// Command ops.
const (
	OpSelect      = "select"
	OpAdjust      = "adjust"
	OpCamera      = "camera"
	OpPerspective = "perspective"
	OpTween       = "tween"
)

// Command is the serialized form of an input Event, as it appears in key bindings and in commands sent to the remote server.
//
//	{op: select, slot: 1}                      select the Node in slot 1
//	{op: select, path: Upper/Fore}             select the Node at the path, relative to the root
//	{op: adjust, axis: y, direction: -1}       rotate the selected Node by one step
//	{op: camera, axis: x, direction: 1}        rotate the camera by one degree
//	{op: perspective}                          toggle the camera's projection
//	{op: tween, axis: z, target: 90, duration: 2}
type Command struct {
	Op        string  `json:"op" yaml:"op"`
	Slot      int     `json:"slot,omitempty" yaml:"slot,omitempty"`
	Path      string  `json:"path,omitempty" yaml:"path,omitempty"`
	Axis      string  `json:"axis,omitempty" yaml:"axis,omitempty"`
	Direction int     `json:"direction,omitempty" yaml:"direction,omitempty"`
	Target    float64 `json:"target,omitempty" yaml:"target,omitempty"`
	Duration  float32 `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Event converts the Command into the Event it describes.
func (cmd Command) Event() (Event, error) {

	switch strings.ToLower(cmd.Op) {

	case OpSelect:
		if cmd.Path != "" {
			return SelectPathEvent{Path: cmd.Path}, nil
		}
		return SelectSlotEvent{Slot: cmd.Slot}, nil

	case OpAdjust, OpCamera:
		axis, err := ParseAxis(cmd.Axis)
		if err != nil {
			return nil, err
		}
		if cmd.Direction == 0 {
			return nil, fmt.Errorf("armature: %s command needs a non-zero direction", cmd.Op)
		}
		if strings.EqualFold(cmd.Op, OpCamera) {
			return CameraRotateEvent{Axis: axis, Degrees: float64(sign(cmd.Direction)) * CameraRotationStep}, nil
		}
		return AdjustEvent{Axis: axis, Direction: sign(cmd.Direction)}, nil

	case OpPerspective:
		return TogglePerspectiveEvent{}, nil

	case OpTween:
		axis, err := ParseAxis(cmd.Axis)
		if err != nil {
			return nil, err
		}
		if cmd.Duration < 0 {
			return nil, fmt.Errorf("armature: tween duration %v is negative", cmd.Duration)
		}
		return TweenEvent{Path: cmd.Path, Axis: axis, Target: cmd.Target, Duration: cmd.Duration}, nil

	}

	return nil, fmt.Errorf("armature: unknown command op %q", cmd.Op)

}

func sign(i int) int {
	if i < 0 {
		return -1
	}
	return 1
}

// Event is a single input, applied to a set of Controls on the frame loop's goroutine.
type Event interface {
	Apply(controls *Controls) error
}

// SelectSlotEvent selects the Node in one of the Selection's numbered slots.
type SelectSlotEvent struct {
	Slot int
}

func (e SelectSlotEvent) Apply(controls *Controls) error {
	return controls.Selection.SelectSlot(e.Slot)
}

// SelectPathEvent selects the Node at a path relative to the Selection's root.
type SelectPathEvent struct {
	Path string
}

func (e SelectPathEvent) Apply(controls *Controls) error {
	return controls.Selection.SelectPath(e.Path)
}

// AdjustEvent rotates the selected Node by one rotation step about an axis; a negative Direction rotates it backwards.
type AdjustEvent struct {
	Axis      Axis
	Direction int
}

func (e AdjustEvent) Apply(controls *Controls) error {
	if e.Direction < 0 {
		controls.Selection.Decrement(e.Axis)
	} else {
		controls.Selection.Increment(e.Axis)
	}
	return nil
}

// CameraRotateEvent rotates the Camera about an axis by a number of degrees.
type CameraRotateEvent struct {
	Axis    Axis
	Degrees float64
}

func (e CameraRotateEvent) Apply(controls *Controls) error {
	if controls.Camera == nil {
		return fmt.Errorf("armature: no camera to rotate")
	}
	controls.Camera.Rotate(e.Axis, e.Degrees)
	return nil
}

// TogglePerspectiveEvent switches the Camera between perspective and orthographic projection.
type TogglePerspectiveEvent struct{}

func (e TogglePerspectiveEvent) Apply(controls *Controls) error {
	if controls.Camera == nil {
		return fmt.Errorf("armature: no camera to toggle")
	}
	controls.Camera.TogglePerspective()
	return nil
}

// TweenEvent eases a Node's angle about an axis to a target over Duration seconds. An empty Path tweens the selected Node.
type TweenEvent struct {
	Path     string
	Axis     Axis
	Target   float64
	Duration float32
}

func (e TweenEvent) Apply(controls *Controls) error {

	if controls.Animator == nil {
		return fmt.Errorf("armature: no animator to tween with")
	}

	node := controls.Selection.Current()

	if e.Path != "" {
		node = controls.Selection.Root().Get(e.Path)
		if node == nil {
			return fmt.Errorf("armature: no node at path %q", e.Path)
		}
	}

	controls.Animator.Add(NewJointTween(node, e.Axis, e.Target, e.Duration))
	return nil

}

// EventQueue buffers Events from input sources running on other goroutines until the frame loop drains them.
// Push may be called from any goroutine.
type EventQueue struct {
	mutex  sync.Mutex
	events []Event
}

// NewEventQueue returns a new, empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds the Events given to the end of the queue.
func (eq *EventQueue) Push(events ...Event) {
	eq.mutex.Lock()
	eq.events = append(eq.events, events...)
	eq.mutex.Unlock()
}

// Len returns the number of Events waiting in the queue.
func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events)
}

// Drain removes every waiting Event from the queue and applies them to the Controls given, in the order they were pushed.
// Events that fail don't stop the rest from being applied; their errors are returned.
func (eq *EventQueue) Drain(controls *Controls) []error {

	eq.mutex.Lock()
	events := eq.events
	eq.events = nil
	eq.mutex.Unlock()

	var errs []error

	for _, event := range events {
		if err := event.Apply(controls); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", event, err))
		}
	}

	return errs

}

// KeyBindings maps key names to the Commands they trigger. Key names are those ebiten uses ("ArrowLeft", "Digit1", "PageUp", "P").
type KeyBindings map[string]Command

// DefaultKeyBindings returns the standard bindings: 1, 2 and 3 select slots 0 to 2; the left and right arrows rotate the selected
// Node about Y; up and down rotate it about X; page up and page down rotate it about Z; P toggles perspective; and A / D, W / S
// and Q / E rotate the camera about Y, X and Z.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		"Digit1": {Op: OpSelect, Slot: 0},
		"Digit2": {Op: OpSelect, Slot: 1},
		"Digit3": {Op: OpSelect, Slot: 2},

		"ArrowLeft":  {Op: OpAdjust, Axis: "y", Direction: -1},
		"ArrowRight": {Op: OpAdjust, Axis: "y", Direction: 1},
		"ArrowUp":    {Op: OpAdjust, Axis: "x", Direction: -1},
		"ArrowDown":  {Op: OpAdjust, Axis: "x", Direction: 1},
		"PageUp":     {Op: OpAdjust, Axis: "z", Direction: -1},
		"PageDown":   {Op: OpAdjust, Axis: "z", Direction: 1},

		"P": {Op: OpPerspective},

		"A": {Op: OpCamera, Axis: "y", Direction: -1},
		"D": {Op: OpCamera, Axis: "y", Direction: 1},
		"W": {Op: OpCamera, Axis: "x", Direction: -1},
		"S": {Op: OpCamera, Axis: "x", Direction: 1},
		"Q": {Op: OpCamera, Axis: "z", Direction: -1},
		"E": {Op: OpCamera, Axis: "z", Direction: 1},
	}
}

// Merge returns a copy of the KeyBindings with the other bindings layered on top (other's entries win).
func (kb KeyBindings) Merge(other KeyBindings) KeyBindings {
	out := KeyBindings{}
	for k, v := range kb {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the bound key names, sorted.
func (kb KeyBindings) Keys() []string {
	keys := make([]string, 0, len(kb))
	for k := range kb {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Events converts every binding into its Event, returning the first error encountered along with the key it was bound to.
func (kb KeyBindings) Events() (map[string]Event, error) {
	out := make(map[string]Event, len(kb))
	for _, key := range kb.Keys() {
		event, err := kb[key].Event()
		if err != nil {
			return nil, fmt.Errorf("armature: key %q: %w", key, err)
		}
		out[key] = event
	}
	return out, nil
}
