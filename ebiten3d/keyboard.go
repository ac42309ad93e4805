package ebiten3d

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"github.com/solarlune/armature"
)

type keyBinding struct {
	key   ebiten.Key
	name  string
	event armature.Event
}

// KeyboardSource turns key presses into armature Events according to a set of KeyBindings.
type KeyboardSource struct {
	bindings []keyBinding

	// RepeatDelay is the number of ticks a key must be held before it starts repeating; 0 disables repeating, so each
	// press produces exactly one Event.
	RepeatDelay int
	// RepeatInterval is the number of ticks between repeats once a held key starts repeating.
	RepeatInterval int
}

// NewKeyboardSource creates a new KeyboardSource for the bindings given. Key names are Ebitengine key names ("ArrowLeft",
// "Digit1", "PageUp", "P"), matched without regard to case.
func NewKeyboardSource(bindings armature.KeyBindings) (*KeyboardSource, error) {

	events, err := bindings.Events()
	if err != nil {
		return nil, err
	}

	ks := &KeyboardSource{RepeatInterval: 3}

	for name, event := range events {

		var key ebiten.Key
		if err := key.UnmarshalText([]byte(name)); err != nil {
			return nil, errors.Wrapf(err, "unknown key %q", name)
		}

		ks.bindings = append(ks.bindings, keyBinding{key: key, name: name, event: event})

	}

	sort.Slice(ks.bindings, func(i, j int) bool { return ks.bindings[i].name < ks.bindings[j].name })

	return ks, nil

}

// Poll pushes the Events for every bound key pressed this tick onto the queue given, and returns how many were pushed.
// It should be called once per tick from Game.Update.
func (ks *KeyboardSource) Poll(queue *armature.EventQueue) int {

	pushed := 0

	for _, binding := range ks.bindings {
		if ks.triggered(binding.key) {
			queue.Push(binding.event)
			pushed++
		}
	}

	return pushed

}

func (ks *KeyboardSource) triggered(key ebiten.Key) bool {

	if inpututil.IsKeyJustPressed(key) {
		return true
	}

	if ks.RepeatDelay <= 0 {
		return false
	}

	held := inpututil.KeyPressDuration(key)
	interval := max(ks.RepeatInterval, 1)

	return held > ks.RepeatDelay && (held-ks.RepeatDelay)%interval == 0

}
