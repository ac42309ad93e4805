package armature

import (
	"encoding/json"
	"sync"
	"testing"
)

func testControls(t testing.TB) (*Controls, *Node, *Node, *Node) {
	base, upper, fore, _ := testArm(t)
	controls := NewControls(base)
	if err := controls.Selection.SetSlots(base, upper, fore); err != nil {
		t.Fatal(err)
	}
	return controls, base, upper, fore
}

func TestParseAxis(t *testing.T) {

	for s, expected := range map[string]Axis{"x": AxisX, "Y": AxisY, " z ": AxisZ} {
		axis, err := ParseAxis(s)
		if err != nil || axis != expected {
			t.Fatalf("ParseAxis(%q) = %v, %v", s, axis, err)
		}
	}

	if _, err := ParseAxis("w"); err == nil {
		t.Fatalf("expected an error for axis w")
	}

}

func TestCommandEvents(t *testing.T) {

	cases := []struct {
		cmd      Command
		expected Event
	}{
		{Command{Op: "select", Slot: 2}, SelectSlotEvent{Slot: 2}},
		{Command{Op: "select", Path: "Upper/Fore"}, SelectPathEvent{Path: "Upper/Fore"}},
		{Command{Op: "adjust", Axis: "y", Direction: -3}, AdjustEvent{Axis: AxisY, Direction: -1}},
		{Command{Op: "camera", Axis: "x", Direction: 1}, CameraRotateEvent{Axis: AxisX, Degrees: 1}},
		{Command{Op: "perspective"}, TogglePerspectiveEvent{}},
		{Command{Op: "tween", Axis: "z", Target: 90, Duration: 2}, TweenEvent{Axis: AxisZ, Target: 90, Duration: 2}},
	}

	for _, c := range cases {
		event, err := c.cmd.Event()
		if err != nil {
			t.Fatalf("%+v: %v", c.cmd, err)
		}
		if event != c.expected {
			t.Fatalf("%+v: got %#v, expected %#v", c.cmd, event, c.expected)
		}
	}

	bad := []Command{
		{Op: "dance"},
		{Op: "adjust", Axis: "q", Direction: 1},
		{Op: "adjust", Axis: "x"},
		{Op: "tween", Axis: "x", Duration: -1},
	}

	for _, cmd := range bad {
		if _, err := cmd.Event(); err == nil {
			t.Fatalf("%+v: expected an error", cmd)
		}
	}

}

func TestCommandJSON(t *testing.T) {

	cmd := Command{}
	if err := json.Unmarshal([]byte(`{"op": "adjust", "axis": "z", "direction": 1}`), &cmd); err != nil {
		t.Fatal(err)
	}

	event, err := cmd.Event()
	if err != nil {
		t.Fatal(err)
	}

	if event != (AdjustEvent{Axis: AxisZ, Direction: 1}) {
		t.Fatalf("unexpected event %#v", event)
	}

}

func TestEventQueueDrain(t *testing.T) {

	controls, _, upper, fore := testControls(t)
	queue := NewEventQueue()

	queue.Push(
		SelectSlotEvent{Slot: 1},
		AdjustEvent{Axis: AxisY, Direction: 1},
		AdjustEvent{Axis: AxisY, Direction: 1},
		SelectSlotEvent{Slot: 7},
		SelectPathEvent{Path: "Upper/Fore"},
		AdjustEvent{Axis: AxisX, Direction: -1},
	)

	if queue.Len() != 6 {
		t.Fatalf("expected 6 queued events, got %d", queue.Len())
	}

	errs := queue.Drain(controls)

	if len(errs) != 1 {
		t.Fatalf("expected one error from the missing slot, got %v", errs)
	}

	if queue.Len() != 0 {
		t.Fatalf("queue should be empty after draining")
	}

	if upper.Angle(AxisY) != 2 || fore.Angle(AxisX) != -1 {
		t.Fatalf("events weren't applied in order: upper %v, fore %v", upper.Angles(), fore.Angles())
	}

	if controls.Selection.Current() != fore {
		t.Fatalf("expected Fore to be selected")
	}

}

func TestEventQueueConcurrentPush(t *testing.T) {

	controls, base, _, _ := testControls(t)
	queue := NewEventQueue()

	wg := sync.WaitGroup{}

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				queue.Push(AdjustEvent{Axis: AxisZ, Direction: 1})
			}
		}()
	}

	wg.Wait()

	if errs := queue.Drain(controls); len(errs) > 0 {
		t.Fatal(errs)
	}

	if base.Angle(AxisZ) != 400 {
		t.Fatalf("expected 400 increments, got %v", base.Angle(AxisZ))
	}

}

func TestDefaultKeyBindings(t *testing.T) {

	controls, base, upper, _ := testControls(t)

	events, err := DefaultKeyBindings().Events()
	if err != nil {
		t.Fatal(err)
	}

	press := func(keys ...string) {
		for _, key := range keys {
			event, ok := events[key]
			if !ok {
				t.Fatalf("no binding for %s", key)
			}
			if err := event.Apply(controls); err != nil {
				t.Fatal(err)
			}
		}
	}

	press("Digit2", "ArrowRight", "ArrowRight", "ArrowLeft", "ArrowDown", "PageUp")

	if a := upper.Angles(); a != [3]float64{1, 1, -1} {
		t.Fatalf("unexpected angles for Upper: %v", a)
	}

	press("Digit1", "ArrowUp")

	if a := base.Angles(); a != [3]float64{-1, 0, 0} {
		t.Fatalf("unexpected angles for Base: %v", a)
	}

	perspective := controls.Camera.Perspective
	press("P", "D", "D", "W", "E")

	if controls.Camera.Perspective == perspective {
		t.Fatalf("P didn't toggle perspective")
	}

	if !controls.Camera.Rotation.Equals(NewVector3(-1, 2, 1)) {
		t.Fatalf("unexpected camera rotation %s", controls.Camera.Rotation)
	}

}

func TestKeyBindingsMerge(t *testing.T) {

	merged := DefaultKeyBindings().Merge(KeyBindings{
		"P":      {Op: OpTween, Axis: "y", Target: 45, Duration: 1},
		"Digit4": {Op: OpSelect, Slot: 3},
	})

	if merged["P"].Op != OpTween || merged["Digit4"].Slot != 3 || merged["ArrowLeft"].Op != OpAdjust {
		t.Fatalf("merge didn't layer bindings correctly")
	}

	if _, err := (KeyBindings{"X": {Op: "nope"}}).Events(); err == nil {
		t.Fatalf("expected an invalid binding to fail")
	}

}
