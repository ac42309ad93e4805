package ebiten3d

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/solarlune/armature"
)

func TestNewKeyboardSource(t *testing.T) {

	ks, err := NewKeyboardSource(armature.DefaultKeyBindings())
	if err != nil {
		t.Fatal(err)
	}

	if len(ks.bindings) != len(armature.DefaultKeyBindings()) {
		t.Fatalf("expected %d bindings, got %d", len(armature.DefaultKeyBindings()), len(ks.bindings))
	}

	keys := map[ebiten.Key]armature.Event{}
	for _, b := range ks.bindings {
		keys[b.key] = b.event
	}

	if e, ok := keys[ebiten.KeyArrowLeft].(armature.AdjustEvent); !ok || e.Axis != armature.AxisY || e.Direction != -1 {
		t.Fatalf("ArrowLeft should turn the selected node about Y, got %#v", keys[ebiten.KeyArrowLeft])
	}

	if e, ok := keys[ebiten.KeyDigit2].(armature.SelectSlotEvent); !ok || e.Slot != 1 {
		t.Fatalf("Digit2 should select slot 1, got %#v", keys[ebiten.KeyDigit2])
	}

	if _, ok := keys[ebiten.KeyP].(armature.TogglePerspectiveEvent); !ok {
		t.Fatalf("P should toggle perspective, got %#v", keys[ebiten.KeyP])
	}

	for i := 1; i < len(ks.bindings); i++ {
		if ks.bindings[i-1].name > ks.bindings[i].name {
			t.Fatalf("bindings aren't sorted by name")
		}
	}

}

func TestNewKeyboardSourceErrors(t *testing.T) {

	if _, err := NewKeyboardSource(armature.KeyBindings{"NotAKey": {Op: armature.OpPerspective}}); err == nil {
		t.Fatalf("an unknown key name should be an error")
	}

	if _, err := NewKeyboardSource(armature.KeyBindings{"P": {Op: "jump"}}); err == nil {
		t.Fatalf("an invalid command should be an error")
	}

}

func TestHUDText(t *testing.T) {

	d, err := armature.NewDrawable("tri", []armature.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	root, err := armature.NewNode("Base", nil, d, armature.Vector3{})
	if err != nil {
		t.Fatal(err)
	}
	upper, err := armature.NewNode("Upper", root, d, armature.NewVector3(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	upper.SetRotation(0, 45, 0)

	camera := armature.NewCamera(armature.DefaultWidth, armature.DefaultHeight)
	camera.TogglePerspective()

	txt := HUDText(armature.TakeSnapshot(root, 3, upper), camera)

	for _, want := range []string{"Selected: Upper", "Angles: 0.0, 45.0, 0.0", "perspective", "Frame: 3"} {
		if !strings.Contains(txt, want) {
			t.Fatalf("expected HUD text to contain %q:\n%s", want, txt)
		}
	}

	if txt := HUDText(armature.TakeSnapshot(root, 0, root), camera); !strings.Contains(txt, "Selected: <root>") {
		t.Fatalf("the root should be shown as <root>:\n%s", txt)
	}

}
