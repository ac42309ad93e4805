package armature

import (
	"testing"
)

func TestSelection(t *testing.T) {

	base, upper, fore, turret := testArm(t)
	stranger := testNode(t, "Stranger", nil, Vector3{})

	sel := NewSelection(base)

	if sel.Current() != base {
		t.Fatalf("selection should start on the root")
	}

	if err := sel.Select(stranger); err == nil {
		t.Fatalf("selecting a node from another tree should fail")
	}

	if err := sel.SetSlots(base, stranger); err == nil {
		t.Fatalf("slots from another tree should be rejected")
	}

	if err := sel.SetSlots(fore, turret); err != nil {
		t.Fatal(err)
	}

	if err := sel.SelectSlot(1); err != nil || sel.Current() != turret {
		t.Fatalf("SelectSlot(1) should select Turret, got %v (%v)", sel.Current(), err)
	}

	if err := sel.SelectSlot(2); err == nil || sel.Current() != turret {
		t.Fatalf("a missing slot should fail without changing the selection")
	}

	if err := sel.SelectPath("Upper"); err != nil || sel.Current() != upper {
		t.Fatalf("SelectPath(Upper) should select Upper")
	}

	if err := sel.SelectPath("Nope"); err == nil || sel.Current() != upper {
		t.Fatalf("a missing path should fail without changing the selection")
	}

	sel.Increment(AxisZ)
	sel.Increment(AxisZ)
	sel.Decrement(AxisX)

	if a := upper.Angles(); a != [3]float64{-1, 0, 2} {
		t.Fatalf("unexpected angles %v", a)
	}

	if base.Angles() != ([3]float64{}) || fore.Angles() != ([3]float64{}) {
		t.Fatalf("only the selected node should rotate")
	}

}
