package armature

import "testing"

func TestMultiRenderer(t *testing.T) {

	base, _, _, _ := testArm(t)

	first := &DrawList{}
	second := &DrawList{}
	names := []string{}

	renderer := MultiRenderer{
		first,
		nil,
		RenderFunc(func(drawable *Drawable, world Matrix4) { names = append(names, drawable.Name()) }),
		second,
	}

	base.Render(renderer, NewMatrix4())

	if first.Len() != 4 || second.Len() != 4 || len(names) != 4 {
		t.Fatalf("every renderer should see every node: got %d, %d and %d draws", first.Len(), second.Len(), len(names))
	}

	for i := range first.Calls {
		if first.Calls[i] != second.Calls[i] {
			t.Fatalf("draw #%d differs between renderers", i)
		}
	}

	if names[0] != "Base" || names[1] != "Upper" || names[2] != "Fore" || names[3] != "Turret" {
		t.Fatalf("unexpected draw order %v", names)
	}

}
