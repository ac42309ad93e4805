package armature

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func testDrawable(t testing.TB, name string) *Drawable {
	t.Helper()
	d, err := NewDrawable(name, []Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func testNode(t testing.TB, name string, parent *Node, offset Vector3) *Node {
	t.Helper()
	n, err := NewNode(name, parent, testDrawable(t, name), offset)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// testArm builds Base -> Upper -> Fore, with Base -> Turret as a sibling branch.
func testArm(t testing.TB) (base, upper, fore, turret *Node) {
	base = testNode(t, "Base", nil, Vector3{})
	upper = testNode(t, "Upper", base, NewVector3(0, 1, 0))
	fore = testNode(t, "Fore", upper, NewVector3(0, 1, 0))
	turret = testNode(t, "Turret", base, NewVector3(0.5, 0, 0))
	return
}

func randomTree(t testing.TB, rng *rand.Rand, count int) *Node {
	nodes := []*Node{testNode(t, "n0", nil, Vector3{})}
	for i := 1; i < count; i++ {
		parent := nodes[rng.Intn(len(nodes))]
		n := testNode(t, fmt.Sprintf("n%d", i), parent, NewVector3(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1))
		n.SetRotation(rng.Float64()*720-360, rng.Float64()*720-360, rng.Float64()*720-360)
		nodes = append(nodes, n)
	}
	return nodes[0]
}

func TestWorldTransformComposition(t *testing.T) {

	rng := rand.New(rand.NewSource(1))
	root := randomTree(t, rng, 40)

	worlds := map[*Node]Matrix4{}

	for _, flat := range root.Flatten() {
		worlds[flat.Node] = flat.World
	}

	for node, world := range worlds {

		if node.Parent() == nil {
			if world != node.LocalTransform() {
				t.Fatalf("root world transform should equal its local transform")
			}
			continue
		}

		if expected := Compose(worlds[node.Parent()], node.LocalTransform()); world != expected {
			t.Fatalf("node %s: world transform isn't its local composed with its parent's world", node.Name())
		}

		if !node.WorldTransform().Equals(world) {
			t.Fatalf("node %s: WorldTransform() disagrees with traversal", node.Name())
		}

	}

}

func TestFullTurnRestoresLocalTransform(t *testing.T) {

	node := testNode(t, "joint", nil, NewVector3(0.3, -1, 2))
	node.SetRotation(12, 34, 56)
	node.SetRotationStep(10)

	before := node.LocalTransform()

	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for i := 0; i < 36; i++ {
			node.IncrementRotation(axis)
		}
	}

	if !node.LocalTransform().EqualsWithin(before, 1e-5) {
		t.Fatalf("full turn changed the local transform:\n%s\n%s", before, node.LocalTransform())
	}

	// Angles aren't wrapped when stored.
	if a := node.Angle(AxisY); a != 394 {
		t.Fatalf("expected Y angle 394, got %v", a)
	}

	for i := 0; i < 36; i++ {
		node.DecrementRotation(AxisZ)
	}

	if a := node.Angle(AxisZ); a != 56 {
		t.Fatalf("expected Z angle 56, got %v", a)
	}

}

func TestRenderOrder(t *testing.T) {

	rng := rand.New(rand.NewSource(2))
	root := randomTree(t, rng, 60)

	order := []*Drawable{}
	root.Render(RenderFunc(func(d *Drawable, world Matrix4) {
		order = append(order, d)
	}), NewMatrix4())

	if len(order) != root.Count() {
		t.Fatalf("expected %d draw calls, got %d", root.Count(), len(order))
	}

	drawnAt := map[*Drawable]int{}
	for i, d := range order {
		if _, exists := drawnAt[d]; exists {
			t.Fatalf("drawable %s was drawn twice", d.Name())
		}
		drawnAt[d] = i
	}

	root.Walk(func(node *Node) bool {
		for _, child := range node.Children() {
			if drawnAt[child.Drawable()] <= drawnAt[node.Drawable()] {
				t.Fatalf("child %s drawn before parent %s", child.Name(), node.Name())
			}
		}
		return true
	})

	flat := root.Flatten()
	for i, f := range flat {
		if order[i] != f.Node.Drawable() {
			t.Fatalf("Flatten and Render disagree on order at %d", i)
		}
	}

}

func TestRenderSiblingIsolation(t *testing.T) {

	base, upper, _, turret := testArm(t)
	upper.SetAngle(AxisZ, 45)

	dl := &DrawList{}
	base.Render(dl, NewMatrix4())

	for _, call := range dl.Calls {
		if call.Drawable == turret.Drawable() {
			if !call.World.Position().Equals(NewVector3(0.5, 0, 0)) {
				t.Fatalf("turret picked up its sibling's transform: %s", call.World.Position())
			}
		}
	}

}

func TestMutationStaysInSubtree(t *testing.T) {

	rng := rand.New(rand.NewSource(3))
	root := randomTree(t, rng, 50)

	before := map[*Node]Matrix4{}
	for _, f := range root.Flatten() {
		before[f.Node] = f.World
	}

	flat := root.Flatten()
	target := flat[len(flat)/2].Node
	target.IncrementRotation(AxisX)
	target.IncrementRotation(AxisZ)

	for _, f := range root.Flatten() {
		inSubtree := f.Node == target || target.IsAncestorOf(f.Node)
		if !inSubtree && f.World != before[f.Node] {
			t.Fatalf("node %s outside the mutated subtree changed", f.Node.Name())
		}
	}

	if before[target] == target.WorldTransform() {
		t.Fatalf("mutated node's world transform didn't change")
	}

}

func TestChainRotation(t *testing.T) {

	root := testNode(t, "root", nil, Vector3{})
	a := testNode(t, "A", root, Vector3{})
	b := testNode(t, "B", a, NewVector3(1, 0, 0))

	if !b.WorldPosition().Equals(NewVector3(1, 0, 0)) {
		t.Fatalf("expected B at {1, 0, 0}, got %s", b.WorldPosition())
	}

	root.SetAngle(AxisY, 90)

	if !b.WorldPosition().Equals(NewVector3(0, 0, -1)) {
		t.Fatalf("expected B at {0, 0, -1} after rotating the root, got %s", b.WorldPosition())
	}

	// Ninety single steps get to the same place.
	root.SetAngle(AxisY, 0)
	for i := 0; i < 90; i++ {
		root.IncrementRotation(AxisY)
	}

	if !b.WorldPosition().Equals(NewVector3(0, 0, -1)) {
		t.Fatalf("expected B at {0, 0, -1} after 90 increments, got %s", b.WorldPosition())
	}

}

func TestDeepChain(t *testing.T) {

	const depth = 500

	root := testNode(t, "0", nil, NewVector3(0, 0.01, 0))
	root.SetAngle(AxisZ, 1)

	chain := []*Node{root}
	for i := 1; i < depth; i++ {
		n := testNode(t, fmt.Sprint(i), chain[i-1], NewVector3(0, 0.01, 0))
		n.SetRotation(float64(i%7), float64(i%5), float64(i%3))
		chain = append(chain, n)
	}

	rendered := map[*Drawable]Matrix4{}
	root.Render(RenderFunc(func(d *Drawable, world Matrix4) {
		rendered[d] = world
	}), NewMatrix4())

	flat := root.Flatten()

	if len(flat) != depth || len(rendered) != depth {
		t.Fatalf("expected %d nodes, flattened %d and rendered %d", depth, len(flat), len(rendered))
	}

	locals := []Matrix4{}

	for i, f := range flat {

		if f.Node != chain[i] || f.Depth != i {
			t.Fatalf("unexpected node %s at depth %d", f.Node.Name(), f.Depth)
		}

		locals = append(locals, f.Node.LocalTransform())

		if expected := MultiplyStack(locals); f.World != expected {
			t.Fatalf("level %d: Flatten world doesn't match MultiplyStack", i)
		}

		if rendered[f.Node.Drawable()] != f.World {
			t.Fatalf("level %d: Render and Flatten disagree", i)
		}

	}

}

func TestNewNodeErrors(t *testing.T) {

	root := testNode(t, "root", nil, Vector3{})

	_, err := NewNode("arm", root, nil, Vector3{})

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError for a nil drawable, got %v", err)
	}

	if cfgErr.Node != "arm" || cfgErr.Parent != "root" {
		t.Fatalf("error should name node and parent, got %+v", cfgErr)
	}

	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected errors.Is(err, ErrConfiguration)")
	}

	if len(root.Children()) != 0 {
		t.Fatalf("failed node should not have been attached")
	}

	if _, err := NewNode("empty", nil, &Drawable{name: "empty"}, Vector3{}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a ConfigurationError for an empty drawable, got %v", err)
	}

}

func TestAddChildErrors(t *testing.T) {

	base, upper, fore, _ := testArm(t)
	other := testNode(t, "Other", nil, Vector3{})

	cases := []struct {
		name   string
		parent *Node
		child  *Node
	}{
		{"already parented", other, fore},
		{"self", upper, upper},
		{"cycle", fore, base},
	}

	for _, c := range cases {

		childrenBefore := len(c.parent.Children())
		parentBefore := c.child.Parent()

		err := c.parent.AddChild(c.child)

		if !errors.Is(err, ErrStructure) {
			t.Fatalf("%s: expected a StructuralViolation, got %v", c.name, err)
		}

		if len(c.parent.Children()) != childrenBefore || c.child.Parent() != parentBefore {
			t.Fatalf("%s: failed AddChild modified the tree", c.name)
		}

	}

	if err := base.AddChild(nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected a ConfigurationError for a nil child, got %v", err)
	}

	if err := upper.AddChild(other); err != nil {
		t.Fatal(err)
	}

	if other.Parent() != upper || other.Index() != 1 || other.Root() != base {
		t.Fatalf("other wasn't attached as the last child of upper")
	}

}

func TestGetAndPath(t *testing.T) {

	base, upper, fore, turret := testArm(t)

	if base.Path() != "" {
		t.Fatalf("root path should be empty, got %q", base.Path())
	}

	if fore.Path() != "Upper/Fore" {
		t.Fatalf("expected path Upper/Fore, got %q", fore.Path())
	}

	for _, n := range []*Node{base, upper, fore, turret} {
		if base.Get(n.Path()) != n {
			t.Fatalf("Get(%q) didn't return %s", n.Path(), n.Name())
		}
	}

	if fore.Get("..") != upper || fore.Get("../../Turret") != turret {
		t.Fatalf("relative paths didn't resolve")
	}

	if base.Get("Upper/Nope") != nil || base.Get("..") != nil {
		t.Fatalf("missing nodes should return nil")
	}

	if !base.IsAncestorOf(fore) || fore.IsAncestorOf(base) || turret.IsAncestorOf(fore) {
		t.Fatalf("IsAncestorOf is wrong")
	}

	if turret.Index() != 1 || base.Index() != -1 {
		t.Fatalf("unexpected indices %d, %d", turret.Index(), base.Index())
	}

	str := base.HierarchyAsString()
	for _, name := range []string{"[ROOT] Base", "[NODE] Upper", "[NODE] Fore", "[NODE] Turret"} {
		if !strings.Contains(str, name) {
			t.Fatalf("hierarchy string is missing %q:\n%s", name, str)
		}
	}

}

func TestTeardown(t *testing.T) {

	base, upper, fore, _ := testArm(t)

	fore.Teardown()

	for _, n := range []*Node{base, upper, fore} {
		if !n.IsTornDown() || len(n.Children()) != 0 || n.Parent() != nil {
			t.Fatalf("node %s wasn't torn down", n.Name())
		}
	}

	if _, err := NewNode("late", base, testDrawable(t, "late"), Vector3{}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected torn-down parent to refuse children, got %v", err)
	}

	draws := 0
	fore.Render(RenderFunc(func(d *Drawable, world Matrix4) {
		draws++
		d.ForEachTriangle(world, func(int, Vector3, Vector3, Vector3) {})
	}), NewMatrix4())

	if draws != 0 {
		t.Fatalf("a torn-down node shouldn't reach the renderer, got %d draws", draws)
	}

}

func TestMatrixStack(t *testing.T) {

	base := NewMatrix4Translate(1, 0, 0)
	ms := NewMatrixStack(base)

	a := ms.Push(NewMatrix4RotateAxis(AxisY, 90))
	if a != Compose(base, NewMatrix4RotateAxis(AxisY, 90)) || ms.Depth() != 1 {
		t.Fatalf("push didn't compose with the base")
	}

	ms.Push(NewMatrix4Translate(0, 2, 0))
	if ms.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", ms.Depth())
	}

	if top := ms.Pop(); top != a {
		t.Fatalf("pop didn't restore the previous top")
	}

	if top := ms.Pop(); top != base || ms.Depth() != 0 {
		t.Fatalf("pop didn't restore the base")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("popping the base should panic")
		}
	}()

	ms.Pop()

}

func TestMultiplyStackEmpty(t *testing.T) {
	if !MultiplyStack(nil).IsIdentity() {
		t.Fatalf("empty stack should multiply to the identity")
	}
}
