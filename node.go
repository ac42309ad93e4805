package armature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Node represents one rigid part of an articulated object. A Node has three rotation angles (one per principal axis, in degrees),
// a fixed translation offset from its parent's origin, and a Drawable that is rendered with the Node's world transform.
// Nodes are arranged in a tree: each Node owns its children, and its world transform is its local transform composed with its
// parent's world transform.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	drawable *Drawable

	offset Vector3
	angles [3]float64
	step   float64

	cachedLocal      Matrix4
	isTransformDirty bool
	tornDown         bool
}

// NewNode creates a new Node with the name, Drawable and translation offset given. If parent is non-nil, the new Node is appended
// to the end of the parent's children (and so is rendered after any existing siblings); otherwise, the new Node is the root of
// a new tree. A nil or empty Drawable, or a parent that has been torn down, returns a *ConfigurationError naming the Node and parent.
func NewNode(name string, parent *Node, drawable *Drawable, offset Vector3) (*Node, error) {

	parentName := ""
	if parent != nil {
		parentName = parent.name
	}

	if !drawable.valid() {
		return nil, &ConfigurationError{Node: name, Parent: parentName, Reason: "node requires a drawable with vertices"}
	}

	node := &Node{
		name:             name,
		drawable:         drawable,
		offset:           offset,
		step:             DefaultRotationStep,
		isTransformDirty: true,
	}

	if parent != nil {
		if err := parent.AddChild(node); err != nil {
			return nil, err
		}
	}

	logger.WithField("node", name).WithField("parent", displayParent(parentName)).Debug("created node")

	return node, nil

}

// AddChild appends the child given to the end of the Node's children. The child must be the root of its own tree; attaching a
// Node that already has a parent, attaching a Node to itself, or attaching one of the Node's own ancestors returns a
// *StructuralViolation, and nothing is modified.
func (node *Node) AddChild(child *Node) error {

	if child == nil {
		return &ConfigurationError{Node: "<nil>", Parent: node.name, Reason: "cannot add a nil child"}
	}

	if node.tornDown {
		return &ConfigurationError{Node: child.name, Parent: node.name, Reason: "parent has been torn down"}
	}

	if child.tornDown {
		return &ConfigurationError{Node: child.name, Parent: node.name, Reason: "child has been torn down"}
	}

	if child == node {
		return &StructuralViolation{Node: child.name, Parent: node.name, Reason: "a node cannot be its own child"}
	}

	if child.parent != nil {
		return &StructuralViolation{Node: child.name, Parent: node.name, Reason: fmt.Sprintf("node already has parent %q", child.parent.name)}
	}

	if child.IsAncestorOf(node) {
		return &StructuralViolation{Node: child.name, Parent: node.name, Reason: "attaching an ancestor would create a cycle"}
	}

	child.parent = node
	node.children = append(node.children, child)
	return nil

}

// Name returns the Node's name.
func (node *Node) Name() string {
	return node.name
}

// Parent returns the Node's parent, or nil if the Node is a root.
func (node *Node) Parent() *Node {
	return node.parent
}

// Children returns a copy of the Node's children, in traversal order.
func (node *Node) Children() []*Node {
	return append([]*Node(nil), node.children...)
}

// Root returns the root of the tree the Node belongs to (which is the Node itself if it has no parent).
func (node *Node) Root() *Node {
	root := node
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Index returns the index of the Node in its parent's children, or -1 if the Node has no parent.
func (node *Node) Index() int {
	if node.parent == nil {
		return -1
	}
	for i, child := range node.parent.children {
		if child == node {
			return i
		}
	}
	return -1
}

// IsAncestorOf returns true if the Node is a parent, grandparent, etc. of the other Node given.
func (node *Node) IsAncestorOf(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == node {
			return true
		}
	}
	return false
}

// Drawable returns the Drawable the Node renders.
func (node *Node) Drawable() *Drawable {
	return node.drawable
}

// Offset returns the Node's fixed translation offset from its parent's origin.
func (node *Node) Offset() Vector3 {
	return node.offset
}

// Angles returns the Node's rotation angles in degrees, indexed by Axis. The angles are returned exactly as accumulated;
// they are only wrapped to [0, 360) when the local transform is built.
func (node *Node) Angles() [3]float64 {
	return node.angles
}

// Angle returns the Node's rotation angle in degrees about the given axis.
func (node *Node) Angle(axis Axis) float64 {
	return node.angles[axis.index()]
}

// RotationStep returns the number of degrees IncrementRotation and DecrementRotation change an angle by.
func (node *Node) RotationStep() float64 {
	return node.step
}

// SetRotationStep sets the number of degrees IncrementRotation and DecrementRotation change an angle by.
func (node *Node) SetRotationStep(degrees float64) {
	node.step = degrees
}

// IncrementRotation increases the Node's angle about the given axis by its rotation step.
func (node *Node) IncrementRotation(axis Axis) {
	node.SetAngle(axis, node.angles[axis.index()]+node.step)
}

// DecrementRotation decreases the Node's angle about the given axis by its rotation step.
func (node *Node) DecrementRotation(axis Axis) {
	node.SetAngle(axis, node.angles[axis.index()]-node.step)
}

// SetAngle sets the Node's angle about the given axis, in degrees.
func (node *Node) SetAngle(axis Axis, degrees float64) {
	node.angles[axis.index()] = degrees
	node.isTransformDirty = true
}

// SetRotation sets all three of the Node's angles, in degrees.
func (node *Node) SetRotation(x, y, z float64) {
	node.angles = [3]float64{x, y, z}
	node.isTransformDirty = true
}

// RecomputeLocalTransform rebuilds the Node's local transform from its angles and offset. The vertex is rotated about X first,
// then Y, then Z, and is then moved by the offset.
func (node *Node) RecomputeLocalTransform() {

	// Rx * Ry * Rz * T

	transform := NewMatrix4RotateAxis(AxisX, node.angles[0])
	transform = transform.Mult(NewMatrix4RotateAxis(AxisY, node.angles[1]))
	transform = transform.Mult(NewMatrix4RotateAxis(AxisZ, node.angles[2]))
	transform = transform.Mult(NewMatrix4Translate(node.offset.X, node.offset.Y, node.offset.Z))

	node.cachedLocal = transform
	node.isTransformDirty = false

}

// LocalTransform returns the Node's local transform. If the Node's angles have changed since the transform was last built,
// it is rebuilt first.
func (node *Node) LocalTransform() Matrix4 {
	if node.isTransformDirty {
		node.RecomputeLocalTransform()
	}
	return node.cachedLocal
}

// WorldTransform returns the Node's world transform, composed from scratch from the root's local transform down to the Node's.
func (node *Node) WorldTransform() Matrix4 {

	locals := []Matrix4{}
	for n := node; n != nil; n = n.parent {
		locals = append(locals, n.LocalTransform())
	}

	// Collected leaf-first, so flip it to root-first.
	for i, j := 0, len(locals)-1; i < j; i, j = i+1, j-1 {
		locals[i], locals[j] = locals[j], locals[i]
	}

	return MultiplyStack(locals)

}

// WorldPosition returns the world position of the Node's local origin.
func (node *Node) WorldPosition() Vector3 {
	return node.WorldTransform().Position()
}

// Render draws the Node and its subtree with the renderer given. The Node's world transform is its local transform composed with
// parentWorld; each child is then rendered with that world transform as its parent's. The walk is depth-first and pre-order, and
// children are visited in the order they were added. A nil renderer computes every transform without drawing anything, and a
// torn-down Node draws nothing.
func (node *Node) Render(renderer Renderer, parentWorld Matrix4) {
	stack := NewMatrixStack(parentWorld)
	node.render(renderer, stack)
}

func (node *Node) render(renderer Renderer, stack *MatrixStack) {

	world := stack.Push(node.LocalTransform())
	defer stack.Pop()

	// Torn-down Nodes have no Drawable left to draw.
	if renderer != nil && node.drawable != nil {
		renderer.Draw(node.drawable, world)
	}

	for _, child := range node.children {
		child.render(renderer, stack)
	}

}

// Walk calls the function given on the Node and every Node in its subtree, depth-first and pre-order. If the function returns
// false, the Node's children are skipped.
func (node *Node) Walk(forEach func(node *Node) bool) {
	if !forEach(node) {
		return
	}
	for _, child := range node.children {
		child.Walk(forEach)
	}
}

// FlatNode is a Node paired with its world transform and its depth below the Node Flatten was called on.
type FlatNode struct {
	Node  *Node
	World Matrix4
	Depth int
}

// Flatten returns every Node in the subtree (including the calling Node) in the same order Render visits them, alongside each
// Node's world transform. The calling Node's parent world transform is taken to be the identity. Unlike Render, Flatten doesn't
// recurse; it walks the tree with an explicit stack, so it's safe for arbitrarily deep hierarchies.
func (node *Node) Flatten() []FlatNode {

	type pending struct {
		node        *Node
		parentWorld Matrix4
		depth       int
	}

	out := []FlatNode{}
	stack := []pending{{node: node, parentWorld: NewMatrix4()}}

	for len(stack) > 0 {

		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		world := Compose(p.parentWorld, p.node.LocalTransform())
		out = append(out, FlatNode{Node: p.node, World: world, Depth: p.depth})

		// Pushed in reverse so the first child is popped first.
		for i := len(p.node.children) - 1; i >= 0; i-- {
			stack = append(stack, pending{node: p.node.children[i], parentWorld: world, depth: p.depth + 1})
		}

	}

	return out

}

// Count returns the number of Nodes in the subtree, including the calling Node.
func (node *Node) Count() int {
	count := 0
	node.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Teardown tears down the whole tree the Node belongs to, starting from its root: every Node releases its children and Drawable,
// and refuses new children afterwards.
func (node *Node) Teardown() {

	stack := []*Node{node.Root()}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, n.children...)
		n.children = nil
		n.parent = nil
		n.drawable = nil
		n.tornDown = true
	}

}

// IsTornDown returns true if the Node's tree has been torn down.
func (node *Node) IsTornDown() bool {
	return node.tornDown
}

// Get searches the Node's subtree for a Node using a path of Node names separated by forward slashes ('/'), relative to the calling
// Node. As an example, if a Wrist were parented to a Forearm, which was parented to the root, the Wrist would be found from the root
// at "Forearm/Wrist". ".." goes up one level, so wrist.Get("..") returns the Forearm. An empty path returns the calling Node.
// Get returns nil if no Node is found.
func (node *Node) Get(path string) *Node {

	current := node

	for _, s := range strings.Split(path, "/") {

		s = strings.TrimSpace(s)

		if s == "" || s == "." {
			continue
		}

		if s == ".." {
			current = current.parent
		} else {
			var found *Node
			for _, child := range current.children {
				if child.name == s {
					found = child
					break
				}
			}
			current = found
		}

		if current == nil {
			return nil
		}

	}

	return current

}

// Path returns the path to get to this Node from the root of its tree. Passing it to Get() called on the root returns this Node.
// The path doesn't contain the root's name; the root's own path is an empty string.
func (node *Node) Path() string {

	if node.parent == nil {
		return ""
	}

	path := node.name

	for parent := node.parent; parent != nil && parent.parent != nil; parent = parent.parent {
		path = parent.name + "/" + path
	}

	return path

}

// HierarchyAsString returns a string displaying the hierarchy of this Node and all of its children, along with their world positions
// and angles. This is a useful function to debug the layout of a node tree, for example.
func (node *Node) HierarchyAsString() string {

	builder := strings.Builder{}

	for _, flat := range node.Flatten() {

		if flat.Depth > 0 {
			builder.WriteString(strings.Repeat("    |", flat.Depth))
			builder.WriteString("\n")
		}

		builder.WriteString(strings.Repeat("    |", flat.Depth))

		prefix := "NODE"
		if flat.Depth == 0 {
			prefix = "ROOT"
		} else {
			builder.WriteString("-")
		}

		wp := flat.World.Position()
		a := flat.Node.angles

		builder.WriteString(" [" + prefix + "] " + flat.Node.name + " : [" +
			strconv.FormatFloat(float64(wp.X), 'f', 2, 32) + ", " +
			strconv.FormatFloat(float64(wp.Y), 'f', 2, 32) + ", " +
			strconv.FormatFloat(float64(wp.Z), 'f', 2, 32) + "] rot (" +
			strconv.FormatFloat(a[0], 'f', 1, 64) + ", " +
			strconv.FormatFloat(a[1], 'f', 1, 64) + ", " +
			strconv.FormatFloat(a[2], 'f', 1, 64) + ")\n")

	}

	return builder.String()

}

func (node *Node) String() string {
	return node.name
}

// wrapDegrees reduces an angle to [0, 360).
func wrapDegrees(degrees float64) float64 {
	wrapped := math.Mod(degrees, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped
}
