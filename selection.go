package armature

import (
	"fmt"
)

// Selection tracks which Node of a tree input currently acts on. It starts out on the root. Selection isn't safe for
// concurrent use; input from other goroutines should go through an EventQueue.
type Selection struct {
	root    *Node
	current *Node
	slots   []*Node
}

// NewSelection returns a new Selection over the tree rooted at the Node given, with the root selected.
func NewSelection(root *Node) *Selection {
	return &Selection{root: root, current: root}
}

// Root returns the root of the tree the Selection selects from.
func (sel *Selection) Root() *Node {
	return sel.root
}

// Current returns the currently selected Node.
func (sel *Selection) Current() *Node {
	return sel.current
}

// Select selects the Node given, which must be part of the Selection's tree.
func (sel *Selection) Select(node *Node) error {
	if !sel.contains(node) {
		return fmt.Errorf("armature: node %v is not part of the tree rooted at %q", node, sel.root.name)
	}
	sel.current = node
	return nil
}

// SetSlots sets the Nodes that SelectSlot chooses between; slot 0 is the first Node given.
func (sel *Selection) SetSlots(nodes ...*Node) error {
	for _, node := range nodes {
		if !sel.contains(node) {
			return fmt.Errorf("armature: slot node %v is not part of the tree rooted at %q", node, sel.root.name)
		}
	}
	sel.slots = append([]*Node(nil), nodes...)
	return nil
}

// Slots returns a copy of the Selection's slots.
func (sel *Selection) Slots() []*Node {
	return append([]*Node(nil), sel.slots...)
}

// SelectSlot selects the Node in the slot given. Selecting a slot that doesn't exist returns an error and leaves the selection
// as it was.
func (sel *Selection) SelectSlot(slot int) error {
	if slot < 0 || slot >= len(sel.slots) {
		return fmt.Errorf("armature: no selection slot %d (%d slots)", slot, len(sel.slots))
	}
	sel.current = sel.slots[slot]
	return nil
}

// SelectPath selects the Node at the path given, relative to the root (see Node.Get).
func (sel *Selection) SelectPath(path string) error {
	node := sel.root.Get(path)
	if node == nil {
		return fmt.Errorf("armature: no node at path %q", path)
	}
	sel.current = node
	return nil
}

// Increment rotates the selected Node forward by its rotation step about the axis given.
func (sel *Selection) Increment(axis Axis) {
	sel.current.IncrementRotation(axis)
}

// Decrement rotates the selected Node backward by its rotation step about the axis given.
func (sel *Selection) Decrement(axis Axis) {
	sel.current.DecrementRotation(axis)
}

func (sel *Selection) contains(node *Node) bool {
	return node != nil && (node == sel.root || sel.root.IsAncestorOf(node))
}

// Controls bundles everything input Events act on. Camera and Animator are optional; Events that need them fail when
// they're nil.
type Controls struct {
	Selection *Selection
	Camera    *Camera
	Animator  *Animator
}

// NewControls returns Controls over the tree rooted at the Node given, with a new Selection, a default Camera and an empty Animator.
func NewControls(root *Node) *Controls {
	return &Controls{
		Selection: NewSelection(root),
		Camera:    NewCamera(DefaultWidth, DefaultHeight),
		Animator:  NewAnimator(),
	}
}
