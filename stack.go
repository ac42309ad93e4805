package armature

// MultiplyStack folds a root-to-leaf sequence of local transforms into the accumulated transform of the last one, composing
// them in exactly the order Render does. An empty sequence returns the identity.
func MultiplyStack(locals []Matrix4) Matrix4 {
	out := NewMatrix4()
	for _, local := range locals {
		out = Compose(out, local)
	}
	return out
}

// MatrixStack holds the accumulated transforms of a root-to-node path during traversal. The bottom of the stack is the base
// transform it was created with, and can't be popped.
type MatrixStack struct {
	stack []Matrix4
}

// NewMatrixStack returns a new MatrixStack with the base transform given at the bottom.
func NewMatrixStack(base Matrix4) *MatrixStack {
	return &MatrixStack{stack: []Matrix4{base}}
}

// Push composes the local transform given with the top of the stack, pushes the result, and returns it.
func (ms *MatrixStack) Push(local Matrix4) Matrix4 {
	top := Compose(ms.Top(), local)
	ms.stack = append(ms.stack, top)
	return top
}

// Pop removes the top of the stack, restoring the previous accumulated transform, and returns the new top.
// Popping the base transform panics, as it indicates unbalanced Push and Pop calls.
func (ms *MatrixStack) Pop() Matrix4 {
	if len(ms.stack) <= 1 {
		panic("armature: MatrixStack.Pop() called on the base transform")
	}
	ms.stack = ms.stack[:len(ms.stack)-1]
	return ms.Top()
}

// Top returns the accumulated transform at the top of the stack.
func (ms *MatrixStack) Top() Matrix4 {
	return ms.stack[len(ms.stack)-1]
}

// Depth returns the number of transforms pushed on top of the base.
func (ms *MatrixStack) Depth() int {
	return len(ms.stack) - 1
}
