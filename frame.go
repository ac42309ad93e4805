package armature

import (
	"sync"
)

// NodeSnapshot is a copy of one Node's state at the end of a frame.
type NodeSnapshot struct {
	Path          string     `json:"path"`
	Name          string     `json:"name"`
	Parent        string     `json:"parent,omitempty"`
	Depth         int        `json:"depth"`
	Angles        [3]float64 `json:"angles"`
	Offset        Vector3    `json:"offset"`
	World         Matrix4    `json:"world"`
	WorldPosition Vector3    `json:"worldPosition"`
}

// Snapshot is an immutable copy of a tree's state at the end of a frame, safe to read from any goroutine.
type Snapshot struct {
	Frame    uint64         `json:"frame"`
	Selected string         `json:"selected"`
	Nodes    []NodeSnapshot `json:"nodes"`
}

// Node returns the NodeSnapshot with the path given, and whether it was found.
func (s Snapshot) Node(path string) (NodeSnapshot, bool) {
	for _, n := range s.Nodes {
		if n.Path == path {
			return n, true
		}
	}
	return NodeSnapshot{}, false
}

// TakeSnapshot copies the state of the tree rooted at the Node given.
func TakeSnapshot(root *Node, frame uint64, selected *Node) Snapshot {

	flat := root.Flatten()

	snapshot := Snapshot{
		Frame: frame,
		Nodes: make([]NodeSnapshot, 0, len(flat)),
	}

	if selected != nil {
		snapshot.Selected = selected.Path()
	}

	for _, f := range flat {
		ns := NodeSnapshot{
			Path:          f.Node.Path(),
			Name:          f.Node.name,
			Depth:         f.Depth,
			Angles:        f.Node.angles,
			Offset:        f.Node.offset,
			World:         f.World,
			WorldPosition: f.World.Position(),
		}
		if f.Node.parent != nil {
			ns.Parent = f.Node.parent.name
		}
		snapshot.Nodes = append(snapshot.Nodes, ns)
	}

	return snapshot

}

// FrameDriver runs the per-frame sequence: pending input Events are applied, tweens are advanced, and the tree is rendered once.
// Frame must only be called from one goroutine; input from elsewhere goes through Queue, and state is read back through
// LatestSnapshot.
type FrameDriver struct {
	Root     *Node
	Renderer Renderer
	Controls *Controls
	Queue    *EventQueue
	OnFrame  func(snapshot Snapshot) // Called with each new Snapshot, if set.

	frame    uint64
	mutex    sync.RWMutex
	snapshot Snapshot
}

// NewFrameDriver returns a new FrameDriver for the tree rooted at the Node given, with new Controls and an empty EventQueue.
func NewFrameDriver(root *Node, renderer Renderer) *FrameDriver {
	fd := &FrameDriver{
		Root:     root,
		Renderer: renderer,
		Controls: NewControls(root),
		Queue:    NewEventQueue(),
	}
	fd.snapshot = TakeSnapshot(root, 0, root)
	return fd
}

// Frame runs one frame, dt seconds after the last.
func (fd *FrameDriver) Frame(dt float32) {

	if fd.Queue != nil && fd.Controls != nil {
		for _, err := range fd.Queue.Drain(fd.Controls) {
			logger.WithError(err).Warn("could not apply input event")
		}
	}

	if fd.Controls != nil && fd.Controls.Animator != nil {
		fd.Controls.Animator.Update(dt)
	}

	fd.Root.Render(fd.Renderer, NewMatrix4())

	fd.frame++

	var selected *Node
	if fd.Controls != nil && fd.Controls.Selection != nil {
		selected = fd.Controls.Selection.Current()
	}

	snapshot := TakeSnapshot(fd.Root, fd.frame, selected)

	fd.mutex.Lock()
	fd.snapshot = snapshot
	fd.mutex.Unlock()

	if fd.OnFrame != nil {
		fd.OnFrame(snapshot)
	}

}

// FrameCount returns the number of frames run so far.
func (fd *FrameDriver) FrameCount() uint64 {
	return fd.frame
}

// LatestSnapshot returns the Snapshot published at the end of the most recent frame. It's safe to call from any goroutine.
func (fd *FrameDriver) LatestSnapshot() Snapshot {
	fd.mutex.RLock()
	defer fd.mutex.RUnlock()
	return fd.snapshot
}
