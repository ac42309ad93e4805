package armature

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// JointTween eases one of a Node's angles from its value when the JointTween is created to a target angle over a duration in seconds.
type JointTween struct {
	Node     *Node
	Axis     Axis
	Target   float64
	Duration float32

	tween    *gween.Tween
	finished bool
}

// NewJointTween creates a new JointTween for the Node and axis given, easing in and out.
func NewJointTween(node *Node, axis Axis, target float64, duration float32) *JointTween {
	return NewJointTweenWithEasing(node, axis, target, duration, ease.InOutQuad)
}

// NewJointTweenWithEasing creates a new JointTween that uses the easing function given (see the gween/ease package).
func NewJointTweenWithEasing(node *Node, axis Axis, target float64, duration float32, easing ease.TweenFunc) *JointTween {
	jt := &JointTween{
		Node:     node,
		Axis:     axis,
		Target:   target,
		Duration: duration,
	}
	if duration > 0 {
		jt.tween = gween.New(float32(node.Angle(axis)), float32(target), duration, easing)
	}
	return jt
}

// Update advances the JointTween by dt seconds and applies the eased angle to the Node. It returns true once the tween has finished,
// at which point the Node's angle is exactly the target.
func (jt *JointTween) Update(dt float32) bool {

	if jt.finished {
		return true
	}

	if jt.tween == nil {
		jt.Node.SetAngle(jt.Axis, jt.Target)
		jt.finished = true
		return true
	}

	value, finished := jt.tween.Update(dt)

	if finished {
		jt.Node.SetAngle(jt.Axis, jt.Target)
		jt.finished = true
	} else {
		jt.Node.SetAngle(jt.Axis, float64(value))
	}

	return jt.finished

}

// Finished returns whether the JointTween has reached its target.
func (jt *JointTween) Finished() bool {
	return jt.finished
}

// Animator plays JointTweens. Only one JointTween runs per Node and axis; adding another replaces the one already running.
type Animator struct {
	tweens   []*JointTween
	OnFinish func(tween *JointTween) // Called when a JointTween reaches its target, if set.
}

// NewAnimator returns a new, empty Animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Add starts playing the JointTween given.
func (anim *Animator) Add(tween *JointTween) {
	for i, existing := range anim.tweens {
		if existing.Node == tween.Node && existing.Axis == tween.Axis {
			anim.tweens[i] = tween
			return
		}
	}
	anim.tweens = append(anim.tweens, tween)
}

// Update advances every playing JointTween by dt seconds, removing those that have finished.
func (anim *Animator) Update(dt float32) {

	remaining := anim.tweens[:0]
	var finished []*JointTween

	for _, tween := range anim.tweens {
		if tween.Update(dt) {
			finished = append(finished, tween)
			continue
		}
		remaining = append(remaining, tween)
	}

	for i := len(remaining); i < len(anim.tweens); i++ {
		anim.tweens[i] = nil
	}

	anim.tweens = remaining

	// OnFinish may Add new tweens, so it runs only once the list is settled.
	if anim.OnFinish != nil {
		for _, tween := range finished {
			anim.OnFinish(tween)
		}
	}

}

// Playing returns the number of JointTweens still playing.
func (anim *Animator) Playing() int {
	return len(anim.tweens)
}

// Stop stops every JointTween acting on the Node given, leaving its angles where they are.
func (anim *Animator) Stop(node *Node) {
	remaining := anim.tweens[:0]
	for _, tween := range anim.tweens {
		if tween.Node != node {
			remaining = append(remaining, tween)
		}
	}
	for i := len(remaining); i < len(anim.tweens); i++ {
		anim.tweens[i] = nil
	}
	anim.tweens = remaining
}
