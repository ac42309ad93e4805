// armature is a scene graph for articulated objects (robot arms, puppets, cranes): a tree of rigid parts, each rotatable on its own
// joint, whose transforms are composed from the root down before each part is drawn. Drawing itself is left to a Renderer.
package armature

import (
	"github.com/sirupsen/logrus"
)

// DefaultRotationStep is the amount, in degrees, that IncrementRotation and DecrementRotation change a Node's angle by, unless
// the Node's step has been changed with SetRotationStep.
const DefaultRotationStep = 1.0

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the logger armature uses to report scene construction and input handling. Passing nil restores the
// logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

// Logger returns the logger currently in use by armature.
func Logger() logrus.FieldLogger {
	return logger
}
