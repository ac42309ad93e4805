package armature

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched (with errors.Is) by every *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")
	// ErrStructure is matched (with errors.Is) by every *StructuralViolation.
	ErrStructure = errors.New("structural violation")
)

// ConfigurationError is returned when a scene is set up with an invalid drawable or an invalid parent. It is fatal to
// scene construction; Node and Parent name the pairing that failed.
type ConfigurationError struct {
	Node   string
	Parent string
	Reason string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("armature: cannot configure node %q under parent %q: %s", err.Node, displayParent(err.Parent), err.Reason)
}

func (err *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// StructuralViolation is returned when attaching a child would give a node two parents or introduce a cycle. Nothing
// is modified when it is returned.
type StructuralViolation struct {
	Node   string
	Parent string
	Reason string
}

func (err *StructuralViolation) Error() string {
	return fmt.Sprintf("armature: cannot attach node %q to %q: %s", err.Node, displayParent(err.Parent), err.Reason)
}

func (err *StructuralViolation) Is(target error) bool {
	return target == ErrStructure
}

func displayParent(name string) string {
	if name == "" {
		return "<root>"
	}
	return name
}
