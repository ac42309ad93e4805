package armature

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SceneFile is the YAML description of an articulated object: its meshes, its Node tree, and the controls used to pose it.
//
//	rotationStep: 5
//	slots: ["", Upper, Upper/Fore]
//	camera: {eye: [0, 0, 2], perspective: true}
//	keys:
//	  Digit4: {op: tween, axis: y, target: 0, duration: 1}
//	meshes:
//	  box:
//	    positions: [[-0.1, 0, -0.1], [0.1, 0, -0.1], ...]
//	    indices: [0, 1, 2, ...]
//	    color: [1, 0.5, 0]
//	  claw: {gltf: claw.glb, mesh: Claw}
//	root:
//	  name: Base
//	  mesh: box
//	  children:
//	    - {name: Upper, mesh: box, offset: [0, 0.5, 0]}
type SceneFile struct {
	RotationStep float64             `yaml:"rotationStep,omitempty"`
	Slots        []string            `yaml:"slots,omitempty"`
	Camera       *CameraSpec         `yaml:"camera,omitempty"`
	Keys         KeyBindings         `yaml:"keys,omitempty"`
	Meshes       map[string]MeshSpec `yaml:"meshes"`
	Root         NodeSpec            `yaml:"root"`

	dir string
}

// CameraSpec describes a Camera. Unset fields keep NewCamera's defaults.
type CameraSpec struct {
	Eye         *[3]float32 `yaml:"eye,omitempty"`
	Up          *[3]float32 `yaml:"up,omitempty"`
	Rotation    [3]float32  `yaml:"rotation,omitempty"`
	Perspective bool        `yaml:"perspective,omitempty"`
	Width       int         `yaml:"width,omitempty"`
	Height      int         `yaml:"height,omitempty"`
}

// MeshSpec describes the geometry of a Drawable, either inline or as a mesh in a glTF file (relative paths are resolved
// against the scene file's directory). Inline positions are a triangle list unless indices are given.
type MeshSpec struct {
	Positions [][3]float32 `yaml:"positions,omitempty"`
	Indices   []int        `yaml:"indices,omitempty"`
	Color     []float32    `yaml:"color,omitempty"`

	GLTF string `yaml:"gltf,omitempty"`
	Mesh string `yaml:"mesh,omitempty"`
}

// NodeSpec describes a Node and its children.
type NodeSpec struct {
	Name     string     `yaml:"name"`
	Mesh     string     `yaml:"mesh"`
	Offset   [3]float32 `yaml:"offset,omitempty"`
	Rotation [3]float64 `yaml:"rotation,omitempty"`
	Step     float64    `yaml:"step,omitempty"`
	Children []NodeSpec `yaml:"children,omitempty"`
}

// LoadSceneFile reads and parses the scene file at the path given.
func LoadSceneFile(path string) (*SceneFile, error) {

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene file %s", path)
	}

	sf, err := ParseSceneFile(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse scene file %s", path)
	}

	sf.dir = filepath.Dir(path)

	return sf, nil

}

// ParseSceneFile parses a scene file from YAML. glTF paths in the result are resolved against the working directory.
func ParseSceneFile(data []byte) (*SceneFile, error) {

	sf := &SceneFile{}

	if err := yaml.Unmarshal(data, sf); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	if sf.Root.Name == "" {
		return nil, &ConfigurationError{Node: "<root>", Reason: "scene file has no root node"}
	}

	return sf, nil

}

// Scene is the result of building a SceneFile: a Node tree along with the Drawables it uses and its control settings.
type Scene struct {
	Root      *Node
	Drawables map[string]*Drawable
	Slots     []*Node
	Camera    *Camera
	Keys      KeyBindings
}

// Build creates the Drawables and Node tree the SceneFile describes. Any invalid mesh, node, slot or key binding returns an error;
// semantic problems are *ConfigurationErrors naming the node involved.
func (sf *SceneFile) Build() (*Scene, error) {

	scene := &Scene{
		Drawables: map[string]*Drawable{},
		Camera:    NewCamera(DefaultWidth, DefaultHeight),
		Keys:      DefaultKeyBindings().Merge(sf.Keys),
	}

	gltfFiles := map[string]map[string]*Drawable{}

	for name, spec := range sf.Meshes {
		drawable, err := sf.buildMesh(name, spec, gltfFiles)
		if err != nil {
			return nil, err
		}
		scene.Drawables[name] = drawable
	}

	root, err := sf.buildNode(sf.Root, nil, scene.Drawables)
	if err != nil {
		return nil, err
	}

	scene.Root = root

	if len(sf.Slots) == 0 {
		for _, f := range root.Flatten() {
			scene.Slots = append(scene.Slots, f.Node)
		}
	} else {
		for _, path := range sf.Slots {
			node := root.Get(path)
			if node == nil {
				return nil, &ConfigurationError{Node: path, Parent: root.name, Reason: "selection slot names no node"}
			}
			scene.Slots = append(scene.Slots, node)
		}
	}

	if sf.Camera != nil {
		applyCameraSpec(scene.Camera, sf.Camera)
	}

	if _, err := scene.Keys.Events(); err != nil {
		return nil, &ConfigurationError{Node: "<keys>", Reason: err.Error()}
	}

	logger.WithField("nodes", root.Count()).WithField("meshes", len(scene.Drawables)).Debug("built scene")

	return scene, nil

}

func applyCameraSpec(camera *Camera, spec *CameraSpec) {
	if spec.Eye != nil {
		camera.Eye = NewVector3(spec.Eye[0], spec.Eye[1], spec.Eye[2])
	}
	if spec.Up != nil {
		camera.Up = NewVector3(spec.Up[0], spec.Up[1], spec.Up[2])
	}
	camera.Rotation = NewVector3(spec.Rotation[0], spec.Rotation[1], spec.Rotation[2])
	camera.Perspective = spec.Perspective
	if spec.Width > 0 {
		camera.Width = spec.Width
	}
	if spec.Height > 0 {
		camera.Height = spec.Height
	}
}

func (sf *SceneFile) buildMesh(name string, spec MeshSpec, gltfFiles map[string]map[string]*Drawable) (*Drawable, error) {

	if spec.GLTF != "" {

		path := spec.GLTF
		if !filepath.IsAbs(path) && sf.dir != "" {
			path = filepath.Join(sf.dir, path)
		}

		meshes, loaded := gltfFiles[path]
		if !loaded {
			var err error
			meshes, err = LoadGLTFMeshes(path)
			if err != nil {
				return nil, err
			}
			gltfFiles[path] = meshes
		}

		meshName := spec.Mesh
		if meshName == "" {
			meshName = name
		}

		drawable, ok := meshes[meshName]
		if !ok {
			return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("glTF file %s has no mesh %q", spec.GLTF, meshName)}
		}

		return drawable, nil

	}

	color := NewColor(1, 1, 1, 1)
	if len(spec.Color) > 0 {
		var ok bool
		if color, ok = NewColorFromSlice(spec.Color); !ok {
			return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("mesh color needs 3 or 4 components, not %d", len(spec.Color))}
		}
	}

	positions := make([]Vector3, len(spec.Positions))
	for i, p := range spec.Positions {
		positions[i] = NewVector3(p[0], p[1], p[2])
	}

	if len(spec.Indices) > 0 {
		return NewIndexedDrawable(name, positions, spec.Indices, color)
	}

	colors := make([]Color, len(positions))
	for i := range colors {
		colors[i] = color
	}

	return NewDrawable(name, positions, colors)

}

func (sf *SceneFile) buildNode(spec NodeSpec, parent *Node, drawables map[string]*Drawable) (*Node, error) {

	parentName := ""
	if parent != nil {
		parentName = parent.name
	}

	if spec.Name == "" {
		return nil, &ConfigurationError{Node: "<unnamed>", Parent: parentName, Reason: "node has no name"}
	}

	drawable, ok := drawables[spec.Mesh]
	if !ok {
		return nil, &ConfigurationError{Node: spec.Name, Parent: parentName, Reason: fmt.Sprintf("unknown mesh %q", spec.Mesh)}
	}

	if parent != nil && parent.Get(spec.Name) != nil {
		return nil, &ConfigurationError{Node: spec.Name, Parent: parentName, Reason: "a sibling already has this name"}
	}

	node, err := NewNode(spec.Name, parent, drawable, NewVector3(spec.Offset[0], spec.Offset[1], spec.Offset[2]))
	if err != nil {
		return nil, err
	}

	switch {
	case spec.Step > 0:
		node.SetRotationStep(spec.Step)
	case sf.RotationStep > 0:
		node.SetRotationStep(sf.RotationStep)
	}

	node.SetRotation(spec.Rotation[0], spec.Rotation[1], spec.Rotation[2])

	for _, childSpec := range spec.Children {
		if _, err := sf.buildNode(childSpec, node, drawables); err != nil {
			return nil, err
		}
	}

	return node, nil

}

// Controls returns new Controls for the Scene: a Selection over its tree with its slots, its Camera and an empty Animator.
func (scene *Scene) Controls() *Controls {
	controls := &Controls{
		Selection: NewSelection(scene.Root),
		Camera:    scene.Camera,
		Animator:  NewAnimator(),
	}
	// Slots were resolved against Root, so they're always part of its tree.
	_ = controls.Selection.SetSlots(scene.Slots...)
	return controls
}
