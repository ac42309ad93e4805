package armature

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/solarlune/armature/math32"
)

// LoadGLTFFile loads a .gltf or .glb file and builds a Node tree from its default scene (see LoadGLTF).
func LoadGLTFFile(path string) (*Node, error) {

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open glTF file %s", path)
	}

	root, err := buildGLTFTree(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build tree from %s", path)
	}

	return root, nil

}

// LoadGLTF decodes a glTF document (either .gltf JSON with embedded buffers, or .glb) and builds a Node tree from its default
// scene. The scene must have a single root node, and every node must have a mesh. A node's translation becomes its offset, and its
// rotation is decomposed into the three angles of a Node's local transform; scale and matrix transforms aren't supported and are ignored.
func LoadGLTF(r io.Reader) (*Node, error) {

	doc := gltf.NewDocument()

	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode glTF document")
	}

	return buildGLTFTree(doc)

}

// LoadGLTFMeshes loads every mesh from a .gltf or .glb file as a Drawable, keyed by mesh name. Unnamed meshes are keyed "mesh<index>".
func LoadGLTFMeshes(path string) (map[string]*Drawable, error) {

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open glTF file %s", path)
	}

	drawables, err := gltfDrawables(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read meshes from %s", path)
	}

	out := make(map[string]*Drawable, len(drawables))
	for _, d := range drawables {
		out[d.name] = d
	}

	return out, nil

}

func gltfMeshName(doc *gltf.Document, index int) string {
	if name := doc.Meshes[index].Name; name != "" {
		return name
	}
	return fmt.Sprintf("mesh%d", index)
}

func gltfDrawables(doc *gltf.Document) ([]*Drawable, error) {

	drawables := make([]*Drawable, 0, len(doc.Meshes))

	for meshIndex, mesh := range doc.Meshes {

		name := gltfMeshName(doc, meshIndex)
		vertices := []Vector3{}
		colors := []Color{}

		for _, primitive := range mesh.Primitives {

			if primitive.Mode != gltf.PrimitiveTriangles {
				logger.WithField("mesh", name).Warn("skipping non-triangle glTF primitive")
				continue
			}

			posAccessor, ok := primitive.Attributes[gltf.POSITION]
			if !ok {
				return nil, &ConfigurationError{Node: name, Reason: "glTF primitive has no POSITION attribute"}
			}

			if posAccessor < 0 || posAccessor >= len(doc.Accessors) {
				return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("glTF POSITION accessor %d is out of range of %d accessors", posAccessor, len(doc.Accessors))}
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], [][3]float32{})
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read positions of mesh %q", name)
			}

			var primColors [][4]uint16
			if colorAccessor, ok := primitive.Attributes["COLOR_0"]; ok {
				if colorAccessor < 0 || colorAccessor >= len(doc.Accessors) {
					return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("glTF COLOR_0 accessor %d is out of range of %d accessors", colorAccessor, len(doc.Accessors))}
				}
				primColors, err = modeler.ReadColor64(doc, doc.Accessors[colorAccessor], [][4]uint16{})
				if err != nil {
					return nil, errors.Wrapf(err, "failed to read colors of mesh %q", name)
				}
			}

			appendVertex := func(i int) {
				p := positions[i]
				vertices = append(vertices, NewVector3(p[0], p[1], p[2]))
				if i < len(primColors) {
					c := primColors[i]
					colors = append(colors, NewColor(
						float32(c[0])/math.MaxUint16,
						float32(c[1])/math.MaxUint16,
						float32(c[2])/math.MaxUint16,
						float32(c[3])/math.MaxUint16,
					))
				} else {
					colors = append(colors, NewColor(1, 1, 1, 1))
				}
			}

			if primitive.Indices == nil {
				for i := range positions {
					appendVertex(i)
				}
				continue
			}

			if *primitive.Indices < 0 || *primitive.Indices >= len(doc.Accessors) {
				return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("glTF index accessor %d is out of range of %d accessors", *primitive.Indices, len(doc.Accessors))}
			}

			indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], []uint32{})
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read indices of mesh %q", name)
			}

			for _, index := range indices {
				if int(index) >= len(positions) {
					return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("glTF index %d is out of range of %d positions", index, len(positions))}
				}
				appendVertex(int(index))
			}

		}

		drawable, err := NewDrawable(name, vertices, colors)
		if err != nil {
			return nil, err
		}

		drawables = append(drawables, drawable)

	}

	return drawables, nil

}

func buildGLTFTree(doc *gltf.Document) (*Node, error) {

	if len(doc.Scenes) == 0 {
		return nil, &ConfigurationError{Node: "<scene>", Reason: "glTF document has no scenes"}
	}

	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}

	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, &ConfigurationError{Node: "<scene>", Reason: fmt.Sprintf("glTF default scene %d is out of range of %d scenes", sceneIndex, len(doc.Scenes))}
	}

	scene := doc.Scenes[sceneIndex]

	if len(scene.Nodes) != 1 {
		return nil, &ConfigurationError{Node: scene.Name, Reason: fmt.Sprintf("glTF scene has %d root nodes; one is required", len(scene.Nodes))}
	}

	if err := checkGLTFNodeGraph(doc, scene.Nodes[0]); err != nil {
		return nil, err
	}

	drawables, err := gltfDrawables(doc)
	if err != nil {
		return nil, err
	}

	var build func(index int, parent *Node) (*Node, error)

	build = func(index int, parent *Node) (*Node, error) {

		gltfNode := doc.Nodes[index]

		name := gltfNodeName(doc, index)

		parentName := ""
		if parent != nil {
			parentName = parent.name
		}

		if gltfNode.Mesh == nil {
			return nil, &ConfigurationError{Node: name, Parent: parentName, Reason: "glTF node has no mesh"}
		}

		if *gltfNode.Mesh < 0 || *gltfNode.Mesh >= len(drawables) {
			return nil, &ConfigurationError{Node: name, Parent: parentName, Reason: fmt.Sprintf("glTF mesh %d is out of range of %d meshes", *gltfNode.Mesh, len(drawables))}
		}

		offset := NewVector3(float32(gltfNode.Translation[0]), float32(gltfNode.Translation[1]), float32(gltfNode.Translation[2]))

		node, err := NewNode(name, parent, drawables[*gltfNode.Mesh], offset)
		if err != nil {
			return nil, err
		}

		q := mgl32.Quat{
			W: float32(gltfNode.Rotation[3]),
			V: mgl32.Vec3{float32(gltfNode.Rotation[0]), float32(gltfNode.Rotation[1]), float32(gltfNode.Rotation[2])},
		}
		angles := quatToAngles(q)
		node.SetRotation(angles[0], angles[1], angles[2])

		for _, childIndex := range gltfNode.Children {
			if _, err := build(childIndex, node); err != nil {
				return nil, err
			}
		}

		return node, nil

	}

	return build(scene.Nodes[0], nil)

}

func gltfNodeName(doc *gltf.Document, index int) string {
	if index >= 0 && index < len(doc.Nodes) && doc.Nodes[index] != nil && doc.Nodes[index].Name != "" {
		return doc.Nodes[index].Name
	}
	return fmt.Sprintf("node%d", index)
}

// checkGLTFNodeGraph walks the node graph under the root index given and makes sure it's a tree: every index is in range,
// and no node is reached twice (which would mean two parents, or a cycle).
func checkGLTFNodeGraph(doc *gltf.Document, root int) error {

	visited := map[int]bool{}

	type entry struct {
		index, parent int
	}

	stack := []entry{{index: root, parent: -1}}

	for len(stack) > 0 {

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parentName := ""
		if e.parent >= 0 {
			parentName = gltfNodeName(doc, e.parent)
		}

		if e.index < 0 || e.index >= len(doc.Nodes) || doc.Nodes[e.index] == nil {
			return &ConfigurationError{Node: gltfNodeName(doc, e.index), Parent: parentName, Reason: fmt.Sprintf("glTF node %d is out of range of %d nodes", e.index, len(doc.Nodes))}
		}

		if visited[e.index] {
			return &StructuralViolation{Node: gltfNodeName(doc, e.index), Parent: parentName, Reason: "glTF node is reached twice (it has two parents, or is part of a cycle)"}
		}

		visited[e.index] = true

		for _, child := range doc.Nodes[e.index].Children {
			stack = append(stack, entry{index: child, parent: e.index})
		}

	}

	return nil

}

// ExportGLTF writes the tree rooted at the Node given to w as a binary glTF (.glb) document. Each distinct Drawable becomes one
// mesh, each Node's offset becomes its translation, and its angles become its rotation.
func ExportGLTF(w io.Writer, root *Node) error {

	doc := gltf.NewDocument()

	meshes := map[*Drawable]int{}

	var export func(node *Node) int

	export = func(node *Node) int {

		meshIndex, exists := meshes[node.drawable]

		if !exists {

			positions := make([][3]float32, len(node.drawable.vertices))
			colors := make([][4]uint8, len(node.drawable.vertices))
			indices := make([]uint32, len(node.drawable.vertices))

			for i, v := range node.drawable.vertices {
				positions[i] = v.Floats()
				c := node.drawable.VertexColor(i).ToRGBA()
				colors[i] = [4]uint8{c.R, c.G, c.B, c.A}
				indices[i] = uint32(i)
			}

			doc.Meshes = append(doc.Meshes, &gltf.Mesh{
				Name: node.drawable.name,
				Primitives: []*gltf.Primitive{
					{
						Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
						Attributes: map[string]int{
							gltf.POSITION: modeler.WritePosition(doc, positions),
							"COLOR_0":     modeler.WriteColor(doc, colors),
						},
					},
				},
			})

			meshIndex = len(doc.Meshes) - 1
			meshes[node.drawable] = meshIndex

		}

		gltfNode := &gltf.Node{
			Name: node.name,
			Mesh: gltf.Index(meshIndex),
		}

		q := anglesToQuat(node.angles)

		copyFloats(gltfNode.Translation[:], node.offset.X, node.offset.Y, node.offset.Z)
		copyFloats(gltfNode.Rotation[:], q.V[0], q.V[1], q.V[2], q.W)
		copyFloats(gltfNode.Scale[:], 1, 1, 1)

		index := len(doc.Nodes)
		doc.Nodes = append(doc.Nodes, gltfNode)

		for _, child := range node.children {
			gltfNode.Children = append(gltfNode.Children, export(child))
		}

		return index

	}

	rootIndex := export(root)

	doc.Scenes = []*gltf.Scene{{Name: root.name, Nodes: []int{rootIndex}}}
	doc.Scene = gltf.Index(0)

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true

	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode glTF document")
	}

	return nil

}

// ExportGLTFFile writes the tree rooted at the Node given to a .glb file at the path given.
func ExportGLTFFile(path string, root *Node) error {

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if err := ExportGLTF(f, root); err != nil {
		f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "failed to close %s", path)

}

func copyFloats[F float32 | float64](dst []F, src ...float32) {
	for i := range dst {
		dst[i] = F(src[i])
	}
}

// anglesToQuat converts a Node's angles (in degrees) to the quaternion for the same rotation: X is applied first, then Y, then Z.
func anglesToQuat(angles [3]float64) mgl32.Quat {
	x := mgl32.QuatRotate(math32.ToRadians(float32(wrapDegrees(angles[0]))), mgl32.Vec3{1, 0, 0})
	y := mgl32.QuatRotate(math32.ToRadians(float32(wrapDegrees(angles[1]))), mgl32.Vec3{0, 1, 0})
	z := mgl32.QuatRotate(math32.ToRadians(float32(wrapDegrees(angles[2]))), mgl32.Vec3{0, 0, 1})
	return z.Mul(y).Mul(x)
}

// quatToAngles decomposes a quaternion into Node angles (in degrees), the inverse of anglesToQuat.
func quatToAngles(q mgl32.Quat) [3]float64 {

	if q.Len() < 1e-6 {
		return [3]float64{}
	}

	// Row-vector form, so m[i][j] is element (j, i) of the usual column-vector rotation matrix.
	m := Matrix4FromMgl(q.Normalize().Mat4())

	sy := -float64(m[0][2])
	sy = math.Max(-1, math.Min(1, sy))

	var x, y, z float64

	y = math.Asin(sy)

	if math.Abs(sy) < 0.99999 {
		x = math.Atan2(float64(m[1][2]), float64(m[2][2]))
		z = math.Atan2(float64(m[0][1]), float64(m[0][0]))
	} else {
		// Gimbal lock; X and Z rotate about the same axis, so Z takes it all.
		z = math.Atan2(-float64(m[1][0]), float64(m[1][1]))
	}

	toDeg := 180 / math.Pi

	return [3]float64{x * toDeg, y * toDeg, z * toDeg}

}
