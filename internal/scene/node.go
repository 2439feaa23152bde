package scene

import (
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape selects the unit mesh a node is drawn with. Size scales it.
type Shape int

const (
	// ShapeGroup has no geometry of its own.
	ShapeGroup Shape = iota
	// ShapeBox is a solid box of Size (x, y, z), centered on the node.
	ShapeBox
	// ShapePlane is a quad of Size (x, y) in the node's local XY plane, facing +Z.
	ShapePlane
	// ShapeOutline is a wireframe box of Size.
	ShapeOutline
)

func (s Shape) String() string {
	switch s {
	case ShapeGroup:
		return "group"
	case ShapeBox:
		return "box"
	case ShapePlane:
		return "plane"
	case ShapeOutline:
		return "outline"
	}
	return "unknown"
}

// Node is one element of the scene graph. Transforms compose parent to child as translate, then
// rotate (X, then Y, then Z), and Size is applied by the renderer on top of that.
type Node struct {
	Name     string
	Shape    Shape
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // radians about X, Y, Z
	Size     mgl32.Vec3

	Color             color.RGBA
	Emissive          color.RGBA
	EmissiveIntensity float32
	DoubleSided       bool

	// Pickable nodes take part in ray picking. ItemID and ItemType tag them back to the state.
	Pickable bool
	ItemID   string
	ItemType string

	Children []*Node
	parent   *Node
}

// NewGroup returns an empty group node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Shape: ShapeGroup}
}

// Parent returns the node this one is attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Add attaches c under n, detaching it from any previous parent.
func (n *Node) Add(c *Node) {
	if c.parent != nil {
		c.parent.Remove(c)
	}
	c.parent = n
	n.Children = append(n.Children, c)
}

// Remove detaches c from n. It reports false when c is not a child of n.
func (n *Node) Remove(c *Node) bool {
	i := slices.Index(n.Children, c)
	if i < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	c.parent = nil
	return true
}

// Local returns the node's transform relative to its parent, without Size.
func (n *Node) Local() mgl32.Mat4 {
	m := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	if n.Rotation.X() != 0 {
		m = m.Mul4(mgl32.HomogRotate3DX(n.Rotation.X()))
	}
	if n.Rotation.Y() != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(n.Rotation.Y()))
	}
	if n.Rotation.Z() != 0 {
		m = m.Mul4(mgl32.HomogRotate3DZ(n.Rotation.Z()))
	}
	return m
}

// World returns the node's transform in scene space, without Size.
func (n *Node) World() mgl32.Mat4 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// Walk visits n and its descendants depth first with their world transforms. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, world mgl32.Mat4) bool) {
	var parent mgl32.Mat4
	if n.parent != nil {
		parent = n.parent.World()
	} else {
		parent = mgl32.Ident4()
	}
	n.walk(parent, fn)
}

func (n *Node) walk(parent mgl32.Mat4, fn func(*Node, mgl32.Mat4) bool) {
	world := parent.Mul4(n.Local())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		c.walk(world, fn)
	}
}

// Find returns the first node named name in n's subtree, n included.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}
