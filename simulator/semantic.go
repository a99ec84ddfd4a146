package simulator

import "github.com/golang/geo/r3"

// AxisAlignedBox is an axis-aligned bounding box given by its center and edge
// lengths, both in meters.
type AxisAlignedBox struct {
	Center r3.Vector
	Sizes  r3.Vector
}

// Category is a semantic object category.
type Category struct {
	index int
	name  string
}

// NewCategory returns a category with the given index and display name.
func NewCategory(index int, name string) *Category {
	return &Category{index: index, name: name}
}

// Index returns the category's numeric index.
func (c *Category) Index() int { return c.index }

// Name returns the category's display name.
func (c *Category) Name() string { return c.name }

// SemanticLevel is one floor of a scene.
type SemanticLevel struct {
	ID   string
	AABB AxisAlignedBox
}

// SemanticRegion is one room or region within a level.
type SemanticRegion struct {
	ID   string
	AABB AxisAlignedBox
}

// SemanticObject is one annotated object instance. Its ID carries a trailing
// underscore-delimited numeric instance id (e.g. "chair_12"); Category is nil
// for unannotated objects.
type SemanticObject struct {
	ID       string
	Category *Category
	AABB     AxisAlignedBox
}

// SemanticScene is the semantic description of a loaded scene.
type SemanticScene struct {
	Levels  []SemanticLevel
	Regions []SemanticRegion
	Objects []*SemanticObject
	AABB    AxisAlignedBox
}
