package core

// BVHNode is either an internal node (Left and Right both set, Primitive
// nil) or a leaf (Primitive set, Left == Right == nil). Every ancestor's
// AABB contains both descendants', and an internal node's Area is the sum
// of its children's areas.
type BVHNode struct {
	Box       AABB
	Area      float64
	Left      *BVHNode
	Right     *BVHNode
	Primitive Primitive // non-nil only for leaves
}

func (n *BVHNode) isLeaf() bool { return n.Primitive != nil }

// BVH is a binary bounding-volume hierarchy over a fixed set of
// primitives, built once and read-only thereafter.
type BVH struct {
	Root *BVHNode
	Area float64
}

// BuildBVH constructs a BVH over shapes using a top-down median split
// along the longest axis of the enclosing box, per the build procedure:
// partition around the floor((n-1)/2)-th element by centroid using a
// deterministic first-element-pivot partition, recursing on (less U
// {median}, greater). Leaves always hold exactly one primitive, so an
// n-primitive BVH has exactly 2n-1 nodes.
func BuildBVH(shapes []Primitive) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil, Area: 0}
	}
	cp := make([]Primitive, len(shapes))
	copy(cp, shapes)
	root := buildNode(cp)
	return &BVH{Root: root, Area: root.Area}
}

func buildNode(shapes []Primitive) *BVHNode {
	if len(shapes) == 1 {
		p := shapes[0]
		return &BVHNode{Box: p.AABB(), Area: p.Area(), Primitive: p}
	}

	box := EmptyAABB()
	for _, s := range shapes {
		box = box.Union(s.AABB())
	}
	axis := box.LongestAxis()

	k := (len(shapes) - 1) / 2
	medianPartition(shapes, axis, k)
	less, greater := shapes[:k+1], shapes[k+1:]

	left := buildNode(less)
	right := buildNode(greater)
	return &BVHNode{
		Box:   left.Box.Union(right.Box),
		Area:  left.Area + right.Area,
		Left:  left,
		Right: right,
	}
}

func centroidAxis(p Primitive, axis int) float64 {
	c := p.AABB().Centroid()
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// medianPartition rearranges shapes in place so that the element at index
// k is the k-th smallest by centroid on axis, using a deterministic
// first-element pivot (quickselect), matching the build procedure's
// "less, median, greater" description: after this call shapes[:k+1] are
// all <= shapes[k] and shapes[k+1:] are all >= shapes[k].
func medianPartition(shapes []Primitive, axis, k int) {
	lo, hi := 0, len(shapes)-1
	for lo < hi {
		pivotVal := centroidAxis(shapes[lo], axis)
		i, j := lo, hi
		// Lomuto-style partition around the first element as pivot.
		store := lo
		for m := lo + 1; m <= hi; m++ {
			if centroidAxis(shapes[m], axis) < pivotVal {
				store++
				shapes[store], shapes[m] = shapes[m], shapes[store]
			}
		}
		shapes[lo], shapes[store] = shapes[store], shapes[lo]
		pivotIdx := store
		_ = i
		_ = j

		switch {
		case k == pivotIdx:
			return
		case k < pivotIdx:
			hi = pivotIdx - 1
		default:
			lo = pivotIdx + 1
		}
	}
}

// Intersect traverses the BVH, testing both children of every internal
// node it enters (no early termination between children), so primitives
// straddling node boundaries are still found correctly.
func (bvh *BVH) Intersect(ray Ray, tMin, tMax float64) Intersection {
	if bvh.Root == nil {
		return Miss
	}
	return intersectNode(bvh.Root, ray, tMin, tMax)
}

func intersectNode(node *BVHNode, ray Ray, tMin, tMax float64) Intersection {
	if !node.Box.IsIntersect(ray) {
		return Miss
	}
	if node.isLeaf() {
		return node.Primitive.Intersect(ray, tMin, tMax)
	}

	left := intersectNode(node.Left, ray, tMin, tMax)
	closest := tMax
	if left.Hit {
		closest = left.T
	}
	right := intersectNode(node.Right, ray, tMin, closest)

	if right.Hit && (!left.Hit || right.T < left.T) {
		return right
	}
	return left
}

// Sample selects a primitive point proportional to surface area. The
// caller must ensure 0 <= areaThreshold <= Area + EpsAreaSlack.
func (bvh *BVH) Sample(areaThreshold float64, rng *RNG) (position, normal Vec3) {
	return sampleNode(bvh.Root, areaThreshold, rng)
}

func sampleNode(node *BVHNode, areaThreshold float64, rng *RNG) (Vec3, Vec3) {
	if node.isLeaf() {
		return node.Primitive.SampleInArea(areaThreshold, rng)
	}
	if areaThreshold <= node.Left.Area {
		return sampleNode(node.Left, areaThreshold, rng)
	}
	return sampleNode(node.Right, areaThreshold-node.Left.Area, rng)
}

// NodeCount returns the total number of nodes in the tree (2n-1 for n
// primitives).
func (bvh *BVH) NodeCount() int {
	if bvh.Root == nil {
		return 0
	}
	return countNodes(bvh.Root)
}

func countNodes(n *BVHNode) int {
	if n.isLeaf() {
		return 1
	}
	return 1 + countNodes(n.Left) + countNodes(n.Right)
}
