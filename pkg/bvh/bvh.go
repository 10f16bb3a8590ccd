// Package bvh builds and traverses a bounding-volume hierarchy over mesh
// faces. Construction runs in two stages: a flat partition of the face list
// into fixed-size leaf groups, then a recursive midpoint subdivision of the
// root box. Nodes live in a contiguous arena and reference children by
// index; traversal is strictly top-down.
package bvh

import (
	"errors"

	"github.com/ilyagrishkov/raytracer/pkg/core"
)

const (
	// LeafGroup is the number of consecutive faces per stage-1 leaf box,
	// and the face count at or below which stage-2 subdivision stops.
	LeafGroup = 100
	// MaxDepth bounds the stage-2 subdivision depth.
	MaxDepth = 5
)

// ErrEmptyMesh is returned when a tree is built over zero faces.
var ErrEmptyMesh = errors.New("bvh: mesh has no faces")

// node is one arena entry. Internal nodes keep their face list after
// splitting; traversal descends into children whenever any exist.
type node struct {
	bounds   core.AABB
	faces    []int32 // indices into Tree.faces
	children []int32 // arena indices; empty for leaves
}

// Tree is an arena-backed BVH over a face slice. Immutable once built and
// safe for concurrent traversal.
type Tree struct {
	faces []core.Face
	flat  []core.AABB // stage-1 leaf boxes, in face order
	nodes []node      // nodes[0] is the root
}

// TraversalStats counts per-traversal work. Carried explicitly by the
// caller instead of process-wide counters.
type TraversalStats struct {
	BoxTests int
	BoxHits  int
}

// NewTree builds the hierarchy for the given faces. The face slice is
// retained and must not be mutated afterwards.
func NewTree(faces []core.Face) (*Tree, error) {
	if len(faces) == 0 {
		return nil, ErrEmptyMesh
	}

	t := &Tree{faces: faces}
	t.flat = groupFaces(faces)

	// The stage-1 boxes jointly cover every vertex, so their union is the
	// root bounds.
	root := core.EmptyAABB()
	for _, box := range t.flat {
		root = root.Union(box)
	}

	all := make([]int32, len(faces))
	for i := range all {
		all[i] = int32(i)
	}
	t.nodes = append(t.nodes, node{bounds: root, faces: all})
	t.split(0, 0)

	return t, nil
}

// groupFaces is the stage-1 flat partition: every LeafGroup consecutive
// faces form one leaf box, the last group may be shorter.
func groupFaces(faces []core.Face) []core.AABB {
	boxes := make([]core.AABB, 0, (len(faces)+LeafGroup-1)/LeafGroup)
	current := core.EmptyAABB()
	for i := range faces {
		current = current.ExpandFace(&faces[i])
		if i%LeafGroup == LeafGroup-1 || i == len(faces)-1 {
			boxes = append(boxes, current)
			current = core.EmptyAABB()
		}
	}
	return boxes
}

// split recursively subdivides the node at idx. Faces are assigned to the
// half their centroid falls in, split on the longest axis of the parent box
// at its midpoint; centroids exactly on the midpoint go to the lower half.
func (t *Tree) split(idx int32, depth int) {
	if len(t.nodes[idx].faces) <= LeafGroup || depth == MaxDepth {
		return
	}

	bounds := t.nodes[idx].bounds
	axis := bounds.LongestAxis()
	mid := bounds.Center().Axis(axis)

	var lower, upper []int32
	for _, fi := range t.nodes[idx].faces {
		c := t.faces[fi].Centroid().Axis(axis)
		if c <= mid {
			lower = append(lower, fi)
		} else {
			upper = append(upper, fi)
		}
	}

	// Degenerate split: all centroids in one half, nothing to gain.
	if len(lower) == 0 || len(upper) == 0 {
		return
	}

	for _, subset := range [][]int32{lower, upper} {
		childBounds := core.EmptyAABB()
		for _, fi := range subset {
			childBounds = childBounds.ExpandFace(&t.faces[fi])
		}
		child := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{bounds: childBounds, faces: subset})
		t.nodes[idx].children = append(t.nodes[idx].children, child)
		t.split(child, depth+1)
	}
}

// Faces returns the face slice the tree was built over.
func (t *Tree) Faces() []core.Face {
	return t.faces
}

// FlatLeaves returns the stage-1 leaf boxes in face order.
func (t *Tree) FlatLeaves() []core.AABB {
	return t.flat
}

// Bounds returns the root box.
func (t *Tree) Bounds() core.AABB {
	return t.nodes[0].bounds
}

// Candidates gathers the indices of faces whose leaf boxes the segment
// origin→dest enters. The result is a superset of the faces the segment
// actually intersects; ordering is unspecified. A nil stats is allowed.
func (t *Tree) Candidates(origin, dest core.Vec3, stats *TraversalStats) []int32 {
	return t.AppendCandidates(nil, origin, dest, stats)
}

// AppendCandidates is Candidates with a caller-owned collector, so hot
// loops can reuse one allocation across rays.
func (t *Tree) AppendCandidates(dst []int32, origin, dest core.Vec3, stats *TraversalStats) []int32 {
	return t.collect(dst, 0, origin, dest, stats)
}

func (t *Tree) collect(dst []int32, idx int32, origin, dest core.Vec3, stats *TraversalStats) []int32 {
	n := &t.nodes[idx]
	if stats != nil {
		stats.BoxTests++
	}
	if !n.bounds.IntersectSegment(origin, dest) {
		return dst
	}
	if stats != nil {
		stats.BoxHits++
	}
	if len(n.children) == 0 {
		return append(dst, n.faces...)
	}
	for _, child := range n.children {
		dst = t.collect(dst, child, origin, dest, stats)
	}
	return dst
}

// TreeStats summarizes the built hierarchy for logging.
type TreeStats struct {
	Nodes     int
	Leaves    int
	MaxDepth  int
	FlatBoxes int
}

// Stats walks the arena and reports node counts and depth.
func (t *Tree) Stats() TreeStats {
	stats := TreeStats{Nodes: len(t.nodes), FlatBoxes: len(t.flat)}
	t.measure(0, 0, &stats)
	return stats
}

func (t *Tree) measure(idx int32, depth int, stats *TreeStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	n := &t.nodes[idx]
	if len(n.children) == 0 {
		stats.Leaves++
		return
	}
	for _, child := range n.children {
		t.measure(child, depth+1, stats)
	}
}
