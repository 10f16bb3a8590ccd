package core

import (
	"testing"
)

func unitBox() AABB {
	return NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
}

func TestAABB_EmptyAndExpand(t *testing.T) {
	box := EmptyAABB()
	if !box.IsEmpty() {
		t.Error("EmptyAABB should be empty")
	}

	box = box.ExpandPoint(NewVec3(1, 2, 3))
	if box.IsEmpty() {
		t.Error("box with one point should not be empty")
	}
	if !box.Min.Equals(NewVec3(1, 2, 3)) || !box.Max.Equals(NewVec3(1, 2, 3)) {
		t.Errorf("single-point box = %v..%v", box.Min, box.Max)
	}

	box = box.ExpandPoint(NewVec3(-1, 0, 5))
	if !box.Min.Equals(NewVec3(-1, 0, 3)) || !box.Max.Equals(NewVec3(1, 2, 5)) {
		t.Errorf("expanded box = %v..%v", box.Min, box.Max)
	}
}

func TestAABB_AroundFaces(t *testing.T) {
	faces := []Face{
		NewFace(NewVec3(-1, -1, -5), NewVec3(1, -1, -5), NewVec3(0, 1, -5), -1),
		NewFace(NewVec3(2, 0, 0), NewVec3(3, 0, 0), NewVec3(2.5, 1, 1), -1),
	}
	box := NewAABBAroundFaces(faces)

	for i := range faces {
		if !box.ContainsFace(&faces[i]) {
			t.Errorf("face %d not contained in %v..%v", i, box.Min, box.Max)
		}
	}
	if !box.Min.Equals(NewVec3(-1, -1, -5)) || !box.Max.Equals(NewVec3(3, 1, 1)) {
		t.Errorf("bounds = %v..%v", box.Min, box.Max)
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		max  Vec3
		want int
	}{
		{NewVec3(10, 1, 1), 0},
		{NewVec3(1, 10, 1), 1},
		{NewVec3(1, 1, 10), 2},
	}
	for _, tt := range tests {
		box := NewAABB(NewVec3(0, 0, 0), tt.max)
		if got := box.LongestAxis(); got != tt.want {
			t.Errorf("LongestAxis(%v) = %d, want %d", tt.max, got, tt.want)
		}
	}
}

func TestAABB_IntersectSegment(t *testing.T) {
	box := unitBox()

	tests := []struct {
		name string
		p, q Vec3
		want bool
	}{
		{"through the middle", NewVec3(-1, 0.5, 0.5), NewVec3(2, 0.5, 0.5), true},
		{"fully inside", NewVec3(0.25, 0.25, 0.25), NewVec3(0.75, 0.75, 0.75), true},
		{"parallel above", NewVec3(-1, 2, 0.5), NewVec3(2, 2, 0.5), false},
		{"stops short", NewVec3(-3, 0.5, 0.5), NewVec3(-2, 0.5, 0.5), false},
		{"starts past", NewVec3(2, 0.5, 0.5), NewVec3(3, 0.5, 0.5), false},
		{"diagonal through corner region", NewVec3(-1, -1, -1), NewVec3(2, 2, 2), true},
		{"diagonal missing the box", NewVec3(-1, 1.5, 0.5), NewVec3(0.5, 3, 0.5), false},
		{"degenerate point inside", NewVec3(0.5, 0.5, 0.5), NewVec3(0.5, 0.5, 0.5), true},
		{"degenerate point outside", NewVec3(5, 5, 5), NewVec3(5, 5, 5), false},
	}
	for _, tt := range tests {
		if got := box.IntersectSegment(tt.p, tt.q); got != tt.want {
			t.Errorf("%s: IntersectSegment(%v, %v) = %v, want %v", tt.name, tt.p, tt.q, got, tt.want)
		}
	}
}

func TestAABB_IntersectSegment_TouchingFace(t *testing.T) {
	// Segment entering through the z=0 face and ending inside the box: the
	// contract never allows a false negative for a segment reaching the
	// interior.
	box := unitBox()
	if !box.IntersectSegment(NewVec3(0.5, 0.5, -1), NewVec3(0.5, 0.5, 0.5)) {
		t.Error("segment ending inside the box must intersect")
	}
}

func TestAABB_Contains(t *testing.T) {
	box := unitBox()
	if !box.Contains(NewVec3(0, 0, 0)) || !box.Contains(NewVec3(1, 1, 1)) {
		t.Error("boundary points must be inside (inclusive)")
	}
	if box.Contains(NewVec3(1.001, 0.5, 0.5)) {
		t.Error("outside point reported inside")
	}
}

func TestAABB_Union(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(2, -1, 0), NewVec3(3, 0.5, 2))
	u := a.Union(b)
	if !u.Min.Equals(NewVec3(0, -1, 0)) || !u.Max.Equals(NewVec3(3, 1, 2)) {
		t.Errorf("Union = %v..%v", u.Min, u.Max)
	}
}

func TestMaterialOrDefault(t *testing.T) {
	table := []Material{{Kd: NewVec3(1, 0, 0)}}

	if got := MaterialOrDefault(table, 0); !got.Kd.Equals(NewVec3(1, 0, 0)) {
		t.Errorf("MaterialOrDefault(0) = %v", got.Kd)
	}
	for _, id := range []int{-1, 1, 99} {
		got := MaterialOrDefault(table, id)
		if !got.Kd.Equals(DefaultMaterial.Kd) || !got.Ka.Equals(DefaultMaterial.Ka) {
			t.Errorf("MaterialOrDefault(%d) should be the default material", id)
		}
	}
}

func TestNewFace_Normal(t *testing.T) {
	f := NewFace(NewVec3(0, 0, 0), NewVec3(1, 0, 0), NewVec3(0, 1, 0), 2)
	if !f.Normal.Equals(NewVec3(0, 0, 1)) {
		t.Errorf("Normal = %v, want {0,0,1}", f.Normal)
	}
	if f.MaterialID != 2 {
		t.Errorf("MaterialID = %d", f.MaterialID)
	}

	// Degenerate face keeps a zero normal rather than NaN
	d := NewFace(NewVec3(1, 1, 1), NewVec3(1, 1, 1), NewVec3(2, 2, 2), -1)
	if !d.Normal.IsZero() {
		t.Errorf("degenerate normal = %v, want zero", d.Normal)
	}

	c := f.Centroid()
	if !c.Equals(NewVec3(1.0/3, 1.0/3, 0)) {
		t.Errorf("Centroid = %v", c)
	}
}
