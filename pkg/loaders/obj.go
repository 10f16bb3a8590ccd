// Package loaders reads Wavefront OBJ/MTL meshes and writes rendered
// images.
package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ilyagrishkov/raytracer/pkg/core"
)

// LoadOBJ parses a Wavefront .obj file into triangle faces and the
// material table referenced by its mtllib. Polygons are fan-triangulated;
// faces without a usemtl in scope get material index −1 (the default
// material). A missing or broken .mtl file is tolerated: the faces keep
// index −1.
func LoadOBJ(path string) ([]core.Face, []core.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	var positions []core.Vec3
	var normals []core.Vec3
	var faces []core.Face
	var materials []core.Material
	materialIndex := make(map[string]int)
	currentMaterial := -1

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "v":
			if len(parts) >= 4 {
				positions = append(positions, parseVec3(parts[1], parts[2], parts[3]))
			}
		case "vn":
			if len(parts) >= 4 {
				normals = append(normals, parseVec3(parts[1], parts[2], parts[3]))
			}
		case "f":
			faces = append(faces, parseFaceLine(parts[1:], positions, normals, currentMaterial)...)
		case "usemtl":
			if len(parts) > 1 {
				if idx, ok := materialIndex[parts[1]]; ok {
					currentMaterial = idx
				} else {
					currentMaterial = -1
				}
			}
		case "mtllib":
			if len(parts) > 1 {
				mtlPath := filepath.Join(filepath.Dir(path), parts[1])
				loaded, names, err := LoadMTL(mtlPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to load MTL file %s: %v\n", mtlPath, err)
					continue
				}
				for i, name := range names {
					materialIndex[name] = len(materials) + i
				}
				materials = append(materials, loaded...)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read OBJ file: %w", err)
	}
	if len(faces) == 0 {
		return nil, nil, fmt.Errorf("no face data found in %s", path)
	}

	return faces, materials, nil
}

// parseFaceLine fan-triangulates one f record. Vertex references are
// "v", "v/vt", "v/vt/vn" or "v//vn"; indices may be negative (relative).
func parseFaceLine(refs []string, positions, normals []core.Vec3, materialID int) []core.Face {
	type vertex struct {
		pos    core.Vec3
		normal core.Vec3
		hasN   bool
	}

	verts := make([]vertex, 0, len(refs))
	for _, ref := range refs {
		fields := strings.Split(ref, "/")
		pi, ok := resolveIndex(fields[0], len(positions))
		if !ok {
			continue
		}
		v := vertex{pos: positions[pi]}
		if len(fields) >= 3 {
			if ni, ok := resolveIndex(fields[2], len(normals)); ok {
				v.normal = normals[ni]
				v.hasN = true
			}
		}
		verts = append(verts, v)
	}
	if len(verts) < 3 {
		return nil
	}

	faces := make([]core.Face, 0, len(verts)-2)
	for i := 2; i < len(verts); i++ {
		a, b, c := verts[0], verts[i-1], verts[i]
		if a.hasN && b.hasN && c.hasN {
			n := a.normal.Add(b.normal).Add(c.normal).Normalize()
			faces = append(faces, core.NewFaceWithNormal(a.pos, b.pos, c.pos, n, materialID))
		} else {
			faces = append(faces, core.NewFace(a.pos, b.pos, c.pos, materialID))
		}
	}
	return faces
}

// resolveIndex turns a 1-based (or negative, relative) OBJ index into a
// slice index.
func resolveIndex(field string, length int) (int, bool) {
	if field == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	if idx < 0 {
		idx = length + idx
	} else {
		idx--
	}
	if idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

// LoadMTL parses a Wavefront .mtl file into Phong materials. The second
// return value lists material names in definition order, aligned with the
// returned slice.
func LoadMTL(path string) ([]core.Material, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open MTL file: %w", err)
	}
	defer f.Close()

	var materials []core.Material
	var names []string
	current := -1

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "newmtl":
			if len(parts) > 1 {
				materials = append(materials, core.DefaultMaterial)
				names = append(names, parts[1])
				current = len(materials) - 1
			}
		case "Ka":
			if current >= 0 && len(parts) >= 4 {
				materials[current].Ka = parseVec3(parts[1], parts[2], parts[3])
			}
		case "Kd":
			if current >= 0 && len(parts) >= 4 {
				materials[current].Kd = parseVec3(parts[1], parts[2], parts[3])
			}
		case "Ks":
			if current >= 0 && len(parts) >= 4 {
				materials[current].Ks = parseVec3(parts[1], parts[2], parts[3])
			}
		case "Ns":
			if current >= 0 && len(parts) >= 2 {
				ns, err := strconv.ParseFloat(parts[1], 64)
				if err == nil {
					materials[current].Shininess = ns
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read MTL file: %w", err)
	}

	return materials, names, nil
}

func parseVec3(xs, ys, zs string) core.Vec3 {
	x, _ := strconv.ParseFloat(xs, 64)
	y, _ := strconv.ParseFloat(ys, 64)
	z, _ := strconv.ParseFloat(zs, 64)
	return core.NewVec3(x, y, z)
}
