package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/ilyagrishkov/raytracer/pkg/core"
	"github.com/ilyagrishkov/raytracer/pkg/renderer"
	"github.com/ilyagrishkov/raytracer/pkg/scene"
)

// maxPreviewLights matches the uniform array size in the fragment shader.
const maxPreviewLights = 8

const meshVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;

uniform mat4 view;
uniform mat4 projection;

out vec3 FragPos;
out vec3 Normal;
out vec3 Color;

void main() {
    FragPos = aPos;
    Normal = aNormal;
    Color = aColor;
    gl_Position = projection * view * vec4(aPos, 1.0);
}
`

const meshFragmentShader = `#version 410 core
in vec3 FragPos;
in vec3 Normal;
in vec3 Color;

uniform vec3 eyePos;
uniform int numLights;
uniform vec3 lightPos[8];

out vec4 FragColor;

void main() {
    vec3 norm = normalize(Normal);
    if (!gl_FrontFacing) {
        norm = -norm;
    }
    vec3 result = 0.3 * Color;
    vec3 viewDir = normalize(eyePos - FragPos);
    for (int i = 0; i < numLights; i++) {
        vec3 lightDir = normalize(lightPos[i] - FragPos);
        float diff = max(dot(norm, lightDir), 0.0);
        vec3 reflectDir = reflect(-lightDir, norm);
        float spec = pow(max(dot(viewDir, reflectDir), 0.0), 16.0);
        result += diff * Color + spec * vec3(0.3);
    }
    FragColor = vec4(result, 1.0);
}
`

const lineVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * vec4(aPos, 1.0);
    gl_PointSize = 8.0;
}
`

const lineFragmentShader = `#version 410 core
uniform vec3 lineColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(lineColor, 1.0);
}
`

// Preview draws the mesh, the light markers and the latest debug ray
// with plain OpenGL while the user flies the camera.
type Preview struct {
	meshShader *Shader
	lineShader *Shader

	meshVAO, meshVBO uint32
	vertexCount      int32

	lineVAO, lineVBO uint32
}

// NewPreview uploads the mesh and compiles the preview shaders. Must run
// on the thread owning the GL context.
func NewPreview(s *scene.Scene) (*Preview, error) {
	meshShader, err := NewShader(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, err
	}
	lineShader, err := NewShader(lineVertexShader, lineFragmentShader)
	if err != nil {
		meshShader.Delete()
		return nil, err
	}

	p := &Preview{meshShader: meshShader, lineShader: lineShader}
	p.uploadMesh(s)

	gl.GenVertexArrays(1, &p.lineVAO)
	gl.BindVertexArray(p.lineVAO)
	gl.GenBuffers(1, &p.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.lineVBO)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	return p, nil
}

// uploadMesh flattens the faces into position/normal/diffuse triples.
func (p *Preview) uploadMesh(s *scene.Scene) {
	vertices := make([]float32, 0, len(s.Faces)*3*9)
	push := func(v, n, c core.Vec3) {
		vertices = append(vertices,
			float32(v.X), float32(v.Y), float32(v.Z),
			float32(n.X), float32(n.Y), float32(n.Z),
			float32(c.X), float32(c.Y), float32(c.Z))
	}
	for i := range s.Faces {
		f := &s.Faces[i]
		mat := core.MaterialOrDefault(s.Materials, f.MaterialID)
		push(f.V0, f.Normal, mat.Kd)
		push(f.V1, f.Normal, mat.Kd)
		push(f.V2, f.Normal, mat.Kd)
	}
	p.vertexCount = int32(len(s.Faces) * 3)

	gl.GenVertexArrays(1, &p.meshVAO)
	gl.BindVertexArray(p.meshVAO)
	gl.GenBuffers(1, &p.meshVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(9 * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)
}

// Draw renders one frame of the preview.
func (p *Preview) Draw(view, projection mgl32.Mat4, eye mgl32.Vec3, lights []core.Vec3, background core.Vec3, debug *renderer.DebugRay) {
	bg := background.ToMgl32()
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p.meshShader.Use()
	p.meshShader.SetMat4("view", view)
	p.meshShader.SetMat4("projection", projection)
	p.meshShader.SetVec3("eyePos", eye)

	numLights := len(lights)
	if numLights > maxPreviewLights {
		numLights = maxPreviewLights
	}
	p.meshShader.SetInt("numLights", int32(numLights))
	for i := 0; i < numLights; i++ {
		p.meshShader.SetVec3(lightUniform(i), lights[i].ToMgl32())
	}

	gl.BindVertexArray(p.meshVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, p.vertexCount)
	gl.BindVertexArray(0)

	p.lineShader.Use()
	p.lineShader.SetMat4("view", view)
	p.lineShader.SetMat4("projection", projection)

	if debug != nil && len(debug.Points) > 1 {
		p.drawStrip(debug.Points, mgl32.Vec3{1, 1, 0}, gl.LINE_STRIP)
	}
	if len(lights) > 0 {
		p.drawStrip(lights, mgl32.Vec3{1, 1, 1}, gl.POINTS)
	}
}

// drawStrip streams the points into the line VBO and draws them.
func (p *Preview) drawStrip(points []core.Vec3, color mgl32.Vec3, mode uint32) {
	flat := make([]float32, 0, len(points)*3)
	for _, pt := range points {
		flat = append(flat, float32(pt.X), float32(pt.Y), float32(pt.Z))
	}
	p.lineShader.SetVec3("lineColor", color)
	gl.BindVertexArray(p.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(flat)*4, gl.Ptr(flat), gl.DYNAMIC_DRAW)
	gl.DrawArrays(mode, 0, int32(len(points)))
	gl.BindVertexArray(0)
}

// Delete releases GL resources.
func (p *Preview) Delete() {
	p.meshShader.Delete()
	p.lineShader.Delete()
	gl.DeleteVertexArrays(1, &p.meshVAO)
	gl.DeleteBuffers(1, &p.meshVBO)
	gl.DeleteVertexArrays(1, &p.lineVAO)
	gl.DeleteBuffers(1, &p.lineVBO)
}

func lightUniform(i int) string {
	return fmt.Sprintf("lightPos[%d]", i)
}
