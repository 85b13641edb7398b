package raster

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"fractal-bench/internal/render/shade"
	"fractal-bench/internal/scene"
)

// cached holds a unit primitive mesh with its lit and unlit materials. Created
// lazily because GPU resources need the GL context.
type cached struct {
	mesh  rl.Mesh
	lit   rl.Material
	unlit rl.Material
}

// registry maps primitive keys to GPU meshes.
type registry struct {
	cache  map[string]cached
	shader rl.Shader
	rig    shade.Rig
}

func newRegistry() *registry {
	return &registry{cache: make(map[string]cached)}
}

// key returns the cache key and unit scale of a primitive mesh. Unit meshes are
// scaled by the model matrix.
func key(m *scene.Mesh) (string, float64) {
	switch m.Primitive {
	case scene.PrimitiveCube:
		return "cube", m.Size
	case scene.PrimitivePlane:
		return "plane", m.Size
	case scene.PrimitiveUVSphere:
		return fmt.Sprintf("sphere/%d/%d", m.Rings, m.Segments), m.Radius
	}
	return "", 0
}

func (r *registry) ensure(k string, m *scene.Mesh) cached {
	if c, ok := r.cache[k]; ok {
		return c
	}
	var mesh rl.Mesh
	switch m.Primitive {
	case scene.PrimitiveCube:
		mesh = rl.GenMeshCube(1, 1, 1)
	case scene.PrimitivePlane:
		mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		mesh = rl.GenMeshSphere(1, int32(m.Rings), int32(m.Segments))
	}
	if !rl.IsShaderValid(r.shader) {
		r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	}
	lit := rl.LoadMaterialDefault()
	if rl.IsShaderValid(r.shader) {
		lit.Shader = r.shader
	}
	c := cached{mesh: mesh, lit: lit, unlit: rl.LoadMaterialDefault()}
	r.cache[k] = c
	return c
}

// setRig uploads the frame's light rig to the lit shader.
func (r *registry) setRig(rig shade.Rig) {
	r.rig = rig
	if !rl.IsShaderValid(r.shader) {
		r.shader = rl.LoadShaderFromMemory(litVS, litFS)
		if !rl.IsShaderValid(r.shader) {
			return
		}
	}
	vec3 := func(name string, v shade.Vec) {
		if loc := rl.GetShaderLocation(r.shader, name); loc >= 0 {
			val := [3]float32{v[0], v[1], v[2]}
			rl.SetShaderValueV(r.shader, loc, val[:], rl.ShaderUniformVec3, 1)
		}
	}
	float := func(name string, v float32) {
		if loc := rl.GetShaderLocation(r.shader, name); loc >= 0 {
			rl.SetShaderValue(r.shader, loc, []float32{v}, rl.ShaderUniformFloat)
		}
	}
	vec3("viewPos", rig.ViewPos)
	vec3("lightDir", rig.LightDir)
	vec3("ambient", rig.Ambient)
	vec3("lightColor", rig.Light)
	float("lightIntensity", rig.Intensity)
	float("specularPower", rig.SpecularPower)
	float("specularStrength", rig.SpecularStrength)
}

// draw draws a primitive with a column-major model matrix and flat color.
func (r *registry) draw(m *scene.Mesh, model [16]float32, color shade.Vec, emissive bool) {
	k, _ := key(m)
	c := r.ensure(k, m)
	mtl := c.lit
	if emissive {
		mtl = c.unlit
	}
	rgba := shade.RGBA8(color)
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(rgba[0], rgba[1], rgba[2], rgba[3])
	}
	rl.DrawMesh(c.mesh, mtl, rl.Matrix{
		M0: model[0], M1: model[1], M2: model[2], M3: model[3],
		M4: model[4], M5: model[5], M6: model[6], M7: model[7],
		M8: model[8], M9: model[9], M10: model[10], M11: model[11],
		M12: model[12], M13: model[13], M14: model[14], M15: model[15],
	})
}

// unload releases every GPU resource. The shader is shared by the lit materials.
func (r *registry) unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, k)
	}
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
	r.shader = rl.Shader{}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	// litFS is two-sided Blinn-Phong; shade.Rig.Shade is the CPU twin.
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec3 tint = colDiffuse.rgb;
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  if (dot(N, V) < 0.0) N = -N;
  vec3 L = normalize(lightDir);
  float NdotL = max(dot(N, L), 0.0);
  vec3 color = ambient * tint + tint * lightColor * NdotL * lightIntensity;
  if (NdotL > 0.0) {
    vec3 H = normalize(L + V);
    color += lightColor * pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  }
  finalColor = vec4(color, 1.0);
}
`
)
