package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"studio-emulator/internal/scene"
)

// cached holds a unit mesh and its lit material. Created lazily on first draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
	// fix is applied in model space before the node's scale, to bring raylib's mesh into the
	// orientation scene nodes expect.
	fix mgl32.Mat4
}

// Registry maps node shapes to unit meshes sharing one lit shader. Meshes are created on first
// use so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache  map[scene.Shape]cached
	shader rl.Shader
	locs   uniformLocs
	closed bool
}

type uniformLocs struct {
	viewPos, lightDir, ambient, lightColor, lightIntensity int32
	specularPower, specularStrength                        int32
	emissive, fogColor, fogNear, fogFar                    int32
}

// NewRegistry returns a registry with no meshes.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[scene.Shape]cached)}
}

// lightColor is a soft warm-white for the directional light.
var lightColor = [3]float32{1.0, 0.98, 0.95}

const (
	// specularPower controls highlight tightness (higher = smaller, sharper highlight).
	specularPower = float32(48.0)
	// specularStrength scales specular contribution (0–1).
	specularStrength = float32(0.25)
)

func (r *Registry) ensureShader() {
	if rl.IsShaderValid(r.shader) {
		return
	}
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	if !rl.IsShaderValid(r.shader) {
		return
	}
	loc := func(name string) int32 { return rl.GetShaderLocation(r.shader, name) }
	r.locs = uniformLocs{
		viewPos:          loc("viewPos"),
		lightDir:         loc("lightDir"),
		ambient:          loc("ambient"),
		lightColor:       loc("lightColor"),
		lightIntensity:   loc("lightIntensity"),
		specularPower:    loc("specularPower"),
		specularStrength: loc("specularStrength"),
		emissive:         loc("emissive"),
		fogColor:         loc("fogColor"),
		fogNear:          loc("fogNear"),
		fogFar:           loc("fogFar"),
	}
}

// ensure creates the mesh for shape if not yet cached.
func (r *Registry) ensure(shape scene.Shape) (cached, bool) {
	if c, ok := r.cache[shape]; ok {
		return c, true
	}
	var c cached
	switch shape {
	case scene.ShapeBox:
		c.mesh = rl.GenMeshCube(1, 1, 1)
		c.fix = mgl32.Ident4()
	case scene.ShapePlane:
		// raylib planes lie in XZ facing +Y; scene planes lie in XY facing +Z.
		c.mesh = rl.GenMeshPlane(1, 1, 1, 1)
		c.fix = mgl32.HomogRotate3DX(mgl32.DegToRad(90))
	default:
		return cached{}, false
	}
	r.ensureShader()
	c.mtl = rl.LoadMaterialDefault()
	if rl.IsShaderValid(r.shader) {
		c.mtl.Shader = r.shader
	}
	r.cache[shape] = c
	return c, true
}

// setFrameUniforms sets the per-frame lighting and fog uniforms (cgo-safe: local arrays).
func (r *Registry) setFrameUniforms(env scene.Environment, viewPos mgl32.Vec3) {
	r.ensureShader()
	if !rl.IsShaderValid(r.shader) {
		return
	}
	s, l := r.shader, r.locs
	dir := env.LightPosition.Normalize()
	view := [3]float32{viewPos.X(), viewPos.Y(), viewPos.Z()}
	light := [3]float32{dir.X(), dir.Y(), dir.Z()}
	amb := [4]float32{env.Ambient, env.Ambient, env.Ambient, 1}
	lc := lightColor
	fog := colorVec4(env.Fog, 1)
	setVec(s, l.viewPos, view[:], rl.ShaderUniformVec3)
	setVec(s, l.lightDir, light[:], rl.ShaderUniformVec3)
	setVec(s, l.ambient, amb[:], rl.ShaderUniformVec4)
	setVec(s, l.lightColor, lc[:], rl.ShaderUniformVec3)
	setVec(s, l.fogColor, fog[:], rl.ShaderUniformVec4)
	setFloat(s, l.lightIntensity, env.LightIntensity)
	setFloat(s, l.specularPower, specularPower)
	setFloat(s, l.specularStrength, specularStrength)
	setFloat(s, l.fogNear, env.FogNear)
	setFloat(s, l.fogFar, env.FogFar)
}

// drawNode draws one solid node with its world transform. Unknown shapes are skipped.
func (r *Registry) drawNode(n *scene.Node, world mgl32.Mat4) {
	c, ok := r.ensure(n.Shape)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(n.Color.R, n.Color.G, n.Color.B, n.Color.A)
	}
	if rl.IsShaderValid(r.shader) {
		em := colorVec4(n.Emissive, n.EmissiveIntensity)
		em[3] = 0
		setVec(r.shader, r.locs.emissive, em[:], rl.ShaderUniformVec4)
	}
	sx, sy, sz := n.Size.X(), n.Size.Y(), n.Size.Z()
	if n.Shape == scene.ShapePlane {
		// The plane mesh is flat after the fix; keep its normal usable.
		sz = 1
	}
	model := world.Mul4(mgl32.Scale3D(sx, sy, sz)).Mul4(c.fix)
	if n.DoubleSided {
		rl.DisableBackfaceCulling()
	}
	rl.DrawMesh(c.mesh, c.mtl, toMatrix(model))
	if n.DoubleSided {
		rl.EnableBackfaceCulling()
	}
}

// Close unloads every cached mesh and the shared shader. It is safe to call more than once.
func (r *Registry) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		// The shared shader is unloaded once below, not per material.
		c.mtl.Shader = rl.Shader{}
		rl.UnloadMaterial(c.mtl)
		delete(r.cache, k)
	}
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
}

func setVec(s rl.Shader, loc int32, v []float32, typ rl.ShaderUniformDataType) {
	if loc >= 0 {
		rl.SetShaderValueV(s, loc, v, typ, 1)
	}
}

func setFloat(s rl.Shader, loc int32, v float32) {
	if loc >= 0 {
		rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

// colorVec4 converts c to linear 0–1 components with rgb scaled by k.
func colorVec4(c color.RGBA, k float32) [4]float32 {
	return [4]float32{
		float32(c.R) / 255 * k,
		float32(c.G) / 255 * k,
		float32(c.B) / 255 * k,
		float32(c.A) / 255,
	}
}

// toMatrix converts column-major mgl32 storage into raylib's matrix, whose Mi fields follow the
// same index order.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	// litFS: directional light + ambient + specular, then emissive, then linear distance fog.
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform vec4 emissive;
uniform vec4 fogColor;
uniform float fogNear;
uniform float fogFar;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  if (!gl_FrontFacing) N = -N;
  vec3 L = normalize(lightDir);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  vec3 lit = amb + diffuse + specular + emissive.rgb;
  float dist = length(viewPos - fragPosition);
  float f = clamp((dist - fogNear) / max(fogFar - fogNear, 0.0001), 0.0, 1.0);
  finalColor = vec4(mix(lit, fogColor.rgb, f), tint.a);
}
`
)
