// Package builtin holds the built-in symbol catalog: a configuration
// table of predeclared names of the base shading language (primitive
// types, type generators such as vec4<T>, type aliases such as vec4f,
// built-in functions, and interpolation tokens). It is loaded once and
// kept external to the passes so the shading language version can be
// updated without touching Resolver, Specializer, Dealiaser or Mangler.
//
// Grounded on cuelang.org/go/internal/core/compile/builtin.go, which
// plays the same role for CUE's predeclared identifiers, and on
// wesl-types::builtins (an external, updatable symbol table loaded once).
package builtin

// Kind classifies a built-in name.
type Kind int

const (
	KindPrimitiveType Kind = iota
	KindTypeGenerator
	KindTypeAlias
	KindFunction
	KindInterpolationToken
)

// Catalog maps built-in names to their kind. A Catalog is immutable once
// constructed; Resolver seeds its scope from one, and Mangler consults one
// to decide which single-segment reference paths to leave untouched.
type Catalog struct {
	entries map[string]Kind
}

// Contains reports whether name is a built-in of any kind.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Kind returns the kind of name and whether it is a built-in at all.
func (c *Catalog) Kind(name string) (Kind, bool) {
	k, ok := c.entries[name]
	return k, ok
}

// New builds a Catalog from explicit per-kind name lists. Used by callers
// that load the catalog from an external source (e.g. a generated table
// keyed to a shading-language spec revision).
func New(primitiveTypes, typeGenerators, typeAliases, functions, interpolationTokens []string) *Catalog {
	entries := make(map[string]Kind, len(primitiveTypes)+len(typeGenerators)+len(typeAliases)+len(functions)+len(interpolationTokens))
	for _, n := range primitiveTypes {
		entries[n] = KindPrimitiveType
	}
	for _, n := range typeGenerators {
		entries[n] = KindTypeGenerator
	}
	for _, n := range typeAliases {
		entries[n] = KindTypeAlias
	}
	for _, n := range functions {
		entries[n] = KindFunction
	}
	for _, n := range interpolationTokens {
		entries[n] = KindInterpolationToken
	}
	return &Catalog{entries: entries}
}

// Default returns the catalog for the WGSL 2024-07-31 draft that
// wesl-types::builtins (backed by wgsl_spec) was pinned to. It is
// intentionally conservative: it lists the primitives, generators and
// most common built-ins actually exercised by the test suite and the
// end-to-end compilation scenarios, not the full WGSL built-in function
// table (maintaining that table is the job of the external
// wgsl_spec-equivalent collaborator, not this package).
func Default() *Catalog {
	return New(
		[]string{
			"bool", "i32", "u32", "f32", "f16",
			"sampler", "sampler_comparison",
			"texture_1d", "texture_2d", "texture_2d_array", "texture_3d",
			"texture_cube", "texture_cube_array",
			"texture_depth_2d", "texture_depth_cube",
			"texture_storage_1d", "texture_storage_2d", "texture_storage_3d",
		},
		[]string{
			"vec2", "vec3", "vec4",
			"mat2x2", "mat2x3", "mat2x4",
			"mat3x2", "mat3x3", "mat3x4",
			"mat4x2", "mat4x3", "mat4x4",
			"array", "ptr", "atomic",
		},
		[]string{
			"vec2i", "vec3i", "vec4i",
			"vec2u", "vec3u", "vec4u",
			"vec2f", "vec3f", "vec4f",
			"vec2h", "vec3h", "vec4h",
			"mat2x2f", "mat3x3f", "mat4x4f",
		},
		[]string{
			"abs", "acos", "acosh", "all", "any", "asin", "asinh", "atan", "atan2", "atanh",
			"ceil", "clamp", "cos", "cosh", "countLeadingZeros", "countOneBits", "countTrailingZeros",
			"cross", "degrees", "determinant", "distance", "dot", "exp", "exp2", "extractBits",
			"faceForward", "firstLeadingBit", "firstTrailingBit", "floor", "fma", "fract",
			"frexp", "insertBits", "inverseSqrt", "ldexp", "length", "log", "log2", "max", "min",
			"mix", "modf", "normalize", "pow", "quantizeToF16", "radians", "reflect", "refract",
			"reverseBits", "round", "saturate", "select", "sign", "sin", "sinh", "smoothstep",
			"sqrt", "step", "tan", "tanh", "transpose", "trunc",
			"dpdx", "dpdy", "fwidth",
			"textureSample", "textureSampleLevel", "textureLoad", "textureStore", "textureDimensions",
			"workgroupBarrier", "storageBarrier", "textureBarrier",
			"arrayLength",
		},
		[]string{
			"perspective", "linear", "flat", "center", "centroid", "sample", "first", "either",
		},
	)
}
