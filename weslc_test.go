package mew

import (
	"strings"
	"testing"
)

// compile is a small helper around the scenarios in spec.md §8: it
// registers src as a single, unwrapped module (so the expected flat
// names in the scenarios below need no synthetic enclosing-module
// prefix) and compiles entry.
func compile(t *testing.T, src, entry string) string {
	t.Helper()
	c := NewCompiler()
	c.AddModule("", src)
	out, errs := c.Compile(entry)
	if len(errs) > 0 {
		t.Fatalf("Compile(%q) failed: %v", entry, errs)
	}
	return out
}

func TestCompilePlainModuleNesting(t *testing.T) {
	src := `mod A { fn f() {} } mod B { fn g() { A::f(); } }`
	out := compile(t, src, "B::g")

	if !strings.Contains(out, "fn B_g(") {
		t.Errorf("expected B_g in output, got:\n%s", out)
	}
	if !strings.Contains(out, "fn A_f(") {
		t.Errorf("expected A_f in output, got:\n%s", out)
	}
	if strings.Count(out, "fn ") != 2 {
		t.Errorf("expected exactly two functions, got:\n%s", out)
	}
	if idx := strings.Index(out, "B_g("); idx == -1 || !strings.Contains(out[idx:], "A_f()") {
		t.Errorf("expected B_g's body to call A_f(), got:\n%s", out)
	}
	if strings.Index(out, "fn B_g(") > strings.Index(out, "fn A_f(") {
		t.Errorf("expected entry function B_g first, got:\n%s", out)
	}
}

func TestCompileUseRename(t *testing.T) {
	src := `mod A { fn f(){} } use A::f as h; @compute fn main(){ h(); }`
	out := compile(t, src, "")

	if !strings.Contains(out, "A_f()") {
		t.Errorf("expected main to call A_f, got:\n%s", out)
	}
	if strings.Contains(out, "h(") || strings.Contains(out, "fn h(") {
		t.Errorf("expected rename h to dissolve entirely, got:\n%s", out)
	}
}

func TestCompileExtend(t *testing.T) {
	src := `mod A { fn f(){} } mod B { extend A; } @compute fn main(){ B::f(); }`
	out := compile(t, src, "")

	if n := strings.Count(out, "fn A_f("); n != 1 {
		t.Errorf("expected A_f to appear exactly once, got %d in:\n%s", n, out)
	}
	if !strings.Contains(out, "A_f()") {
		t.Errorf("expected main to call A_f, got:\n%s", out)
	}
}

func TestCompileGenericSpecialization(t *testing.T) {
	src := `fn id<T>(x: T) -> T { return x; } @compute fn main(){ let a = id<i32>(1); let b = id<f32>(1.0); }`
	out := compile(t, src, "")

	if !strings.Contains(out, "fn id_i32(") {
		t.Errorf("expected id_i32 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "fn id_f32(") {
		t.Errorf("expected id_f32 in output, got:\n%s", out)
	}
	if strings.Contains(out, "fn id<") || strings.Contains(out, "fn id(") {
		t.Errorf("expected the generic id to be gone, got:\n%s", out)
	}
}

func TestCompileDefaultedTemplateArgs(t *testing.T) {
	src := `fn g<T, N = 4>(x: T) -> T { return x; } @compute fn main(){ g<i32>(1); }`
	out := compile(t, src, "")

	if !strings.Contains(out, "fn g_i32_4(") {
		t.Errorf("expected g_i32_4 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "g_i32_4(") {
		t.Errorf("expected main to call g_i32_4, got:\n%s", out)
	}
}

func TestCompileAliasOfGeneric(t *testing.T) {
	src := `alias Vec4f = vec4<f32>; @compute fn main(){ let v: Vec4f = vec4(0.0); }`
	out := compile(t, src, "")

	if strings.Contains(out, "Vec4f") {
		t.Errorf("expected the alias to be eliminated, got:\n%s", out)
	}
	if !strings.Contains(out, "vec4<f32>") {
		t.Errorf("expected the local's type to resolve to vec4<f32>, got:\n%s", out)
	}
}
