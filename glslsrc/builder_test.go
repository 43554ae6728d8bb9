package glslsrc

import (
	"errors"
	"strings"
	"testing"
)

// testIDs is a memoizing name to id mapping starting at 1.
func testIDs() SourceIDProvider {
	ids := map[string]int{}
	return func(name string) (int, error) {
		if id, ok := ids[name]; ok {
			return id, nil
		}
		id := len(ids) + 1
		ids[name] = id
		return id, nil
	}
}

func mustParse(t *testing.T, source string) *ShaderCode {
	t.Helper()
	code, err := Parse(source, testIDs())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return code
}

func TestParseVersionRoundTrip(t *testing.T) {
	source := "#version 330\nvoid main(){}"
	code := mustParse(t, source)

	if code.Version == nil {
		t.Fatal("expected a version directive")
	}
	if code.Version.Value != 330 {
		t.Errorf("Version.Value = %d, want 330", code.Version.Value)
	}
	pos := code.Version.Position
	if got := code.Code[pos : pos+3]; got != "330" {
		t.Errorf("Code at version position = %q, want %q", got, "330")
	}
	if code.Code != source {
		t.Errorf("Code = %q, want source unchanged", code.Code)
	}
}

func TestParseVersionPositionShiftsAfterElision(t *testing.T) {
	source := "/* a rather long license header */\n#version 450 core\n"
	code := mustParse(t, source)

	if code.Version == nil || code.Version.Value != 450 {
		t.Fatalf("Version = %+v, want 450", code.Version)
	}
	if code.Code != " \n#version 450 core\n" {
		t.Errorf("Code = %q", code.Code)
	}
	if code.Version.Position != strings.Index(code.Code, "450") {
		t.Errorf("Version.Position = %d, want %d", code.Version.Position, strings.Index(code.Code, "450"))
	}
}

func TestParseVersionOnlyFirst(t *testing.T) {
	code := mustParse(t, "#version 330\n#version 450\n")
	if code.Version == nil || code.Version.Value != 330 {
		t.Fatalf("Version = %+v, want 330", code.Version)
	}
	if code.Version.Position != 9 {
		t.Errorf("Version.Position = %d, want 9", code.Version.Position)
	}
}

func TestParseNoVersion(t *testing.T) {
	tests := []string{
		"void main() {}",
		"#version\n",
		"#versionx 330\n",
		"#version abc\n",
		"#version330\n",
	}
	for _, source := range tests {
		code := mustParse(t, source)
		if code.Version != nil {
			t.Errorf("Parse(%q): expected no version, got %+v", source, code.Version)
		}
	}
}

func TestParseCommentsRemoved(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"block comment keeps tokens apart", "foo/**/bar", "foo bar"},
		{"line comment keeps line break", "a; // note\nb;", "a;  \nb;"},
		{"line comment at end of input", "a; // note", "a;  "},
		{"crlf line comment", "a;// x\r\nb;", "a; \r\nb;"},
		{"multi-line block comment", "a/* x\ny\n*/b", "a b"},
		{"comment containing brace", "/* { */ x", "  x"},
		{"slash star slash is not closed early", "a/*/ x */b", "a b"},
		{"division is kept", "a = b / c * d;", "a = b / c * d;"},
		{"comment in function body", "void f() { x = 1; // c\n}", "void f() { x = 1;  \n}"},
		{"comment in nested block", "void f() { if (a) { /* c */ } }", "void f() { if (a) {   } }"},
		{"closing brace in comment inside body", "void f() { /* } */ }", "void f() {   }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := mustParse(t, tt.input)
			if code.Code != tt.expected {
				t.Errorf("Code = %q, want %q", code.Code, tt.expected)
			}
		})
	}
}

func TestParseCommentRemovalNeverMergesIdentifiers(t *testing.T) {
	code := mustParse(t, "foo/**/bar")
	if strings.Contains(code.Code, "foobar") {
		t.Fatalf("Code = %q merged the identifiers", code.Code)
	}
	tokens := Tokenize(code.Code)
	letters := 0
	for _, tok := range tokens {
		if tok.Kind == TokenLetter {
			letters++
		}
	}
	if letters != 2 {
		t.Errorf("expected two identifier tokens, got %d in %v", letters, tokens)
	}
}

func TestParseFieldWithAlias(t *testing.T) {
	code := mustParse(t, "[POSITION]\nlayout(location=0) in vec3 pos;")

	if len(code.Inputs) != 1 {
		t.Fatalf("expected 1 input, got %d", len(code.Inputs))
	}
	in := code.Inputs[0]
	if in.Location == nil || *in.Location != 0 {
		t.Errorf("Location = %v, want 0", in.Location)
	}
	if in.Name != "pos" || in.Alias != "POSITION" || in.TypeName != "vec3" {
		t.Errorf("input = %+v", in)
	}
	if strings.Contains(code.Code, "POSITION") || strings.Contains(code.Code, "[") {
		t.Errorf("alias annotation left in code: %q", code.Code)
	}
	if !strings.Contains(code.Code, "layout(location=0) in vec3 pos;") {
		t.Errorf("declaration missing from code: %q", code.Code)
	}
}

func TestParseFields(t *testing.T) {
	loc := func(v uint32) *uint32 { return &v }

	tests := []struct {
		name     string
		input    string
		inputs   []FieldInfo
		uniforms []FieldInfo
	}{
		{
			name:   "plain input",
			input:  "in vec2 uv;",
			inputs: []FieldInfo{{Name: "uv", TypeName: "vec2"}},
		},
		{
			name:     "plain uniform",
			input:    "uniform mat4 u_mvp;",
			uniforms: []FieldInfo{{Name: "u_mvp", TypeName: "mat4"}},
		},
		{
			name:   "alias on same line",
			input:  "[COLOR] in vec4 color;",
			inputs: []FieldInfo{{Name: "color", Alias: "COLOR", TypeName: "vec4"}},
		},
		{
			name:   "alias with padding and crlf",
			input:  "[ UV0 ]\r\nin vec2 uv;",
			inputs: []FieldInfo{{Name: "uv", Alias: "UV0", TypeName: "vec2"}},
		},
		{
			name:   "layout with several qualifiers",
			input:  "layout(component = 1, location = 3) in float w;",
			inputs: []FieldInfo{{Location: loc(3), Name: "w", TypeName: "float"}},
		},
		{
			name:   "hex location",
			input:  "layout(location=0x2) in float w;",
			inputs: []FieldInfo{{Location: loc(2), Name: "w", TypeName: "float"}},
		},
		{
			name:     "layout without location",
			input:    "layout(binding = 1) uniform sampler2D tex;",
			uniforms: []FieldInfo{{Name: "tex", TypeName: "sampler2D"}},
		},
		{
			name:     "precision qualifier",
			input:    "uniform highp float time;",
			uniforms: []FieldInfo{{Name: "time", TypeName: "float"}},
		},
		{
			name:   "interpolation qualifier",
			input:  "layout(location = 1) flat in ivec2 id;",
			inputs: []FieldInfo{{Location: loc(1), Name: "id", TypeName: "ivec2"}},
		},
		{
			name:   "legacy attribute",
			input:  "attribute vec3 a_pos;",
			inputs: []FieldInfo{{Name: "a_pos", TypeName: "vec3"}},
		},
		{
			name:  "declaration split over lines",
			input: "uniform\n  vec3\n  light ;",
			uniforms: []FieldInfo{
				{Name: "light", TypeName: "vec3"},
			},
		},
		{
			name:  "source order kept",
			input: "in vec3 a;\nuniform float u1;\nin vec2 b;\nuniform float u2;\n",
			inputs: []FieldInfo{
				{Name: "a", TypeName: "vec3"},
				{Name: "b", TypeName: "vec2"},
			},
			uniforms: []FieldInfo{
				{Name: "u1", TypeName: "float"},
				{Name: "u2", TypeName: "float"},
			},
		},
		{name: "output is not cataloged", input: "out vec4 frag;"},
		{name: "array is not cataloged", input: "uniform vec3 lights[4];"},
		{name: "interface block is not cataloged", input: "uniform Block { vec4 a; } blk;"},
		{name: "function parameter", input: "void f(in vec3 x) {}"},
		{name: "keyword inside identifier", input: "float xin vec3 y;"},
		{name: "alias too far away", input: "[POSITION]\n\nin vec3 pos;", inputs: []FieldInfo{{Name: "pos", TypeName: "vec3"}}},
		{name: "numeric alias", input: "[1] in vec3 pos;", inputs: []FieldInfo{{Name: "pos", TypeName: "vec3"}}},
		{name: "indented alias", input: "  \t[NORMAL] in vec3 n;", inputs: []FieldInfo{{Name: "n", Alias: "NORMAL", TypeName: "vec3"}}},
		{name: "subscript before declaration", input: "x = a[i] in vec3 p;", inputs: []FieldInfo{{Name: "p", TypeName: "vec3"}}},
		{name: "subscript on line above", input: "#define PICK(v) v[IDX]\nin vec3 p;", inputs: []FieldInfo{{Name: "p", TypeName: "vec3"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := mustParse(t, tt.input)
			compareFields(t, "input", code.Inputs, tt.inputs)
			compareFields(t, "uniform", code.Uniforms, tt.uniforms)
		})
	}
}

func compareFields(t *testing.T, what string, got, want []FieldInfo) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d %ss, got %d: %+v", len(want), what, len(got), got)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Name != w.Name || g.Alias != w.Alias || g.TypeName != w.TypeName {
			t.Errorf("%s %d = %+v, want %+v", what, i, g, w)
		}
		switch {
		case g.Location == nil && w.Location == nil:
		case g.Location == nil || w.Location == nil:
			t.Errorf("%s %d location = %v, want %v", what, i, g.Location, w.Location)
		case *g.Location != *w.Location:
			t.Errorf("%s %d location = %d, want %d", what, i, *g.Location, *w.Location)
		}
		if g.TypeName == "" {
			t.Errorf("%s %d has an empty type name", what, i)
		}
	}
}

func TestParseFailedAliasIsKept(t *testing.T) {
	// "x[i];" is not a declaration.
	source := "void f() {}\nfloat y = x[i];\n"
	code := mustParse(t, source)
	if code.Code != source {
		t.Errorf("Code = %q, want source unchanged", code.Code)
	}
}

func TestParseSubscriptIsNotAlias(t *testing.T) {
	tests := []string{
		"#define PICK(v) v[IDX]\nin vec3 p;\nvoid main(){}",
		"x = a[i] in vec3 p;",
		"float v = m[0][1]\n[POSITION] in vec3 p;",
	}
	for _, source := range tests {
		code := mustParse(t, source)
		if len(code.Inputs) != 1 {
			t.Fatalf("Parse(%q): inputs = %+v", source, code.Inputs)
		}
		in := code.Inputs[0]
		if strings.Contains(source, "[POSITION]") {
			if in.Alias != "POSITION" {
				t.Errorf("Parse(%q): alias = %q, want POSITION", source, in.Alias)
			}
			if !strings.Contains(code.Code, "m[0][1]") {
				t.Errorf("Parse(%q): subscripts lost: %q", source, code.Code)
			}
			continue
		}
		if in.Alias != "" {
			t.Errorf("Parse(%q): subscript taken as alias %q", source, in.Alias)
		}
		if code.Code != source {
			t.Errorf("Parse(%q): Code = %q, want source unchanged", source, code.Code)
		}
	}
}

func TestParseFunctionBodyKept(t *testing.T) {
	source := "#version 330\nin vec3 pos;\nvoid main() {\n    gl_Position = vec4(pos, 1.0);\n}\n"
	code := mustParse(t, source)
	if code.Code != source {
		t.Errorf("Code = %q, want the function body kept", code.Code)
	}
	if !strings.Contains(code.Code, "gl_Position = vec4(pos, 1.0);") {
		t.Errorf("function body missing from %q", code.Code)
	}
}

func TestParseNestedBlockImmunity(t *testing.T) {
	code := mustParse(t, "void main(){ uniform float x; in vec3 y; }")
	if len(code.Uniforms) != 0 {
		t.Errorf("expected no uniforms, got %+v", code.Uniforms)
	}
	if len(code.Inputs) != 0 {
		t.Errorf("expected no inputs, got %+v", code.Inputs)
	}
	if code.Code != "void main(){ uniform float x; in vec3 y; }" {
		t.Errorf("Code = %q", code.Code)
	}
}

func TestParseNestedBlockDoesNotHideFollowingFields(t *testing.T) {
	code := mustParse(t, "struct S { float a; };\nuniform S s;\nvoid f() { { } }\nin vec3 p;")
	if len(code.Uniforms) != 1 || code.Uniforms[0].TypeName != "S" {
		t.Errorf("uniforms = %+v", code.Uniforms)
	}
	if len(code.Inputs) != 1 || code.Inputs[0].Name != "p" {
		t.Errorf("inputs = %+v", code.Inputs)
	}
}

func TestParseIncludes(t *testing.T) {
	source := "#version 330\n#include \"common\"\nvoid main() {}\n#include <light.glsl>\n"
	code := mustParse(t, source)

	expected := "#version 330\n\nvoid main() {}\n\n"
	if code.Code != expected {
		t.Fatalf("Code = %q, want %q", code.Code, expected)
	}
	if len(code.IncludeMarkers) != 2 {
		t.Fatalf("expected 2 include markers, got %+v", code.IncludeMarkers)
	}
	if m := code.IncludeMarkers[0]; m.SourceID != 1 || m.Offset != 13 {
		t.Errorf("marker 0 = %+v, want {1 13}", m)
	}
	if m := code.IncludeMarkers[1]; m.SourceID != 2 || m.Offset != len("#version 330\n\nvoid main() {}\n") {
		t.Errorf("marker 1 = %+v", m)
	}
}

func TestParseIncludeFirstOccurrence(t *testing.T) {
	source := "#include \"a\"\nfloat x;\n#include \"a\"\n"
	code := mustParse(t, source)

	if len(code.IncludeMarkers) != 1 {
		t.Fatalf("expected 1 include marker, got %+v", code.IncludeMarkers)
	}
	if code.IncludeMarkers[0].Offset != 0 {
		t.Errorf("marker offset = %d, want 0", code.IncludeMarkers[0].Offset)
	}
	if strings.Contains(code.Code, "#include") {
		t.Errorf("second directive left in code: %q", code.Code)
	}
}

func TestParseIncludeInsideFunction(t *testing.T) {
	code := mustParse(t, "void main() {\n#include \"body\"\n}")
	if len(code.IncludeMarkers) != 1 {
		t.Fatalf("expected 1 include marker, got %+v", code.IncludeMarkers)
	}
	if code.Code != "void main() {\n\n}" {
		t.Errorf("Code = %q", code.Code)
	}
	if code.IncludeMarkers[0].Offset != len("void main() {\n") {
		t.Errorf("marker = %+v", code.IncludeMarkers[0])
	}
}

func TestParseIncludeMarkersSorted(t *testing.T) {
	code := mustParse(t, "#include \"c\"\n#include \"b\"\n#include \"a\"\n#include \"b\"\n")
	for i := 1; i < len(code.IncludeMarkers); i++ {
		if code.IncludeMarkers[i].Offset < code.IncludeMarkers[i-1].Offset {
			t.Errorf("markers not sorted: %+v", code.IncludeMarkers)
		}
	}
	if len(code.IncludeMarkers) != 3 {
		t.Errorf("expected 3 markers, got %+v", code.IncludeMarkers)
	}
}

func TestParseMalformedInclude(t *testing.T) {
	tests := []string{
		"#include \"unterminated\n",
		"#include \"\"\n",
		"#include name\n",
	}
	for _, source := range tests {
		code := mustParse(t, source)
		if len(code.IncludeMarkers) != 0 {
			t.Errorf("Parse(%q): expected no markers, got %+v", source, code.IncludeMarkers)
		}
		if code.Code != source {
			t.Errorf("Parse(%q): Code = %q, want unchanged", source, code.Code)
		}
	}
}

func TestParseIncludeResolveError(t *testing.T) {
	failing := errors.New("no such unit")
	_, err := Parse("#include \"missing\"\n", func(string) (int, error) {
		return 0, failing
	})
	if !errors.Is(err, failing) {
		t.Fatalf("expected resolve error, got %v", err)
	}
}

func TestParseStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		err    error
		line   int
		column int
	}{
		{"unterminated comment", "void main() {}\n/* never closed", ErrUnterminatedComment, 2, 1},
		{"unterminated comment in block", "void main() { /* x }", ErrUnterminatedComment, 1, 15},
		{"unterminated block", "void main() {\n  x = 1;\n", ErrUnterminatedBlock, 1, 13},
		{"stray close", "void main() {}\n}\n", ErrUnmatchedBlockClose, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ParseWithOptions(tt.input, testIDs(), Options{Name: "test.vsh"})
			if err == nil {
				t.Fatalf("expected error, got %+v", code)
			}
			if code != nil {
				t.Errorf("expected no partial result, got %+v", code)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want %v", err, tt.err)
			}
			var srcErr *SourceError
			if !errors.As(err, &srcErr) {
				t.Fatalf("expected *SourceError, got %T", err)
			}
			if srcErr.Span.Source != "test.vsh" {
				t.Errorf("Span.Source = %q, want test.vsh", srcErr.Span.Source)
			}
			if srcErr.Span.Start.Line != tt.line || srcErr.Span.Start.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d",
					srcErr.Span.Start.Line, srcErr.Span.Start.Column, tt.line, tt.column)
			}
		})
	}
}

func TestParseErrorsNameTheUnit(t *testing.T) {
	tests := []struct {
		name  string
		parse func() error
	}{
		{"ParseShader", func() error {
			_, err := ParseShader(func(int) (string, error) { return "/* open", nil }, testIDs())
			return err
		}},
		{"Parse", func() error {
			_, err := Parse("void main() {", testIDs())
			return err
		}},
		{"empty name", func() error {
			_, err := ParseWithOptions("}", testIDs(), Options{})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var srcErr *SourceError
			if err := tt.parse(); !errors.As(err, &srcErr) {
				t.Fatalf("expected *SourceError, got %v", err)
			}
			if srcErr.Span.Source != DefaultName {
				t.Errorf("Span.Source = %q, want %q", srcErr.Span.Source, DefaultName)
			}
			if !strings.HasPrefix(srcErr.Error(), DefaultName+":1:") {
				t.Errorf("Error() = %q", srcErr.Error())
			}
		})
	}
}

func TestParseShaderProviderError(t *testing.T) {
	failing := errors.New("boom")
	_, err := ParseShader(func(int) (string, error) {
		return "", failing
	}, testIDs())
	if !errors.Is(err, failing) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestParseShaderRequestsUnitZero(t *testing.T) {
	var requested []int
	_, err := ParseShader(func(id int) (string, error) {
		requested = append(requested, id)
		return "void main() {}", nil
	}, testIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(requested) != 1 || requested[0] != 0 {
		t.Errorf("requested units = %v, want [0]", requested)
	}
}

func TestParseReparseIsStable(t *testing.T) {
	source := `#version 330 core
// vertex shader
[POSITION] layout(location = 0) in vec3 pos;
uniform mat4 mvp; /* model view projection */
void main() {
    gl_Position = mvp * vec4(pos, 1.0); // transform
}
`
	first := mustParse(t, source)
	second := mustParse(t, first.Code)

	if second.Code != first.Code {
		t.Errorf("second pass changed the code:\n%q\n%q", first.Code, second.Code)
	}
	if second.Version == nil || second.Version.Value != first.Version.Value {
		t.Fatalf("version changed: %+v vs %+v", first.Version, second.Version)
	}
	if second.Version.Position != first.Version.Position {
		t.Errorf("version position changed: %d vs %d", first.Version.Position, second.Version.Position)
	}
	if len(second.Uniforms) != 1 || len(second.Inputs) != 1 {
		t.Errorf("fields changed: %+v %+v", second.Inputs, second.Uniforms)
	}
}

func TestShaderCodeField(t *testing.T) {
	code := mustParse(t, "in vec3 pos;\nuniform float t;")
	if f := code.Field(FieldInput, "pos"); f == nil || f.TypeName != "vec3" {
		t.Errorf("Field(input, pos) = %+v", f)
	}
	if f := code.Field(FieldUniform, "t"); f == nil || f.TypeName != "float" {
		t.Errorf("Field(uniform, t) = %+v", f)
	}
	if f := code.Field(FieldUniform, "pos"); f != nil {
		t.Errorf("Field(uniform, pos) = %+v, want nil", f)
	}
}

func TestParseEmpty(t *testing.T) {
	code := mustParse(t, "")
	if code.Code != "" || code.Version != nil || len(code.IncludeMarkers) != 0 {
		t.Errorf("unexpected result for empty source: %+v", code)
	}
}
