// Package aliases assigns semantic aliases to fields that were declared
// without an [ALIAS] annotation, using a Starlark rule script.
//
// The script defines
//
//	def alias(name, type_name, kind):
//	    ...
//
// where kind is "in" or "uniform". Returning None or "" leaves the field
// without an alias.
package aliases

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/gogpu/glslcode/glslsrc"
)

const funcName = "alias"

// Rules is a loaded rule script. Its globals are frozen after loading, so
// one Rules may be used from several goroutines.
type Rules struct {
	fn starlark.Callable
}

// Load executes the script in src (a string, []byte, io.Reader or nil to
// read filename) and returns its alias function.
func Load(filename string, src any) (*Rules, error) {
	thread := &starlark.Thread{
		Name: "aliases.load",
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("load alias rules %s: %w", filename, err)
	}
	fn, ok := globals[funcName].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("alias rules %s: no %s function defined", filename, funcName)
	}
	return &Rules{
		fn: fn,
	}, nil
}

// Alias calls the rule for one field.
func (r *Rules) Alias(kind glslsrc.FieldKind, field glslsrc.FieldInfo) (string, error) {
	thread := &starlark.Thread{
		Name: "aliases." + field.Name,
	}
	ret, err := starlark.Call(thread, r.fn, starlark.Tuple{
		starlark.String(field.Name),
		starlark.String(field.TypeName),
		starlark.String(kind.String()),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("alias rule for %s: %w", field.Name, err)
	}
	switch v := ret.(type) {
	case starlark.NoneType:
		return "", nil
	case starlark.String:
		return string(v), nil
	default:
		return "", fmt.Errorf("alias rule for %s returned %s, want string or None", field.Name, ret.Type())
	}
}

// Apply fills in the alias of every field of code that has none.
func (r *Rules) Apply(code *glslsrc.ShaderCode) error {
	apply := func(kind glslsrc.FieldKind, fields []glslsrc.FieldInfo) error {
		for i := range fields {
			if fields[i].Alias != "" {
				continue
			}
			alias, err := r.Alias(kind, fields[i])
			if err != nil {
				return err
			}
			fields[i].Alias = alias
		}
		return nil
	}
	if err := apply(glslsrc.FieldInput, code.Inputs); err != nil {
		return err
	}
	return apply(glslsrc.FieldUniform, code.Uniforms)
}
