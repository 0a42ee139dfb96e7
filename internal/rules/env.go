package rules

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// RollFunc evaluates a dice expression and returns its final total.
type RollFunc func(expr string) (int64, error)

// Registry manages the CEL environment and provides helper methods for evaluation.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes a CEL environment with the roll function and the `last` variable.
func NewRegistry(rollFunc RollFunc) (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("last", cel.IntType),
		ext.Strings(),
		ext.Math(),

		cel.Function("roll",
			cel.Overload("roll_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					s, ok := arg.Value().(string)
					if !ok {
						return types.NewErr("roll expects a string")
					}
					total, err := rollFunc(s)
					if err != nil {
						return types.NewErr("roll(%q): %v", s, err)
					}
					return types.Int(total)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env}, nil
}

// Eval compiles and executes a CEL expression. last is exposed as the `last` variable.
func (r *Registry) Eval(expression string, last int64) (any, error) {
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(map[string]any{"last": last})
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}
