package policy

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/pkg/jsonx"
)

// condition is a compiled CEL predicate over a request. The expression sees
// two variables: `name`, the action name, and `params`, the parameter
// document as a map.
type condition struct {
	source  string
	program cel.Program
}

var celEnv = func() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("params", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Errorf("policy: building CEL environment: %w", err))
	}
	return env
}()

func compileCondition(expr string) (*condition, error) {
	ast, issues := celEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("condition %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("condition %q: must evaluate to a boolean, got %s", expr, ast.OutputType())
	}
	program, err := celEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", expr, err)
	}
	return &condition{source: expr, program: program}, nil
}

// holds reports whether the condition is satisfied by the request. A request
// with no parameters evaluates against an empty map. Evaluation errors (for
// example a missing key) make the condition not hold, so a malformed request
// can never widen a rule's match.
func (c *condition) holds(req api.ActionRequest) bool {
	params := map[string]any{}
	if len(req.Parameters) > 0 {
		decoded, err := jsonx.ToDynamicMap(req.Parameters)
		if err != nil {
			return false
		}
		params = decoded
	}

	out, _, err := c.program.Eval(map[string]any{
		"name":   req.Name,
		"params": params,
	})
	if err != nil {
		return false
	}
	return out == types.True
}
