package handoff

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// Evaluator evaluates handoff availability expressions. Compiled programs
// are cached and reused; the evaluator is safe for concurrent use.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewEvaluator creates an expression evaluator with an empty cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{cache: make(map[string]*vm.Program)}
}

// Available reports whether a handoff target may be offered given its
// availability descriptor and the run-context variables. A descriptor of
// type "none" (or empty) is always available. Expression descriptors must
// evaluate to a boolean; anything else is a CONDITION_EVAL error.
func (ev *Evaluator) Available(av flow.Availability, env map[string]any) (bool, error) {
	switch av.Type {
	case "", "none":
		return true, nil
	case "expression":
	default:
		return false, types.NewErrorf(types.ErrConditionEval, "unknown availability type %q", av.Type)
	}
	if av.Value == "" {
		return false, types.NewError(types.ErrConditionEval, "empty availability expression")
	}

	prg, err := ev.getOrCompile(av.Value)
	if err != nil {
		return false, types.NewErrorf(types.ErrConditionEval, "availability expression %q failed to compile", av.Value).WithCause(err)
	}

	if env == nil {
		env = map[string]any{}
	}
	out, err := vm.Run(prg, env)
	if err != nil {
		return false, types.NewErrorf(types.ErrConditionEval, "availability expression %q failed", av.Value).WithCause(err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, types.NewErrorf(types.ErrConditionEval, "availability expression %q returned %T, want bool", av.Value, out)
	}
	return ok, nil
}

func (ev *Evaluator) getOrCompile(expression string) (*vm.Program, error) {
	ev.mu.RLock()
	if prg, ok := ev.cache[expression]; ok {
		ev.mu.RUnlock()
		return prg, nil
	}
	ev.mu.RUnlock()

	prg, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	ev.mu.Lock()
	ev.cache[expression] = prg
	ev.mu.Unlock()
	return prg, nil
}
