package plan

import (
	"errors"
	"fmt"
)

// Thunk defers a nested plan. The facade decides whether and how often to
// run it: a conditional invokes one arm, a loop may invoke its body many
// times, a function definition may store it and never invoke it at all.
type Thunk func() error

// Facade is the runtime surface a plan executes against. Implementations
// own all interpretation of the string payloads; the plan layer never
// evaluates conditions or resolves identifiers itself.
type Facade interface {
	SetGoal(objective, priority string) error
	AgentCommand(command string) error
	Remember(data, tag string) error
	Recall(query string, criteria map[string]string) error
	Pattern(pattern, frequency string) error
	ExecuteIntent(action, target, modifier string) error
	ExecuteConditional(condition string, then, otherwise Thunk) error
	ExecuteLoop(kind, binder, source string, body Thunk) error
	LoadPlugin(name string, actions Thunk) error
	SuggestFix(target, condition string) error
	ApplyFix(target, condition string) error
	DefineFunction(name string, params []string, body Thunk) error
	Assign(target, value string) error
}

// Execute dispatches every call in p against f in source order.
//
// compile_error markers never reach the facade. They are collected while the
// remaining calls run and the joined result is returned at the end, so one
// bad statement does not hide its siblings. An error from the facade itself
// stops execution immediately; any markers already seen are joined into the
// returned error.
func Execute(p *Plan, f Facade) error {
	if p == nil {
		return nil
	}
	var marks []error
	for i := range p.Calls {
		c := &p.Calls[i]
		if c.Op == OpCompileError {
			marks = append(marks, fmt.Errorf("line %d: %s", c.Line, c.Message))
			continue
		}
		if err := dispatch(c, f); err != nil {
			return errors.Join(append(marks, err)...)
		}
	}
	return errors.Join(marks...)
}

func dispatch(c *Call, f Facade) error {
	switch c.Op {
	case OpSetGoal:
		return f.SetGoal(c.Objective, c.Priority)
	case OpAgentCommand:
		return f.AgentCommand(c.Command)
	case OpMemoryRemember:
		return f.Remember(c.Data, c.Tag)
	case OpMemoryRecall:
		return f.Recall(c.Query, c.Criteria)
	case OpMemoryPattern:
		return f.Pattern(c.Pattern, c.Frequency)
	case OpExecuteIntent:
		return f.ExecuteIntent(c.Action, c.Target, c.Modifier)
	case OpExecuteConditional:
		return f.ExecuteConditional(c.Condition, thunk(c.Then, f), thunk(c.Else, f))
	case OpExecuteLoop:
		return f.ExecuteLoop(c.Kind, c.Binder, c.Source, thunk(c.Body, f))
	case OpLoadPlugin:
		return f.LoadPlugin(c.Name, thunk(c.Body, f))
	case OpSuggestFix:
		return f.SuggestFix(c.Target, c.Condition)
	case OpApplyFix:
		return f.ApplyFix(c.Target, c.Condition)
	case OpDefineFunction:
		return f.DefineFunction(c.Name, c.Params, thunk(c.Body, f))
	case OpAssign:
		return f.Assign(c.Target, c.Value)
	default:
		return fmt.Errorf("plan: unknown call op %d", c.Op)
	}
}

// thunk wraps a nested plan as a closure over the same facade. A nil plan
// yields a nil Thunk, which is how an absent else branch is signalled.
func thunk(p *Plan, f Facade) Thunk {
	if p == nil {
		return nil
	}
	return func() error {
		return Execute(p, f)
	}
}
