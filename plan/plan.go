package plan

// CallOp identifies which Runtime Facade operation a call invokes
type CallOp int

const (
	OpSetGoal CallOp = iota
	OpAgentCommand
	OpMemoryRemember
	OpMemoryRecall
	OpMemoryPattern
	OpExecuteIntent
	OpExecuteConditional
	OpExecuteLoop
	OpLoadPlugin
	OpSuggestFix
	OpApplyFix
	OpDefineFunction
	OpAssign
	OpCompileError

	// opCount sizes tables indexed by CallOp
	opCount
)

// opNames is indexed by CallOp and follows the facade's operation naming
var opNames = [opCount]string{
	OpSetGoal:            "set_goal",
	OpAgentCommand:       "agent_command",
	OpMemoryRemember:     "memory.remember",
	OpMemoryRecall:       "memory.recall",
	OpMemoryPattern:      "memory.pattern",
	OpExecuteIntent:      "execute_intent",
	OpExecuteConditional: "execute_conditional",
	OpExecuteLoop:        "execute_loop",
	OpLoadPlugin:         "load_plugin",
	OpSuggestFix:         "suggest_fix",
	OpApplyFix:           "apply_fix",
	OpDefineFunction:     "define_function",
	OpAssign:             "assign",
	OpCompileError:       "compile_error",
}

func (op CallOp) String() string {
	if op < 0 || op >= opCount {
		return "unknown"
	}
	return opNames[op]
}

// Call is one Runtime Facade invocation. Op selects the operation; the
// remaining fields are per-operation payload and stay zero for operations
// that do not use them. Nested plans hang off Then/Else (conditionals) and
// Body (loops, plugins, function definitions); they are owned by the call
// and share nothing with the AST arena that produced them.
type Call struct {
	Op   CallOp
	Line int

	// set_goal
	Objective string
	Priority  string

	// agent_command
	Command string

	// memory.remember / memory.recall / memory.pattern
	Data      string
	Tag       string
	Query     string
	Criteria  map[string]string
	Pattern   string
	Frequency string

	// execute_intent; Target doubles for suggest_fix/apply_fix/assign
	Action   string
	Target   string
	Modifier string

	// execute_conditional / execute_loop / suggest_fix / apply_fix
	Kind      string
	Condition string
	Binder    string
	Source    string

	// load_plugin / define_function
	Name   string
	Params []string

	// assign
	Value string

	// compile_error
	Message string

	Then *Plan
	Else *Plan
	Body *Plan
}

// Plan is an ordered sequence of Runtime Facade calls. Execution order is
// source order; nothing in the pipeline reorders calls.
type Plan struct {
	Calls []Call
}

// Total counts the calls in the plan and every nested plan.
func (p *Plan) Total() int {
	if p == nil {
		return 0
	}
	total := 0
	for i := range p.Calls {
		total++
		total += p.Calls[i].Then.Total()
		total += p.Calls[i].Else.Total()
		total += p.Calls[i].Body.Total()
	}
	return total
}

// Errors collects the compile_error marker messages in plan order,
// including nested plans.
func (p *Plan) Errors() []string {
	if p == nil {
		return nil
	}
	var msgs []string
	for i := range p.Calls {
		c := &p.Calls[i]
		if c.Op == OpCompileError {
			msgs = append(msgs, c.Message)
		}
		msgs = append(msgs, c.Then.Errors()...)
		msgs = append(msgs, c.Else.Errors()...)
		msgs = append(msgs, c.Body.Errors()...)
	}
	return msgs
}
