package parser

// NodeKind identifies the variant of an AST node
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindGoal
	KindAgent
	KindMemory
	KindIntent
	KindConditional
	KindPlugin
	KindSelfMod
	KindFunctionDef
	KindLoop
	KindAssignment
	KindComment

	// KindCount is the number of node kinds. Tables indexed by NodeKind
	// are sized with it so that adding a kind without extending them
	// fails to build.
	KindCount
)

// kindNames is indexed by NodeKind; the coverage test checks every kind
// has a name.
var kindNames = [KindCount]string{
	KindProgram:     "Program",
	KindGoal:        "Goal",
	KindAgent:       "Agent",
	KindMemory:      "Memory",
	KindIntent:      "Intent",
	KindConditional: "Conditional",
	KindPlugin:      "Plugin",
	KindSelfMod:     "SelfModification",
	KindFunctionDef: "FunctionDef",
	KindLoop:        "Loop",
	KindAssignment:  "Assignment",
	KindComment:     "Comment",
}

func (k NodeKind) String() string {
	if k < 0 || k >= KindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// MemoryOp distinguishes the memory statement forms
type MemoryOp int

const (
	MemRemember MemoryOp = iota
	MemRecall
	MemPattern
)

func (op MemoryOp) String() string {
	switch op {
	case MemRemember:
		return "remember"
	case MemRecall:
		return "recall"
	case MemPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// CondKind distinguishes when blocks from if blocks
type CondKind int

const (
	CondWhen CondKind = iota
	CondIf
)

func (k CondKind) String() string {
	if k == CondIf {
		return "if"
	}
	return "when"
}

// SelfModOp distinguishes suggest from apply
type SelfModOp int

const (
	ModSuggest SelfModOp = iota
	ModApply
)

func (op SelfModOp) String() string {
	if op == ModApply {
		return "apply"
	}
	return "suggest"
}

// LoopKind distinguishes for loops from while loops
type LoopKind int

const (
	LoopFor LoopKind = iota
	LoopWhile
)

func (k LoopKind) String() string {
	if k == LoopWhile {
		return "while"
	}
	return "for"
}

// NodeID is an index into a Tree's node arena. Children are referenced by
// NodeID, never by pointer, so a tree cannot contain reference cycles and
// clones by copying one slice.
type NodeID int32

// NoNode marks an absent node reference.
const NoNode NodeID = -1

// Node is one AST node. Kind selects the variant; the remaining fields are
// per-kind payload and stay zero for kinds that do not use them. Several
// fields are shared across kinds: Target serves Intent, SelfModification
// and Assignment; Name serves Plugin and FunctionDef; Condition serves
// Conditional and SelfModification.
type Node struct {
	Kind NodeKind
	Line int

	// Goal
	Objective string
	Priority  string

	// Agent
	Command string

	// Memory
	MemOp    MemoryOp
	Data     string
	Tag      string
	Criteria map[string]string

	// Intent
	Action   string
	Target   string
	Modifier string

	// Conditional
	CondKind  CondKind
	Condition string

	// SelfModification
	ModOp SelfModOp

	// Plugin / FunctionDef
	Name   string
	Params []string

	// Loop
	LoopKind LoopKind
	Binder   string
	Source   string

	// Assignment
	Value string

	// Comment
	Text string

	// Block children: statements for Program, body for Conditional,
	// Plugin, FunctionDef and Loop. ElseBody is non-nil only for a
	// Conditional with an else branch.
	Body     []NodeID
	ElseBody []NodeID
}

// Tree owns every node of one parse in a single arena. Nothing escapes the
// compile that created it; cloning copies the arena.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// Add appends a node to the arena and returns its ID. Children must be
// added before the block node that references them, so IDs always point
// at populated slots.
func (t *Tree) Add(n Node) NodeID {
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

// Node returns the arena node for id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Statements returns the top-level statement IDs of the program.
func (t *Tree) Statements() []NodeID {
	if len(t.Nodes) == 0 {
		return nil
	}
	return t.Nodes[t.Root].Body
}

// Walk visits every node reachable from the root, parents before children,
// body before else body, carrying the depth (root is depth 0).
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	if len(t.Nodes) == 0 {
		return
	}
	t.walk(t.Root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(n *Node, depth int)) {
	n := &t.Nodes[id]
	fn(n, depth)
	for _, c := range n.Body {
		t.walk(c, depth+1, fn)
	}
	for _, c := range n.ElseBody {
		t.walk(c, depth+1, fn)
	}
}

// Clone returns an independent copy of the tree. One pass over the arena
// copies each node's owned slices and maps.
func (t *Tree) Clone() *Tree {
	nodes := make([]Node, len(t.Nodes))
	copy(nodes, t.Nodes)
	for i := range nodes {
		if nodes[i].Body != nil {
			nodes[i].Body = append([]NodeID(nil), nodes[i].Body...)
		}
		if nodes[i].ElseBody != nil {
			nodes[i].ElseBody = append([]NodeID(nil), nodes[i].ElseBody...)
		}
		if nodes[i].Params != nil {
			nodes[i].Params = append([]string(nil), nodes[i].Params...)
		}
		if nodes[i].Criteria != nil {
			m := make(map[string]string, len(nodes[i].Criteria))
			for k, v := range nodes[i].Criteria {
				m[k] = v
			}
			nodes[i].Criteria = m
		}
	}
	return &Tree{Nodes: nodes, Root: t.Root}
}
