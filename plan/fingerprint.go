package plan

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short stable identifier for the plan. Two plans
// fingerprint equal exactly when every call, every field, and every nested
// plan matches in order. The identifier is the first 16 hex characters of a
// BLAKE2b-256 digest over a canonical depth-first encoding.
func (p *Plan) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	hashPlan(h, p)
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

func hashPlan(w io.Writer, p *Plan) {
	if p == nil {
		io.WriteString(w, "nil;")
		return
	}
	fmt.Fprintf(w, "plan:%d;", len(p.Calls))
	for i := range p.Calls {
		hashCall(w, &p.Calls[i])
	}
}

// hashCall writes every field of the call, present or not, in a fixed
// order. Quoting each value keeps adjacent fields from bleeding into each
// other; criteria keys are sorted so map order cannot leak into the digest.
func hashCall(w io.Writer, c *Call) {
	fmt.Fprintf(w, "call:%s:%d;", c.Op, c.Line)
	for _, f := range [...]string{
		c.Objective, c.Priority, c.Command, c.Data, c.Tag, c.Query,
		c.Pattern, c.Frequency, c.Action, c.Target, c.Modifier,
		c.Kind, c.Condition, c.Binder, c.Source, c.Name, c.Value, c.Message,
	} {
		io.WriteString(w, strconv.Quote(f))
		io.WriteString(w, ";")
	}
	keys := sortedKeys(c.Criteria)
	fmt.Fprintf(w, "criteria:%d;", len(keys))
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%s;", strconv.Quote(k), strconv.Quote(c.Criteria[k]))
	}
	fmt.Fprintf(w, "params:%d;", len(c.Params))
	for _, param := range c.Params {
		io.WriteString(w, strconv.Quote(param))
		io.WriteString(w, ";")
	}
	io.WriteString(w, "then{")
	hashPlan(w, c.Then)
	io.WriteString(w, "}else{")
	hashPlan(w, c.Else)
	io.WriteString(w, "}body{")
	hashPlan(w, c.Body)
	io.WriteString(w, "}")
}
