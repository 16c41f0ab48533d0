// Package conformance runs the YAML corpus under testdata/ through the full
// pipeline and checks rendered plans, diagnostics and analysis metrics
// against recorded expectations.
package conformance

// Suite represents a complete YAML corpus file
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Tests       []Case `yaml:"tests"`
}

// Case represents a single test within a suite
type Case struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or reason string
	Strict      bool        `yaml:"strict,omitempty"`
	Source      string      `yaml:"source"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what one compile of Source must produce. Empty fields
// are not checked; a case may pin any combination of them.
type Expectation struct {
	// Plan is the exact plan rendering. Trailing newlines are
	// normalized on both sides before comparison.
	Plan string `yaml:"plan,omitempty"`

	// Errors and Warnings are substrings that must each appear in at
	// least one error (respectively warning) finding.
	Errors   []string `yaml:"errors,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`

	// Exact analysis metrics, checked when present.
	TotalNodes *int `yaml:"total_nodes,omitempty"`
	MaxDepth   *int `yaml:"max_depth,omitempty"`
	Complexity *int `yaml:"complexity,omitempty"`
}

// IsSkipped returns true if this case should be skipped
func (c *Case) IsSkipped() (bool, string) {
	if c.Skip == nil {
		return false, ""
	}
	switch v := c.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
