package conformance

import (
	"testing"
)

func TestConformance(t *testing.T) {
	cases, err := LoadAll()
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("No cases loaded")
	}

	runner := NewRunner()
	results := runner.RunAll(cases)

	// Group results by file for organized output
	fileGroups := make(map[string][]Result)
	var fileOrder []string
	for _, result := range results {
		if _, seen := fileGroups[result.Case.File]; !seen {
			fileOrder = append(fileOrder, result.Case.File)
		}
		fileGroups[result.Case.File] = append(fileGroups[result.Case.File], result)
	}

	for _, file := range fileOrder {
		t.Run(file, func(t *testing.T) {
			for _, result := range fileGroups[file] {
				t.Run(result.Case.Case.Name, func(t *testing.T) {
					if result.Skipped {
						t.Skipf("Skipped: %s", result.SkipReason)
					} else if !result.Passed {
						t.Errorf("Case failed: %v", result.Err)
					}
				})
			}
		})
	}

	stats := ComputeStats(results)
	t.Logf("corpus: %s", FormatStats(stats))
	if stats.Failed > 0 {
		t.Errorf("%d corpus cases failed", stats.Failed)
	}
}

func TestCorpusLoads(t *testing.T) {
	cases, err := LoadAll()
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	files := make(map[string]int)
	for _, c := range cases {
		files[c.File]++
	}
	t.Logf("loaded %d cases from %d files", len(cases), len(files))

	if len(files) < 4 {
		t.Errorf("corpus has %d files, want at least 4", len(files))
	}
	if len(cases) < 25 {
		t.Errorf("corpus has %d cases, want at least 25", len(cases))
	}
}

func TestCorpusStructure(t *testing.T) {
	cases, err := LoadAll()
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}

	names := make(map[string]bool)
	for i, c := range cases {
		if c.Case.Name == "" {
			t.Errorf("case %d in %s has no name", i, c.File)
			continue
		}
		key := c.File + "/" + c.Case.Name
		if names[key] {
			t.Errorf("duplicate case name %s", key)
		}
		names[key] = true

		if c.Case.Source == "" {
			t.Errorf("case %s has no source", key)
		}

		e := c.Case.Expect
		if e.Plan == "" && len(e.Errors) == 0 && len(e.Warnings) == 0 &&
			e.TotalNodes == nil && e.MaxDepth == nil && e.Complexity == nil {
			t.Errorf("case %s has no expectation", key)
		}
	}
}
