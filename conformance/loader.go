package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestDataDir is the corpus location relative to this package
const TestDataDir = "testdata"

// LoadedCase represents a case with its source file path
type LoadedCase struct {
	File  string
	Suite Suite
	Case  Case
}

// LoadAll walks the corpus directory and loads every case. Unlike external
// corpora, this one ships with the repo, so a file that fails to parse is a
// hard error rather than a skip.
func LoadAll() ([]LoadedCase, error) {
	var loaded []LoadedCase

	err := filepath.Walk(TestDataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		suite, err := loadSuite(path)
		if err != nil {
			return err
		}

		rel, _ := filepath.Rel(TestDataDir, path)
		for _, c := range suite.Tests {
			loaded = append(loaded, LoadedCase{File: rel, Suite: suite, Case: c})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return Suite{}, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}
