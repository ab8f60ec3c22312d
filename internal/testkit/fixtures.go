package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Case is one migration fixture: a template, the expected output and the diagnostics
// the run must report. A missing `output` key means the template stays as is;
// an empty `output` value expects an empty result.
type Case struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"-"`
	// Fix - режим применения фиксов: all (по умолчанию), once, none.
	Fix         string     `yaml:"fix"`
	Rules       []string   `yaml:"rules"`
	Exempt      []string   `yaml:"exempt"`
	Diagnostics []CaseDiag `yaml:"diagnostics"`

	hasOutput bool
}

// UnmarshalYAML keeps track of whether `output` was written at all.
func (c *Case) UnmarshalYAML(n *yaml.Node) error {
	type plain Case
	var raw struct {
		plain  `yaml:",inline"`
		Output *string `yaml:"output"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*c = Case(raw.plain)
	if raw.Output != nil {
		c.Output = *raw.Output
		c.hasOutput = true
	}
	return nil
}

// CaseDiag is an expected diagnostic. Text is the source text under the primary span.
type CaseDiag struct {
	Code     string `yaml:"code"`
	Severity string `yaml:"severity"`
	Text     string `yaml:"text"`
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// LoadCases reads a fixture file. The output defaults to the input.
func LoadCases(path string) ([]Case, error) {
	// #nosec G304 -- fixture paths come from tests
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	var cf caseFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	for i := range cf.Cases {
		c := &cf.Cases[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}
		if !c.hasOutput {
			c.Output = c.Input
		}
		if c.Fix == "" {
			c.Fix = "all"
		}
	}
	return cf.Cases, nil
}

// LoadDir reads every *.yaml fixture in dir, in file name order.
func LoadDir(dir string) ([]Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out []Case
	for _, p := range paths {
		cases, err := LoadCases(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cases...)
	}
	return out, nil
}
