package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/roll-engine/pkg/protocol"
	"github.com/jwebster45206/roll-engine/pkg/rollreq"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <corpus.yaml> [corpus.yaml ...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := 0
	for _, filename := range os.Args[1:] {
		runner := &CorpusRunner{}
		if err := runner.runFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		failed += runner.failed
	}

	if failed > 0 {
		fmt.Printf("\n%d fixture(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("\nAll fixtures passed!")
}

// Corpus is a YAML file of narrator outputs with expected extraction
// and validation outcomes.
type Corpus struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// Fixture is one narrator message and what the engine should make of it.
type Fixture struct {
	Name   string `yaml:"name"`
	Text   string `yaml:"text"`
	Expect Expect `yaml:"expect"`
}

// Expect lists the assertions for a fixture. Omitted fields are not
// checked, so a fixture can assert only what it cares about.
type Expect struct {
	Valid    *bool    `yaml:"valid,omitempty"`
	Requests *int     `yaml:"requests,omitempty"`
	Kinds    []string `yaml:"kinds,omitempty"`
	Issues   []string `yaml:"issues,omitempty"`
}

type CorpusRunner struct {
	failed int
}

func (r *CorpusRunner) runFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return fmt.Errorf("file %s is not a valid corpus: %w", filename, err)
	}
	if len(corpus.Fixtures) == 0 {
		return fmt.Errorf("file %s contains no fixtures", filename)
	}

	fmt.Printf("Running %d fixture(s) from %s...\n\n", len(corpus.Fixtures), filename)

	for _, fixture := range corpus.Fixtures {
		errs := r.runFixture(&fixture)
		if len(errs) == 0 {
			fmt.Printf("  PASS  %s\n", fixture.Name)
			continue
		}
		r.failed++
		fmt.Printf("  FAIL  %s\n", fixture.Name)
		for _, e := range errs {
			fmt.Printf("        - %s\n", e)
		}
	}
	return nil
}

func (r *CorpusRunner) runFixture(fixture *Fixture) []string {
	var errs []string

	requests := rollreq.Extract(fixture.Text)
	report := protocol.Validate(fixture.Text)

	if fixture.Expect.Valid != nil && report.IsValid != *fixture.Expect.Valid {
		errs = append(errs, fmt.Sprintf("expected valid=%v, got valid=%v (issues: %s)",
			*fixture.Expect.Valid, report.IsValid, issueKinds(report)))
	}

	if fixture.Expect.Requests != nil && len(requests) != *fixture.Expect.Requests {
		errs = append(errs, fmt.Sprintf("expected %d request(s), extracted %d: %s",
			*fixture.Expect.Requests, len(requests), requestSummary(requests)))
	}

	for _, want := range fixture.Expect.Kinds {
		if !hasKind(requests, rollreq.Kind(want)) {
			errs = append(errs, fmt.Sprintf("expected a %q request, extracted: %s",
				want, requestSummary(requests)))
		}
	}

	for _, want := range fixture.Expect.Issues {
		if !hasIssue(report, protocol.IssueKind(want)) {
			errs = append(errs, fmt.Sprintf("expected issue %q, got: %s", want, issueKinds(report)))
		}
	}

	return errs
}

func hasKind(requests []rollreq.Request, kind rollreq.Kind) bool {
	for _, req := range requests {
		if req.Kind == kind {
			return true
		}
	}
	return false
}

func hasIssue(report protocol.Report, kind protocol.IssueKind) bool {
	for _, issue := range report.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	for _, issue := range report.Warnings {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

func requestSummary(requests []rollreq.Request) string {
	if len(requests) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(requests))
	for _, req := range requests {
		parts = append(parts, fmt.Sprintf("%s %s", req.Kind, req.Formula))
	}
	return strings.Join(parts, ", ")
}

func issueKinds(report protocol.Report) string {
	var parts []string
	for _, issue := range report.Issues {
		parts = append(parts, string(issue.Kind))
	}
	for _, issue := range report.Warnings {
		parts = append(parts, string(issue.Kind)+" (warning)")
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}
